package anchor

// Range is a half-open span [From, To) of document positions.
type Range struct {
	From int
	To   int
}

// ResolveRange maps a match in ext.Normalized back to document positions.
// From is the first addressable position in the matched span and To is one
// past the last. It fails when the span covers only separators.
func ResolveRange(m Match, ext *Extraction) (Range, bool) {
	start, end, ok := ext.originalSpan(m)
	if !ok {
		return Range{}, false
	}
	from, last := Sentinel, Sentinel
	for i := start; i <= end; i++ {
		pos := ext.Positions[i]
		if pos == Sentinel {
			continue
		}
		if from == Sentinel {
			from = pos
		}
		last = pos
	}
	if from == Sentinel {
		return Range{}, false
	}
	return Range{From: from, To: last + 1}, true
}

// ResolveRanges is ResolveRange for decorations: the span is split wherever
// a separator or a position gap interrupts it, one range per contiguous run.
func ResolveRanges(m Match, ext *Extraction) []Range {
	start, end, ok := ext.originalSpan(m)
	if !ok {
		return nil
	}
	var ranges []Range
	open := false
	var cur Range
	for i := start; i <= end; i++ {
		pos := ext.Positions[i]
		switch {
		case pos == Sentinel:
			if open {
				ranges = append(ranges, cur)
				open = false
			}
		case open && pos == cur.To:
			cur.To++
		default:
			if open {
				ranges = append(ranges, cur)
			}
			cur = Range{From: pos, To: pos + 1}
			open = true
		}
	}
	if open {
		ranges = append(ranges, cur)
	}
	return ranges
}

// originalSpan maps the normalized span of m to an inclusive range of rune
// indexes in ext.Text.
func (ext *Extraction) originalSpan(m Match) (int, int, bool) {
	if m.Length <= 0 || m.Index < 0 || m.Index+m.Length > len(ext.normIndex) {
		return 0, 0, false
	}
	return ext.normIndex[m.Index], ext.normIndex[m.Index+m.Length-1], true
}
