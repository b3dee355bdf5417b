package prosemirror

import (
	"encoding/json"
	"reflect"
	"sort"
)

// Mark is an inline annotation carried by text nodes.
type Mark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// NewMark builds a mark of the given type.
func NewMark(markType string, attrs map[string]any) Mark {
	return Mark{Type: markType, Attrs: attrs}
}

// Attr returns a string attribute, or "" when absent.
func (m Mark) Attr(key string) string {
	value, _ := m.Attrs[key].(string)
	return value
}

// Eq reports whether two marks have the same type and attributes.
func (m Mark) Eq(other Mark) bool {
	if m.Type != other.Type {
		return false
	}
	if len(m.Attrs) == 0 && len(other.Attrs) == 0 {
		return true
	}
	return reflect.DeepEqual(m.Attrs, other.Attrs)
}

// IsInSet reports whether the mark is present in set.
func (m Mark) IsInSet(set []Mark) bool {
	for _, existing := range set {
		if m.Eq(existing) {
			return true
		}
	}
	return false
}

// AddToSet returns a sorted copy of set with m added. Marks of a type that
// excludes itself replace any existing mark of that type.
func (m Mark) AddToSet(set []Mark) []Mark {
	if m.IsInSet(set) {
		return set
	}
	spec := MarkSpecFor(m.Type)
	out := make([]Mark, 0, len(set)+1)
	for _, existing := range set {
		if spec.ExcludesSelf && existing.Type == m.Type {
			continue
		}
		out = append(out, existing)
	}
	out = append(out, m)
	sortMarks(out)
	return out
}

// RemoveFromSet returns set without m. The original slice is not modified.
func (m Mark) RemoveFromSet(set []Mark) []Mark {
	for i, existing := range set {
		if m.Eq(existing) {
			out := make([]Mark, 0, len(set)-1)
			out = append(out, set[:i]...)
			return append(out, set[i+1:]...)
		}
	}
	return set
}

// SameMarkSet reports whether a and b hold the same marks.
func SameMarkSet(a, b []Mark) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Eq(b[i]) {
			return false
		}
	}
	return true
}

func sortMarks(set []Mark) {
	sort.SliceStable(set, func(i, j int) bool {
		ri, rj := MarkSpecFor(set[i].Type).rank, MarkSpecFor(set[j].Type).rank
		if ri != rj {
			return ri < rj
		}
		if set[i].Type != set[j].Type {
			return set[i].Type < set[j].Type
		}
		return attrsKey(set[i].Attrs) < attrsKey(set[j].Attrs)
	})
}

func attrsKey(attrs map[string]any) string {
	if len(attrs) == 0 {
		return ""
	}
	// encoding/json sorts map keys
	data, err := json.Marshal(attrs)
	if err != nil {
		return ""
	}
	return string(data)
}
