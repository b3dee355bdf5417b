// Package export renders annotated documents: HTML with comment anchors,
// transparent plain text and markdown, and review copies as HTML, PDF or DOCX.
package export

import (
	"errors"
	"time"

	"chronicle/anchoring/internal/prosemirror"
)

// Format represents the export output format
type Format string

const (
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// Request contains parameters for a review-copy export
type Request struct {
	Title           string
	Subtitle        string
	Author          string
	UpdatedAt       time.Time
	Doc             *prosemirror.Node
	Comments        []ReviewComment
	Format          Format
	IncludeComments bool
}

// ReviewComment is a comment listed in the review copy's appendix
type ReviewComment struct {
	ID           string
	Author       string
	Body         string
	SelectedText string
}

// Result contains the export output
type Result struct {
	Data     []byte
	Filename string
	MimeType string
}

var (
	// ErrContentUnavailable indicates the request carried no document.
	ErrContentUnavailable = errors.New("export content unavailable")
	// ErrUnsupportedFormat indicates an unknown output format.
	ErrUnsupportedFormat = errors.New("export format unsupported")
	// ErrPDFDependencyMissing indicates PDF export runtime dependencies are unavailable.
	ErrPDFDependencyMissing = errors.New("export pdf dependency missing")
	// ErrDOCXDependencyMissing indicates DOCX export runtime dependencies are unavailable.
	ErrDOCXDependencyMissing = errors.New("export docx dependency missing")
)
