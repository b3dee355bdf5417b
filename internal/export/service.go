package export

import (
	"context"
	"fmt"
	"html/template"

	"chronicle/anchoring/internal/anchor"
	"chronicle/anchoring/internal/util"
)

// Renderer turns review HTML into a binary format.
type Renderer func(ctx context.Context, html, title string) (*Result, error)

// Service provides review-copy export
type Service struct {
	pdf  Renderer
	docx Renderer
}

// NewService creates an export service backed by headless Chrome and pandoc
func NewService() *Service {
	return &Service{pdf: exportPDF, docx: exportDOCX}
}

// NewServiceWithRenderers creates an export service with custom renderers
func NewServiceWithRenderers(pdf, docx Renderer) *Service {
	return &Service{pdf: pdf, docx: docx}
}

// Export generates a review copy in the requested format
func (s *Service) Export(ctx context.Context, req Request) (*Result, error) {
	if req.Doc == nil {
		return nil, ErrContentUnavailable
	}

	contentHTML := HTML(req.Doc, HTMLOptions{Badges: anchor.ComputeBadges(req.Doc)})
	data := TemplateData{
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		ContentHTML: template.HTML(contentHTML),
		Author:      req.Author,
		UpdatedAt:   req.UpdatedAt,
	}

	if req.IncludeComments {
		anchored := make(map[string]bool)
		for _, id := range anchor.CommentIDs(req.Doc) {
			anchored[id] = true
		}
		ids := util.NewSequence("comment")
		for _, c := range req.Comments {
			data.Comments = append(data.Comments, TemplateComment{
				ElementID:    ids.Next(),
				ID:           c.ID,
				Author:       c.Author,
				Body:         c.Body,
				SelectedText: c.SelectedText,
				Anchored:     anchored[c.ID],
			})
		}
	}

	html, err := RenderDocumentHTML(data)
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	switch req.Format {
	case FormatHTML, "":
		return &Result{
			Data:     []byte(html),
			Filename: sanitizeFilename(req.Title) + ".html",
			MimeType: "text/html; charset=utf-8",
		}, nil
	case FormatPDF:
		return s.pdf(ctx, html, req.Title)
	case FormatDOCX:
		return s.docx(ctx, html, req.Title)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, req.Format)
	}
}
