package export

import (
	"bytes"
	"html/template"
	"strings"
	"time"
)

// SafeHTML is a template function that marks a string as safe HTML
func SafeHTML(s interface{}) template.HTML {
	switch v := s.(type) {
	case string:
		return template.HTML(v)
	case template.HTML:
		return v
	default:
		return template.HTML("")
	}
}

var documentTemplate = template.Must(template.New("document").Funcs(template.FuncMap{
	"lower": strings.ToLower,
	"formatDate": func(t time.Time, layout string) string {
		return t.Format(layout)
	},
	"safeHTML": SafeHTML,
}).Parse(reviewTemplate))

// TemplateData holds data for document template rendering
type TemplateData struct {
	Title       string
	Subtitle    string
	ContentHTML template.HTML
	Author      string
	UpdatedAt   time.Time
	Comments    []TemplateComment
}

// TemplateComment holds comment data for the appendix
type TemplateComment struct {
	ElementID    string
	ID           string
	Author       string
	Body         string
	SelectedText string
	Anchored     bool
}

// RenderDocumentHTML renders the document template with provided data
func RenderDocumentHTML(data TemplateData) (string, error) {
	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const reviewTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; max-width: 800px; margin: 2rem auto; }
    h1 { border-bottom: 2px solid #333; padding-bottom: 0.5rem; }
    .meta { color: #666; font-size: 0.9em; margin-bottom: 2rem; }
    .comment-mark, .comment-highlight { background: #fff3b0; }
    .comment-badge::after { content: "\1F4AC"; font-size: 0.8em; margin-left: 2px; }
    .comment { background: #f5f5f5; padding: 1rem; margin: 1rem 0; border-left: 3px solid #333; }
    .comment.unanchored { border-left-color: #b00; }
    .quote { color: #555; font-style: italic; }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  {{if .Subtitle}}<p>{{.Subtitle}}</p>{{end}}
  <div class="meta">{{.Author}}{{if not .UpdatedAt.IsZero}} | {{formatDate .UpdatedAt "Jan 2, 2006"}}{{end}}</div>
  <div>{{.ContentHTML | safeHTML}}</div>
  {{if .Comments}}
  <h2>Comments</h2>
  {{range .Comments}}<div id="{{.ElementID}}" class="comment{{if not .Anchored}} unanchored{{end}}" data-comment-id="{{.ID}}">
    {{if .SelectedText}}<div class="quote">{{.SelectedText}}</div>{{end}}
    <div>{{.Body}}</div>
    <div class="meta">{{.Author}}{{if not .Anchored}} | text no longer in document{{end}}</div>
  </div>
  {{end}}
  {{end}}
</body>
</html>`
