package render

import (
	"html/template"

	"gitlab.com/golang-commonmark/markdown"
)

// Renderer turns the crew's markdown answer into HTML for the result panel.
// Raw HTML from the model is escaped, not passed through.
type Renderer struct {
	md *markdown.Markdown
}

func New() *Renderer {
	return &Renderer{
		md: markdown.New(
			markdown.HTML(false),
			markdown.Tables(true),
			markdown.Linkify(true),
			markdown.Typographer(false),
		),
	}
}

func (r *Renderer) HTML(src string) template.HTML {
	return template.HTML(r.md.RenderToString([]byte(src)))
}
