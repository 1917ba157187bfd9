// Package markdown renders artwork descriptions.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/frontmatter"
)

// Description is a rendered description file. Meta holds the optional YAML
// front matter (medium, year, dimensions, ...) and never appears in HTML.
type Description struct {
	HTML string         `json:"html"`
	Meta map[string]any `json:"meta,omitempty"`
}

// Parser renders Markdown. Raw HTML in the source is dropped.
type Parser struct {
	md goldmark.Markdown
}

func NewParser() *Parser {
	return &Parser{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Footnote,
				extension.Typographer,
				&frontmatter.Extender{},
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				goldmarkhtml.WithHardWraps(),
				goldmarkhtml.WithXHTML(),
			),
		),
	}
}

// Render converts a description file. Malformed front matter is ignored.
func (p *Parser) Render(source []byte) (*Description, error) {
	pc := parser.NewContext()
	var buf bytes.Buffer

	err := p.md.Convert(source, &buf, parser.WithContext(pc))
	if err != nil {
		return nil, err
	}

	d := &Description{HTML: buf.String()}
	if data := frontmatter.Get(pc); data != nil {
		var meta map[string]any
		if data.Decode(&meta) == nil && len(meta) > 0 {
			d.Meta = meta
		}
	}
	return d, nil
}
