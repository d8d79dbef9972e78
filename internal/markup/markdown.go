package markup

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Raw HTML in extracted markdown is dropped: never enable WithUnsafe here.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// RenderMarkdown converts the extraction service's markdown to HTML.
func RenderMarkdown(src string) ([]byte, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return buf.Bytes(), nil
}
