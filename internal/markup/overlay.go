package markup

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dgallion1/docreview/internal/viewer"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const overlayClass = "absolute border-2 opacity-50 hover:opacity-100 transition-opacity"

// RenderOverlay writes the overlay layer for v as an HTML fragment. The
// layer and every box carry pointer-events:none so the page beneath keeps
// text selection and links.
func RenderOverlay(w io.Writer, v viewer.View) error {
	var root *html.Node
	if v.Status == viewer.StatusError {
		root = errorBlock(v.Error)
	} else {
		root = layer(v)
	}
	if err := html.Render(w, root); err != nil {
		return fmt.Errorf("render overlay: %w", err)
	}
	return nil
}

func layer(v viewer.View) *html.Node {
	attrs := []html.Attribute{
		{Key: "class", Val: "overlay-layer"},
		{Key: "style", Val: "position:absolute;left:0;top:0;" + size(v.Surface) + "pointer-events:none"},
		{Key: "data-status", Val: v.Status.String()},
	}
	if v.CurrentPage != nil {
		attrs = append(attrs, html.Attribute{Key: "data-page", Val: strconv.Itoa(*v.CurrentPage)})
	}
	root := element(atom.Div, attrs...)

	for _, o := range v.Overlays {
		style := strings.Join([]string{
			"left:" + px(o.Rect.Left),
			"top:" + px(o.Rect.Top),
			"width:" + px(o.Rect.Width),
			"height:" + px(o.Rect.Height),
			"z-index:" + strconv.Itoa(10+o.Z),
			"border-color:" + o.Style.Color,
			"pointer-events:none",
		}, ";")
		root.AppendChild(element(atom.Div,
			html.Attribute{Key: "class", Val: overlayClass + " " + o.Style.BorderClass},
			html.Attribute{Key: "style", Val: style},
			html.Attribute{Key: "title", Val: "Type: " + o.Label},
			html.Attribute{Key: "data-type", Val: o.Type.String()},
		))
	}
	return root
}

func errorBlock(msg string) *html.Node {
	root := element(atom.Div, html.Attribute{Key: "class", Val: "viewer-error"})
	heading := element(atom.P, html.Attribute{Key: "class", Val: "text-lg font-semibold mb-2"})
	heading.AppendChild(&html.Node{Type: html.TextNode, Data: "PDF Loading Error"})
	detail := element(atom.P, html.Attribute{Key: "class", Val: "text-sm"})
	detail.AppendChild(&html.Node{Type: html.TextNode, Data: msg})
	root.AppendChild(heading)
	root.AppendChild(detail)
	return root
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

func size(s viewer.SurfaceSize) string {
	if !s.Measured() {
		return ""
	}
	return "width:" + px(s.WidthPx) + ";height:" + px(s.HeightPx) + ";"
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
