package render

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	pdflib "github.com/ledongthuc/pdf"
)

// LoadFailedMessage prefixes every load error shown to the user.
const LoadFailedMessage = "Failed to load PDF file. Please ensure the file is a valid PDF."

// letter is used when a page carries no usable MediaBox.
var letter = PageGeometry{Width: 612, Height: 792}

// PDFRenderer opens PDF documents with ledongthuc/pdf for page count and
// geometry, and rasterizes pages with MuPDF.
type PDFRenderer struct {
	log *slog.Logger
}

func NewPDFRenderer(log *slog.Logger) *PDFRenderer {
	return &PDFRenderer{log: log}
}

// Load inspects doc in the background and reports the outcome through cb.
func (r *PDFRenderer) Load(ctx context.Context, doc Document, cb Callbacks) {
	go func() {
		info, err := Inspect(ctx, doc.Data)
		if err != nil {
			r.log.Warn("document load failed", "name", doc.Name, "error", err)
			cb.OnError(fmt.Sprintf("%s (%s)", LoadFailedMessage, err))
			return
		}
		r.log.Debug("document loaded", "name", doc.Name, "pages", info.PageCount)
		cb.OnLoad(info)
	}()
}

// Inspect reads the page count and per-page geometry of a PDF.
func Inspect(ctx context.Context, data []byte) (info DocumentInfo, err error) {
	// ledongthuc/pdf panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed pdf: %v", rec)
		}
	}()

	if len(data) == 0 {
		return DocumentInfo{}, fmt.Errorf("empty document")
	}
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return DocumentInfo{}, fmt.Errorf("open pdf: %w", err)
	}

	n := reader.NumPage()
	info = DocumentInfo{PageCount: n, Pages: make([]PageGeometry, 0, n)}
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return DocumentInfo{}, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			info.Pages = append(info.Pages, letter)
			continue
		}
		info.Pages = append(info.Pages, pageGeometry(page.V))
	}
	return info, nil
}

// pageGeometry resolves the MediaBox of a page, following Parent links
// for inherited boxes.
func pageGeometry(v pdflib.Value) PageGeometry {
	for depth := 0; depth < 32 && !v.IsNull(); depth++ {
		if g, ok := parseBox(v.Key("MediaBox")); ok {
			return g
		}
		v = v.Key("Parent")
	}
	return letter
}

func parseBox(box pdflib.Value) (PageGeometry, bool) {
	if box.Kind() != pdflib.Array || box.Len() != 4 {
		return PageGeometry{}, false
	}
	var c [4]float64
	for i := range c {
		val := box.Index(i)
		switch val.Kind() {
		case pdflib.Integer:
			c[i] = float64(val.Int64())
		case pdflib.Real:
			c[i] = val.Float64()
		default:
			return PageGeometry{}, false
		}
	}
	w, h := c[2]-c[0], c[3]-c[1]
	if w < 0 {
		w = -w
	}
	if h < 0 {
		h = -h
	}
	if w == 0 || h == 0 {
		return PageGeometry{}, false
	}
	return PageGeometry{Width: w, Height: h}, true
}
