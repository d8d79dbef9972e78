package render

import (
	"context"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
	"golang.org/x/image/draw"
)

// RenderPage rasterizes the given 1-based page and scales it to widthPx.
// A widthPx <= 0 keeps the native raster width; widths above the
// configured maximum are capped.
func (r *PDFRenderer) RenderPage(ctx context.Context, doc Document, page, widthPx int) (Surface, error) {
	opts := Current()

	fdoc, err := fitz.NewFromMemory(doc.Data)
	if err != nil {
		return Surface{}, fmt.Errorf("open pdf: %w", err)
	}
	defer fdoc.Close()

	if page < 1 || page > fdoc.NumPage() {
		return Surface{}, fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, page, fdoc.NumPage())
	}
	if err := ctx.Err(); err != nil {
		return Surface{}, err
	}

	src, err := fdoc.ImageDPI(page-1, opts.DPI)
	if err != nil {
		return Surface{}, fmt.Errorf("rasterize page %d: %w", page, err)
	}

	img := ScaleToWidth(src, widthPx, opts.MaxWidth)
	b := img.Bounds()
	return Surface{Image: img, WidthPx: b.Dx(), HeightPx: b.Dy()}, nil
}

// ScaleToWidth resizes src to width px, preserving aspect ratio. A
// non-positive width keeps the native width. Either way the result is no
// wider than maxWidth when maxWidth > 0.
func ScaleToWidth(src image.Image, width, maxWidth int) image.Image {
	sb := src.Bounds()
	if width <= 0 {
		width = sb.Dx()
	}
	if maxWidth > 0 && width > maxWidth {
		width = maxWidth
	}
	if width <= 0 || sb.Dx() == 0 || width == sb.Dx() {
		return src
	}
	height := sb.Dy() * width / sb.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Over, nil)
	return dst
}
