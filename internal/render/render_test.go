package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimalPDF builds a valid PDF with the given MediaBoxes, one page each.
// The first page inherits its box from the Pages node when inherit is set.
func minimalPDF(boxes [][4]int, inherit bool) []byte {
	var objs []string
	n := len(boxes)
	kids := make([]string, n)
	for i := range boxes {
		kids[i] = fmt.Sprintf("%d 0 R", 3+i)
	}
	pagesBox := ""
	if inherit {
		b := boxes[0]
		pagesBox = fmt.Sprintf(" /MediaBox [%d %d %d %d]", b[0], b[1], b[2], b[3])
	}
	objs = append(objs, "<< /Type /Catalog /Pages 2 0 R >>")
	objs = append(objs, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d%s >>", strings.Join(kids, " "), n, pagesBox))
	for i, b := range boxes {
		if inherit && i == 0 {
			objs = append(objs, "<< /Type /Page /Parent 2 0 R >>")
			continue
		}
		objs = append(objs, fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [%d %d %d %d] >>", b[0], b[1], b[2], b[3]))
	}

	var sb strings.Builder
	sb.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = sb.Len()
		fmt.Fprintf(&sb, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := sb.Len()
	fmt.Fprintf(&sb, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&sb, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&sb, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return []byte(sb.String())
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInspect_PageCountAndGeometry(t *testing.T) {
	data := minimalPDF([][4]int{{0, 0, 612, 792}, {0, 0, 842, 595}}, false)
	info, err := Inspect(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, 2, info.PageCount)
	require.Len(t, info.Pages, 2)
	assert.Equal(t, PageGeometry{Width: 612, Height: 792}, info.Pages[0])
	assert.Equal(t, PageGeometry{Width: 842, Height: 595}, info.Pages[1])
}

func TestInspect_InheritedMediaBox(t *testing.T) {
	data := minimalPDF([][4]int{{0, 0, 500, 1000}}, true)
	info, err := Inspect(context.Background(), data)
	require.NoError(t, err)
	require.Len(t, info.Pages, 1)
	assert.Equal(t, 2.0, info.Pages[0].Aspect())
}

func TestInspect_RejectsGarbage(t *testing.T) {
	_, err := Inspect(context.Background(), []byte("this is not a pdf"))
	assert.Error(t, err)

	_, err = Inspect(context.Background(), nil)
	assert.Error(t, err)
}

func TestPDFRenderer_LoadCallsExactlyOneCallback(t *testing.T) {
	r := NewPDFRenderer(discardLogger())

	cases := []struct {
		name   string
		data   []byte
		wantOK bool
	}{
		{"valid", minimalPDF([][4]int{{0, 0, 612, 792}}, false), true},
		{"invalid", []byte("garbage"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			done := make(chan string, 2)
			r.Load(context.Background(), Document{Name: tc.name, Data: tc.data}, Callbacks{
				OnLoad:  func(info DocumentInfo) { done <- "load" },
				OnError: func(msg string) { done <- "error:" + msg },
			})
			select {
			case got := <-done:
				if tc.wantOK {
					assert.Equal(t, "load", got)
				} else {
					assert.True(t, strings.HasPrefix(got, "error:"+LoadFailedMessage), got)
				}
			case <-time.After(5 * time.Second):
				t.Fatal("no callback")
			}
			select {
			case extra := <-done:
				t.Fatalf("unexpected second callback %q", extra)
			case <-time.After(20 * time.Millisecond):
			}
		})
	}
}

func TestScaleToWidth(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 200, 100))

	got := ScaleToWidth(src, 100, 0)
	assert.Equal(t, 100, got.Bounds().Dx())
	assert.Equal(t, 50, got.Bounds().Dy())

	got = ScaleToWidth(src, 1000, 400)
	assert.Equal(t, 400, got.Bounds().Dx())
	assert.Equal(t, 200, got.Bounds().Dy())

	assert.Same(t, src, ScaleToWidth(src, 0, 0))
	assert.Same(t, src, ScaleToWidth(src, 0, 400))
}

func TestScaleToWidth_NativeWidthCapped(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3000, 1500))

	got := ScaleToWidth(src, 0, 2400)
	assert.Equal(t, image.Pt(2400, 1200), got.Bounds().Size())

	got = ScaleToWidth(src, -1, 600)
	assert.Equal(t, image.Pt(600, 300), got.Bounds().Size())
}

func TestSetup_OnlyOnce(t *testing.T) {
	first := Setup(Options{DPI: 96})
	second := Setup(Options{DPI: 300})
	// Another test in this binary may have called Setup first; either way
	// the second call must be rejected.
	_ = first
	assert.True(t, errors.Is(second, ErrAlreadyConfigured))
	assert.NotEqual(t, 300.0, Current().DPI)
}

func TestPageGeometryAspect(t *testing.T) {
	assert.Zero(t, PageGeometry{}.Aspect())
	assert.InDelta(t, 792.0/612.0, letter.Aspect(), 1e-12)
}
