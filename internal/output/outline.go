package output

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/mj1618/findui/internal/model"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// maxOutlineSide caps the canvas; larger layouts are scaled down.
const maxOutlineSide = 4096

var (
	outlineBackground = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	outlineBox        = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	outlineAnchorBox  = color.RGBA{R: 0, G: 90, B: 255, A: 255}
	outlineText       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	outlineTextEdge   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
)

// WriteOutline renders the rectangles of records as a PNG map, each labeled
// with its "[index]". Records without a rectangle are left out. The canvas
// covers the union of all rectangles.
func WriteOutline(w io.Writer, records []model.ElementRecord) error {
	var union image.Rectangle
	for _, r := range records {
		if rect, ok := recordRect(r); ok {
			union = union.Union(rect)
		}
	}
	if union.Empty() {
		return fmt.Errorf("outline: no element has a rectangle")
	}

	scale := 1.0
	if side := max(union.Dx(), union.Dy()); side > maxOutlineSide {
		scale = float64(maxOutlineSide) / float64(side)
	}
	width := int(float64(union.Dx())*scale) + 1
	height := int(float64(union.Dy())*scale) + 1

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(outlineBackground), image.Point{}, draw.Src)

	toCanvas := func(x, y int) (int, int) {
		return int(float64(x-union.Min.X) * scale), int(float64(y-union.Min.Y) * scale)
	}

	for _, r := range records {
		rect, ok := recordRect(r)
		if !ok {
			continue
		}
		x1, y1 := toCanvas(rect.Min.X, rect.Min.Y)
		x2, y2 := toCanvas(rect.Max.X, rect.Max.Y)
		c := outlineBox
		if r.Depth == 0 {
			c = outlineAnchorBox
		}
		drawRectangle(img, x1, y1, x2, y2, c)
		drawTextWithOutline(img, fmt.Sprintf("[%d]", r.Index), (x1+x2)/2, (y1+y2)/2, outlineText, outlineTextEdge)
	}

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("outline: encode png: %w", err)
	}
	return nil
}

func recordRect(r model.ElementRecord) (image.Rectangle, bool) {
	if r.Rectangle == nil {
		return image.Rectangle{}, false
	}
	rect := image.Rect(r.Rectangle[0], r.Rectangle[1], r.Rectangle[2], r.Rectangle[3])
	return rect, !rect.Empty()
}

// drawRectangle draws a rectangle outline, clamped to the image.
func drawRectangle(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	bounds := img.Bounds()
	x1, y1 = max(x1, bounds.Min.X), max(y1, bounds.Min.Y)
	x2, y2 = min(x2, bounds.Max.X), min(y2, bounds.Max.Y)
	if x2 <= x1 || y2 <= y1 {
		return
	}
	for x := x1; x < x2; x++ {
		img.Set(x, y1, c)
		img.Set(x, y2-1, c)
	}
	for y := y1; y < y2; y++ {
		img.Set(x1, y, c)
		img.Set(x2-1, y, c)
	}
}

// drawTextWithOutline draws text centered at (x, y) with a one pixel outline.
func drawTextWithOutline(img *image.RGBA, text string, x, y int, textColor, outlineColor color.Color) {
	// basicfont.Face7x13 glyphs are 7 pixels wide and 13 high.
	offsetX := x - len(text)*7/2
	baseline := y + 13/2

	drawAt := func(dx, dy int, c color.Color) {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(c),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(offsetX+dx, baseline+dy),
		}
		d.DrawString(text)
	}
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx != 0 || dy != 0 {
				drawAt(dx, dy, outlineColor)
			}
		}
	}
	drawAt(0, 0, textColor)
}
