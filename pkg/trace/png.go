// Waveform rendering of recorded levels.

package trace

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// PNGOptions configures waveform rendering.
type PNGOptions struct {
	StepWidth  int
	RowHeight  int
	Padding    int
	LabelWidth int
	FontSize   int
}

// DefaultPNGOptions returns sensible defaults for waveform rendering.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		StepWidth:  24,
		RowHeight:  28,
		Padding:    16,
		LabelWidth: 90,
		FontSize:   12,
	}
}

var (
	colorWhite  = color.RGBA{255, 255, 255, 255}
	colorBlack  = color.RGBA{51, 51, 51, 255}    // #333
	colorGrid   = color.RGBA{224, 224, 224, 255} // #e0e0e0
	colorHigh   = color.RGBA{21, 101, 192, 255}  // #1565c0
	colorHighBg = color.RGBA{227, 242, 253, 255} // #e3f2fd
	colorOutput = color.RGBA{230, 81, 0, 255}    // #e65100
)

type renderContext struct {
	img   *image.RGBA
	scale int
	face  font.Face
}

func newRenderContext(img *image.RGBA, scale, fontSize int) (*renderContext, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(fontSize * scale),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("creating font face: %w", err)
	}
	return &renderContext{img: img, scale: scale, face: face}, nil
}

func (ctx *renderContext) fillRect(x0, y0, x1, y1 int, c color.Color) {
	draw.Draw(ctx.img, image.Rect(x0, y0, x1, y1), image.NewUniform(c), image.Point{}, draw.Src)
}

func (ctx *renderContext) hline(x0, x1, y int, c color.Color) {
	ctx.fillRect(x0, y-ctx.scale/2, x1, y-ctx.scale/2+ctx.scale, c)
}

func (ctx *renderContext) vline(x, y0, y1 int, c color.Color) {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	ctx.fillRect(x-ctx.scale/2, y0, x-ctx.scale/2+ctx.scale, y1+1, c)
}

// drawText draws text with its left edge at x, vertically centred on y.
func (ctx *renderContext) drawText(x, y int, text string, c color.Color) {
	ascent := ctx.face.Metrics().Ascent.Ceil()
	d := &font.Drawer{
		Dst:  ctx.img,
		Src:  image.NewUniform(c),
		Face: ctx.face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y + ascent*35/100)},
	}
	d.DrawString(text)
}

// RenderPNG draws one square wave per signal, with a tick under every step
// that emitted outputs. Rendering is done at 2x and downsampled.
func RenderPNG(t *Trace, w io.Writer, opts PNGOptions) error {
	const scale = 2
	steps := len(t.Steps)
	if steps == 0 {
		return fmt.Errorf("trace %q has no steps", t.Name)
	}
	width := opts.Padding*2 + opts.LabelWidth + steps*opts.StepWidth
	height := opts.Padding*2 + (len(Signals)+1)*opts.RowHeight

	large := image.NewRGBA(image.Rect(0, 0, width*scale, height*scale))
	ctx, err := newRenderContext(large, scale, opts.FontSize)
	if err != nil {
		return err
	}
	ctx.fillRect(0, 0, width*scale, height*scale, colorWhite)

	left := (opts.Padding + opts.LabelWidth) * scale
	stepW := opts.StepWidth * scale
	rowH := opts.RowHeight * scale
	top := opts.Padding * scale

	for i := 0; i <= steps; i++ {
		x := left + i*stepW
		ctx.vline(x, top, top+(len(Signals)+1)*rowH, colorGrid)
	}

	for row, sig := range Signals {
		y0 := top + row*rowH
		high := y0 + rowH/4
		low := y0 + rowH*3/4
		ctx.drawText(opts.Padding*scale, y0+rowH/2, sig.Name, colorBlack)

		prev := false
		for i, s := range t.Steps {
			x0 := left + i*stepW
			x1 := x0 + stepW
			v := sig.Read(s.Levels)
			if i > 0 && v != prev {
				ctx.vline(x0, high, low, colorHigh)
			}
			if v {
				ctx.fillRect(x0, high, x1, low, colorHighBg)
				ctx.hline(x0, x1, high, colorHigh)
			} else {
				ctx.hline(x0, x1, low, colorHigh)
			}
			prev = v
		}
	}

	y0 := top + len(Signals)*rowH
	ctx.drawText(opts.Padding*scale, y0+rowH/2, "outputs", colorBlack)
	for i, s := range t.Steps {
		if len(s.Outputs) == 0 {
			continue
		}
		x := left + i*stepW + stepW/2
		ctx.vline(x, y0+rowH/4, y0+rowH*3/4, colorOutput)
		ctx.drawText(x+scale*2, y0+rowH/2, fmt.Sprint(len(s.Outputs)), colorOutput)
	}

	final := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(final, final.Bounds(), large, large.Bounds(), draw.Over, nil)
	return png.Encode(w, final)
}
