// Package banner renders the project's promotional PNG artwork: a wide
// social banner and a square badge.
package banner

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	BannerWidth  = 1200
	BannerHeight = 630
	BadgeSize    = 400
)

var (
	bgTop     = color.NRGBA{R: 0x0f, G: 0x17, B: 0x2b, A: 0xff}
	bgBottom  = color.NRGBA{R: 0x1a, G: 0x26, B: 0x44, A: 0xff}
	gridLine  = color.NRGBA{R: 0x2a, G: 0x3a, B: 0x5c, A: 0x50}
	accent    = color.NRGBA{R: 0x4f, G: 0xd1, B: 0xc5, A: 0xff}
	accentDim = color.NRGBA{R: 0x4f, G: 0xd1, B: 0xc5, A: 0x40}
	titleCol  = color.NRGBA{R: 0xf5, G: 0xf7, B: 0xfa, A: 0xff}
	subCol    = color.NRGBA{R: 0x9a, G: 0xa8, B: 0xc0, A: 0xff}
)

// Banner renders the wide social-preview image.
func Banner(title, subtitle string) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, BannerWidth, BannerHeight))
	fillGradient(img)
	drawGrid(img, 40)

	cx, cy := BannerWidth/2, 230
	drawRadiating(img, cx, cy, 90, 150, 24)
	drawOrb(img, cx, cy, 70)

	drawTextScaled(img, title, cx, 420, 4, titleCol)
	if subtitle != "" {
		drawTextScaled(img, subtitle, cx, 500, 2, subCol)
	}
	return img
}

// Badge renders the square badge variant.
func Badge(title string) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, BadgeSize, BadgeSize))
	fillGradient(img)
	drawGrid(img, 32)

	cx, cy := BadgeSize/2, 160
	drawRadiating(img, cx, cy, 60, 100, 16)
	drawOrb(img, cx, cy, 48)
	drawTextScaled(img, title, cx, 320, 3, titleCol)
	return img
}

// WriteAll renders both images into dir as banner.png and badge.png.
func WriteAll(dir, title, subtitle string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("banner: create output dir: %w", err)
	}
	if err := writePNG(filepath.Join(dir, "banner.png"), Banner(title, subtitle)); err != nil {
		return err
	}
	return writePNG(filepath.Join(dir, "badge.png"), Badge(title))
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("banner: create %q: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("banner: encode %q: %w", path, err)
	}
	return nil
}

// fillGradient paints a vertical two-stop gradient.
func fillGradient(img *image.NRGBA) {
	b := img.Bounds()
	h := b.Dy()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		t := float64(y-b.Min.Y) / float64(h-1)
		c := lerpColor(bgTop, bgBottom, t)
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

func drawGrid(img *image.NRGBA, step int) {
	b := img.Bounds()
	for x := b.Min.X; x < b.Max.X; x += step {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			blend(img, x, y, gridLine)
		}
	}
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x++ {
			blend(img, x, y, gridLine)
		}
	}
}

// drawOrb paints a filled circle with a soft glow falloff past the radius.
func drawOrb(img *image.NRGBA, cx, cy, r int) {
	glow := r * 2
	for dy := -glow; dy <= glow; dy++ {
		for dx := -glow; dx <= glow; dx++ {
			d := math.Hypot(float64(dx), float64(dy))
			x, y := cx+dx, cy+dy
			switch {
			case d <= float64(r):
				t := d / float64(r)
				img.SetNRGBA(x, y, lerpColor(titleCol, accent, t))
			case d <= float64(glow):
				t := (d - float64(r)) / float64(glow-r)
				a := uint8(float64(accentDim.A) * (1 - t))
				blend(img, x, y, color.NRGBA{R: accent.R, G: accent.G, B: accent.B, A: a})
			}
		}
	}
}

// drawRadiating paints n lines fanning out from the orb's edge.
func drawRadiating(img *image.NRGBA, cx, cy, inner, outer, n int) {
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		sin, cos := math.Sin(angle), math.Cos(angle)
		for d := inner; d <= outer; d++ {
			x := cx + int(float64(d)*cos)
			y := cy + int(float64(d)*sin)
			blend(img, x, y, accentDim)
		}
	}
}

// drawTextScaled draws centered text at an integer scale factor of the
// built-in 7x13 face.
func drawTextScaled(img *image.NRGBA, text string, cx, cy, scale int, col color.NRGBA) {
	face := basicfont.Face7x13
	w := font.MeasureString(face, text).Ceil()
	glyphs := image.NewNRGBA(image.Rect(0, 0, w+2, face.Height+4))
	d := &font.Drawer{
		Dst:  glyphs,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(text)

	gb := glyphs.Bounds()
	x0 := cx - gb.Dx()*scale/2
	y0 := cy - gb.Dy()*scale/2
	for y := gb.Min.Y; y < gb.Max.Y; y++ {
		for x := gb.Min.X; x < gb.Max.X; x++ {
			c := glyphs.NRGBAAt(x, y)
			if c.A == 0 {
				continue
			}
			for sy := 0; sy < scale; sy++ {
				for sx := 0; sx < scale; sx++ {
					blend(img, x0+x*scale+sx, y0+y*scale+sy, c)
				}
			}
		}
	}
}

func lerpColor(a, b color.NRGBA, t float64) color.NRGBA {
	return color.NRGBA{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: 0xff,
	}
}

// blend alpha-composites c over the existing pixel, ignoring out-of-bounds.
func blend(img *image.NRGBA, x, y int, c color.NRGBA) {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) || c.A == 0 {
		return
	}
	if c.A == 0xff {
		img.SetNRGBA(x, y, c)
		return
	}
	base := img.NRGBAAt(x, y)
	a := float64(c.A) / 255
	img.SetNRGBA(x, y, color.NRGBA{
		R: uint8(float64(c.R)*a + float64(base.R)*(1-a)),
		G: uint8(float64(c.G)*a + float64(base.G)*(1-a)),
		B: uint8(float64(c.B)*a + float64(base.B)*(1-a)),
		A: 0xff,
	})
}
