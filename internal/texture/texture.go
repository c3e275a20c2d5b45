// Package texture renders height grids into images for previews and material lookups.
package texture

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"endless-terrain/internal/noise"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Color is an RGB colour written as "#rrggbb" in config files.
type Color struct {
	R, G, B uint8
}

// ToRGBA converts to an opaque color.RGBA.
func (c Color) ToRGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	s := strings.TrimPrefix(strings.TrimSpace(string(text)), "#")
	if len(s) != 6 {
		return fmt.Errorf("texture: colour %q is not #rrggbb", text)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fmt.Errorf("texture: colour %q: %w", text, err)
	}
	c.R, c.G, c.B = uint8(v>>16), uint8(v>>8), uint8(v)
	return nil
}

// Region colours every cell whose normalized height is at least Height, until the next
// region starts.
type Region struct {
	Name   string  `yaml:"name"`
	Height float64 `yaml:"height"`
	Color  Color   `yaml:"color"`
}

// DefaultRegions is a water-to-snow palette.
func DefaultRegions() []Region {
	return []Region{
		{Name: "deep water", Height: 0, Color: Color{0x1f, 0x3c, 0x88}},
		{Name: "water", Height: 0.3, Color: Color{0x33, 0x63, 0xc2}},
		{Name: "sand", Height: 0.4, Color: Color{0xd2, 0xc4, 0x8a}},
		{Name: "grass", Height: 0.45, Color: Color{0x57, 0x98, 0x2b}},
		{Name: "forest", Height: 0.6, Color: Color{0x3e, 0x6b, 0x1f}},
		{Name: "rock", Height: 0.7, Color: Color{0x6b, 0x5a, 0x4c}},
		{Name: "snow", Height: 0.9, Color: Color{0xf2, 0xf2, 0xf2}},
	}
}

// FromHeightMap renders values as grayscale, black at lo and white at hi.
func FromHeightMap(g noise.Grid, lo, hi float64) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.Width, g.Height))
	for y := range g.Height {
		for x := range g.Width {
			img.SetGray(x, y, color.Gray{Y: uint8(normalized(g.At(x, y), lo, hi)*255 + 0.5)})
		}
	}
	return img
}

// FromColorMap colours each cell by the last region whose start height it reaches.
// Cells below every region get the first region's colour.
func FromColorMap(g noise.Grid, lo, hi float64, regions []Region) (*image.RGBA, error) {
	if len(regions) == 0 {
		return nil, fmt.Errorf("texture: no colour regions")
	}
	sorted := slices.Clone(regions)
	slices.SortStableFunc(sorted, func(a, b Region) int {
		switch {
		case a.Height < b.Height:
			return -1
		case a.Height > b.Height:
			return 1
		}
		return 0
	})

	img := image.NewRGBA(image.Rect(0, 0, g.Width, g.Height))
	for y := range g.Height {
		for x := range g.Width {
			h := normalized(g.At(x, y), lo, hi)
			c := sorted[0].Color
			for _, r := range sorted[1:] {
				if h < r.Height {
					break
				}
				c = r.Color
			}
			img.SetRGBA(x, y, c.ToRGBA())
		}
	}
	return img, nil
}

func normalized(v, lo, hi float64) float64 {
	if hi == lo {
		return 0
	}
	t := (v - lo) / (hi - lo)
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	}
	return t
}

// Scale resizes img to w x h. Nearest neighbour keeps cell edges crisp; smooth uses
// Catmull-Rom.
func Scale(img image.Image, w, h int, smooth bool) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	var s draw.Scaler = draw.NearestNeighbor
	if smooth {
		s = draw.CatmullRom
	}
	s.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Label draws text in the top-left corner on a dark backing strip.
func Label(img draw.Image, text string) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil() + 6
	height := face.Metrics().Height.Ceil() + 4

	strip := image.Rect(0, 0, width, height).Intersect(img.Bounds())
	draw.Draw(img, strip, image.NewUniform(color.RGBA{A: 0xb0}), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(3, face.Metrics().Ascent.Ceil()+2),
	}
	d.DrawString(text)
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// SavePNG writes img to path, creating parent directories.
func SavePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePNG(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
