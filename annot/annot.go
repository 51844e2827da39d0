// seehuhn.de/go/pdfedit - an editor for PDF pages and annotations
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.


// Package annot implements the annotation shapes of the page editor.
//
// All geometry is stored in page-intrinsic units: the fixed coordinate
// space of one page, chosen when the page is ingested and independent of
// any zoom factor or preview resolution.  The origin is the top-left corner
// of the unrotated page, x grows to the right and y grows downwards.
//
// Boxes may have negative width or height, meaning that the shape extends
// to the left or upwards from (X, Y).  Stored boxes are never normalized;
// renderers and hit tests call [Normalize] every time they need the
// covered region.  For arrows the signed vector (Width, Height) gives the
// direction from the tail at (X, Y) to the head.
package annot

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"
)

// Kind identifies the type of an annotation.
type Kind string

// These are the supported annotation kinds.
const (
	Rect      Kind = "rect"
	Highlight Kind = "highlight"
	Arrow     Kind = "arrow"
	Text      Kind = "text"
	Image     Kind = "image"
)

// IsValid reports whether k is one of the known annotation kinds.
func (k Kind) IsValid() bool {
	switch k {
	case Rect, Highlight, Arrow, Text, Image:
		return true
	}
	return false
}

// HasExtent reports whether annotations of this kind carry a width and a
// height.  Text annotations are sized by their content.
func (k Kind) HasExtent() bool {
	return k != Text && k.IsValid()
}

// Weight is the font weight of a text annotation.
type Weight string

// These are the supported font weights.
const (
	Normal Weight = "normal"
	Bold   Weight = "bold"
)

// Default values used by the editor and the renderer.
const (
	// MinExtent is the minimal absolute width or height, in page-intrinsic
	// units, of a newly drawn box.  Smaller boxes are treated as accidental
	// clicks.
	MinExtent = 5

	// HighlightAlpha is the opacity of highlight annotations.
	HighlightAlpha = 0.35

	// StrokeWidth is the line width of rectangles and arrows, in
	// page-intrinsic units.
	StrokeWidth = 3

	// ArrowHeadLength is the length of the two sides of an arrow head, in
	// page-intrinsic units.  It does not depend on the length of the shaft.
	ArrowHeadLength = 15

	// ArrowHeadAngle is the angle between the shaft and each side of an
	// arrow head.
	ArrowHeadAngle = math.Pi / 6

	// DefaultFontSize is the initial font size of the text tool.
	DefaultFontSize = 24

	// DefaultImageWidth is the width of a newly inserted image annotation.
	// The height follows from the aspect ratio of the image.
	DefaultImageWidth = 200

	// DefaultImageX and DefaultImageY give the position of newly inserted
	// image annotations.
	DefaultImageX = 50
	DefaultImageY = 50
)

var (
	// DefaultColor is the initial drawing color.
	DefaultColor = Color{R: 0xff}

	// DefaultHighlightColor is the color used for new highlights.
	DefaultHighlightColor = Color{R: 0xff, G: 0xff}
)

// Annotation is a single shape drawn on a page.
//
// The fields which are used depend on Kind:
//   - Rect, Highlight and Arrow use X, Y, Width, Height and Color.
//   - Text uses X, Y, Color, Text, FontSize and FontWeight.
//   - Image uses X, Y, Width, Height and ImageData.
type Annotation struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`

	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	Color Color `json:"color"`

	Text       string  `json:"text,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	FontWeight Weight  `json:"fontWeight,omitempty"`

	// ImageData holds the encoded image (PNG, JPEG or WebP).
	ImageData []byte `json:"imageData,omitempty"`
}

// Check verifies that the annotation is well-formed.
func (a *Annotation) Check() error {
	if !a.Kind.IsValid() {
		return fmt.Errorf("annotation %q: unknown kind %q", a.ID, a.Kind)
	}
	if !finite(a.X, a.Y, a.Width, a.Height, a.FontSize) {
		return fmt.Errorf("annotation %q: invalid coordinates", a.ID)
	}
	switch a.Kind {
	case Text:
		if a.Text == "" {
			return fmt.Errorf("annotation %q: empty text", a.ID)
		}
		if a.FontSize <= 0 {
			return fmt.Errorf("annotation %q: invalid font size %g", a.ID, a.FontSize)
		}
	case Image:
		if len(a.ImageData) == 0 {
			return fmt.Errorf("annotation %q: missing image data", a.ID)
		}
	}
	return nil
}

// Box returns the normalized region covered by the annotation.
// For text annotations, which have no stored extent, the box is empty and
// located at the anchor point.
func (a *Annotation) Box() Box {
	if !a.Kind.HasExtent() {
		return Box{X: a.X, Y: a.Y}
	}
	return Normalize(a.X, a.Y, a.Width, a.Height)
}

// Clone returns a deep copy of a.
func (a Annotation) Clone() Annotation {
	if a.ImageData != nil {
		a.ImageData = append([]byte(nil), a.ImageData...)
	}
	return a
}

// CloneAll returns a deep copy of the given annotation list.
func CloneAll(list []Annotation) []Annotation {
	if list == nil {
		return nil
	}
	res := make([]Annotation, len(list))
	for i, a := range list {
		res[i] = a.Clone()
	}
	return res
}

func finite(xx ...float64) bool {
	for _, x := range xx {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// Color is an opaque sRGB color.
type Color struct {
	R, G, B uint8
}

// String returns the color in the form "#rrggbb".
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// NRGBA returns the color with the given opacity.
func (c Color) NRGBA(alpha float64) color.NRGBA {
	alpha = math.Max(0, math.Min(1, alpha))
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(alpha * 255))}
}

// MarshalText implements the encoding.TextMarshaler interface.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (c *Color) UnmarshalText(text []byte) error {
	col, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = col
	return nil
}

// ParseColor parses a color in the form "#rrggbb" or "#rgb".
func ParseColor(s string) (Color, error) {
	hex, ok := strings.CutPrefix(strings.TrimSpace(s), "#")
	if !ok {
		return Color{}, errInvalidColor
	}
	var digits [6]byte
	switch len(hex) {
	case 3:
		for i := range 3 {
			digits[2*i] = hex[i]
			digits[2*i+1] = hex[i]
		}
	case 6:
		copy(digits[:], hex)
	default:
		return Color{}, errInvalidColor
	}

	var val [3]uint8
	for i := range 3 {
		hi, ok1 := hexDigit(digits[2*i])
		lo, ok2 := hexDigit(digits[2*i+1])
		if !ok1 || !ok2 {
			return Color{}, errInvalidColor
		}
		val[i] = hi<<4 | lo
	}
	return Color{R: val[0], G: val[1], B: val[2]}, nil
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

var errInvalidColor = errors.New("invalid color, expected #rrggbb")
