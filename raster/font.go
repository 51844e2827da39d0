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


package raster

import (
	"bytes"
	"image"
	"strings"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"seehuhn.de/go/geom/matrix"
	geompath "seehuhn.de/go/geom/path"
	"seehuhn.de/go/pdf/font"
	"seehuhn.de/go/pdf/font/dict"
	"seehuhn.de/go/pdf/font/glyphdata"
	"seehuhn.de/go/postscript/cid"
	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/glyph"
)

// character paints one glyph of the current text.
//
// Glyph outlines are taken from the embedded font program where possible.
// Fonts which are not embedded, or which cannot be parsed, are replaced by
// the Go fonts; in this case the glyph is located by its Unicode text.
func (rend *renderer) character(code cid.CID, text string, width float64) error {
	f := rend.r.TextFont
	if f == nil {
		return nil
	}

	sf, embedded := rend.getFont(f)
	if sf == nil || sf.Outlines == nil {
		return nil
	}

	gid := lookupGlyph(sf, code, text, embedded)
	if gid == 0 {
		return nil
	}

	fs := rend.r.TextFontSize
	hs := rend.r.TextHorizontalScaling
	rise := rend.r.TextRise
	scale := fs / float64(sf.UnitsPerEm)
	m := matrix.Matrix{scale * hs, 0, 0, scale, 0, rise}.Mul(rend.r.TextMatrix).Mul(rend.r.CTM)

	bounds := rend.img.Bounds()
	rend.ras.Reset(bounds.Dx(), bounds.Dy())
	for cmd, pts := range sf.Outlines.Path(gid) {
		switch cmd {
		case geompath.CmdMoveTo:
			x, y := apply(m, pts[0].X, pts[0].Y)
			rend.ras.MoveTo(x, y)
		case geompath.CmdLineTo:
			x, y := apply(m, pts[0].X, pts[0].Y)
			rend.ras.LineTo(x, y)
		case geompath.CmdQuadTo:
			x1, y1 := apply(m, pts[0].X, pts[0].Y)
			x2, y2 := apply(m, pts[1].X, pts[1].Y)
			rend.ras.QuadTo(x1, y1, x2, y2)
		case geompath.CmdCubeTo:
			x1, y1 := apply(m, pts[0].X, pts[0].Y)
			x2, y2 := apply(m, pts[1].X, pts[1].Y)
			x3, y3 := apply(m, pts[2].X, pts[2].Y)
			rend.ras.CubeTo(x1, y1, x2, y2, x3, y3)
		case geompath.CmdClose:
			rend.ras.ClosePath()
		}
	}
	col := toGoColor(rend.r.FillColor)
	rend.ras.Draw(rend.img, bounds, image.NewUniform(col), image.Point{})
	return nil
}

func apply(m matrix.Matrix, x, y float64) (float32, float32) {
	return float32(m[0]*x + m[2]*y + m[4]), float32(m[1]*x + m[3]*y + m[5])
}

func lookupGlyph(sf *sfnt.Font, code cid.CID, text string, embedded bool) glyph.ID {
	var r rune
	for _, c := range text {
		r = c
		break
	}
	if r != 0 {
		if table, err := sf.CMapTable.GetBest(); err == nil && table != nil {
			if gid := table.Lookup(r); gid != 0 {
				return gid
			}
		}
	}
	if embedded {
		// For embedded subsets without a usable cmap table, the code is
		// usually the glyph index.
		return glyph.ID(code)
	}
	return 0
}

// getFont returns the glyph outlines for f.  The second return value
// indicates whether the outlines come from the PDF file.
func (rend *renderer) getFont(f font.Instance) (*sfnt.Font, bool) {
	if sf, ok := rend.fonts[f]; ok {
		return sf, sf != nil && !isFallback(sf)
	}

	sf := loadEmbedded(f)
	embedded := sf != nil
	if sf == nil {
		sf = fallbackFont(strings.Contains(strings.ToLower(f.PostScriptName()), "bold"))
	}
	rend.fonts[f] = sf
	return sf, embedded
}

func loadEmbedded(f font.Instance) *sfnt.Font {
	var stream *glyphdata.Stream
	switch info := f.FontInfo().(type) {
	case *dict.FontInfoSimple:
		stream = info.FontFile
	case *dict.FontInfoGlyfEmbedded:
		stream = info.FontFile
	case *dict.FontInfoCID:
		stream = info.FontFile
	}
	if stream == nil {
		return nil
	}

	var buf bytes.Buffer
	if err := stream.WriteTo(&buf, nil); err != nil {
		return nil
	}
	sf, err := sfnt.Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil
	}
	return sf
}

var (
	fallbackOnce    sync.Once
	fallbackRegular *sfnt.Font
	fallbackBold    *sfnt.Font
)

func fallbackFont(bold bool) *sfnt.Font {
	fallbackOnce.Do(func() {
		fallbackRegular, _ = sfnt.Read(bytes.NewReader(goregular.TTF))
		fallbackBold, _ = sfnt.Read(bytes.NewReader(gobold.TTF))
	})
	if bold {
		return fallbackBold
	}
	return fallbackRegular
}

func isFallback(sf *sfnt.Font) bool {
	return sf == fallbackRegular || sf == fallbackBold
}
