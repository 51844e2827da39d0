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


package editor

import (
	"fmt"

	"seehuhn.de/go/pdfedit/annot"
)

// Tool is the active tool of an editing session.
type Tool int

// These are the available tools.
const (
	Select Tool = iota
	Rect
	Highlight
	Arrow
	Text
	Image
)

var toolNames = map[Tool]string{
	Select:    "select",
	Rect:      "rect",
	Highlight: "highlight",
	Arrow:     "arrow",
	Text:      "text",
	Image:     "image",
}

func (t Tool) String() string {
	if name, ok := toolNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Tool(%d)", int(t))
}

// ParseTool converts a tool name, as returned by [Tool.String], back into
// a Tool.
func ParseTool(name string) (Tool, error) {
	for t, n := range toolNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown tool %q", name)
}

// drawsShape reports whether the tool creates shapes by dragging.
func (t Tool) drawsShape() bool {
	return t == Rect || t == Highlight || t == Arrow
}

func (t Tool) kind() annot.Kind {
	switch t {
	case Rect:
		return annot.Rect
	case Highlight:
		return annot.Highlight
	case Arrow:
		return annot.Arrow
	case Text:
		return annot.Text
	case Image:
		return annot.Image
	default:
		return ""
	}
}

// Toolbar holds the drawing properties used for new annotations.
type Toolbar struct {
	Color    annot.Color `json:"color"`
	FontSize float64     `json:"fontSize"`
	Bold     bool        `json:"bold"`
}

func (tb *Toolbar) weight() annot.Weight {
	if tb.Bold {
		return annot.Bold
	}
	return annot.Normal
}
