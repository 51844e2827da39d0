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


package server

import (
	"bytes"
	"image/png"
	"io"
	"net/http"

	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdfedit"
	"seehuhn.de/go/pdfedit/annot"
	"seehuhn.de/go/pdfedit/editor"
	"seehuhn.de/go/pdfedit/ingest"
)

// prompter answers the editor's questions from the current request.
// The browser asks the user for the text of a text annotation before it
// sends the pointer event.
type prompter struct {
	text      string
	hasText   bool
	pickImage bool
}

func (p *prompter) PromptText(vec.Vec2) (string, bool) {
	return p.text, p.hasText
}

func (p *prompter) PickImage() {
	p.pickImage = true
}

type editorInfo struct {
	Page        string             `json:"page"`
	Width       int                `json:"width"`
	Height      int                `json:"height"`
	Tool        string             `json:"tool"`
	Mode        string             `json:"mode"`
	Toolbar     editor.Toolbar     `json:"toolbar"`
	Selected    string             `json:"selected,omitempty"`
	Annotations []annot.Annotation `json:"annotations"`

	// PickImage asks the browser to open a file picker and to send the
	// chosen image to /api/editor/image.
	PickImage bool `json:"pickImage,omitempty"`
}

func (s *Server) editorInfo() *editorInfo {
	e := s.editor
	b := e.Bounds()
	info := &editorInfo{
		Page:        e.PageID(),
		Width:       b.Dx(),
		Height:      b.Dy(),
		Tool:        e.Tool().String(),
		Mode:        e.Mode(),
		Toolbar:     e.Toolbar(),
		Annotations: e.Annotations(),
	}
	if info.Annotations == nil {
		info.Annotations = []annot.Annotation{}
	}
	if a, ok := e.Selected(); ok {
		info.Selected = a.ID
	}
	return info
}

// session returns the open editor.
func (s *Server) session() (*editor.Editor, error) {
	if s.editor == nil || s.editor.Closed() {
		return nil, pdfedit.ErrNoSession
	}
	return s.editor, nil
}

// openEditor renders a page at high resolution and opens it for editing.
// An editor which is already open is closed without saving.
func (s *Server) openEditor(w http.ResponseWriter, r *http.Request) error {
	p, src, err := s.page(r.PathValue("id"))
	if err != nil {
		return err
	}
	base, err := ingest.RenderHighRes(p, src, s.opt.Scale)
	if err != nil {
		return err
	}

	var toolbar *editor.Toolbar
	if s.editor != nil {
		s.editor.Cancel()
		tb := s.editor.Toolbar()
		toolbar = &tb
	}
	s.editor = editor.Open(p, base, &editor.Options{
		Prompter: s.prompt,
		Toolbar:  toolbar,
	})
	return writeJSON(w, s.editorInfo())
}

func (s *Server) editorState(w http.ResponseWriter, r *http.Request) error {
	if _, err := s.session(); err != nil {
		return err
	}
	return writeJSON(w, s.editorInfo())
}

func (s *Server) editorView(w http.ResponseWriter, r *http.Request) error {
	e, err := s.session()
	if err != nil {
		return err
	}
	buf := &bytes.Buffer{}
	err = png.Encode(buf, e.Render())
	if err != nil {
		return err
	}
	return writeBlob(w, "image/png", buf.Bytes())
}

type pointerRequest struct {
	Kind string  `json:"kind"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`

	// Text is the user's input for the text tool.  A nil Text means that
	// the user cancelled the prompt.
	Text *string `json:"text,omitempty"`
}

func (s *Server) pointer(w http.ResponseWriter, r *http.Request) error {
	e, err := s.session()
	if err != nil {
		return err
	}
	var req pointerRequest
	if err := readJSON(r, &req); err != nil {
		return err
	}

	*s.prompt = prompter{}
	if req.Text != nil {
		s.prompt.text = *req.Text
		s.prompt.hasText = true
	}

	pos := vec.Vec2{X: req.X, Y: req.Y}
	switch req.Kind {
	case "down":
		err = e.PointerDown(pos)
	case "move":
		err = e.PointerMove(pos)
	case "up":
		err = e.PointerUp(pos)
	case "leave":
		err = e.PointerLeave()
	default:
		return badRequest{errUnknownPointerEvent}
	}
	if err != nil {
		return err
	}

	info := s.editorInfo()
	info.PickImage = s.prompt.pickImage
	return writeJSON(w, info)
}

func (s *Server) setTool(w http.ResponseWriter, r *http.Request) error {
	e, err := s.session()
	if err != nil {
		return err
	}
	var req struct {
		Tool string `json:"tool"`
	}
	if err := readJSON(r, &req); err != nil {
		return err
	}
	tool, err := editor.ParseTool(req.Tool)
	if err != nil {
		return badRequest{err}
	}
	if err := e.SetTool(tool); err != nil {
		return err
	}
	return writeJSON(w, s.editorInfo())
}

// setToolbar changes the toolbar fields which are present in the request.
// Font size and weight also change the selected text annotation, the
// color only changes the toolbar.
func (s *Server) setToolbar(w http.ResponseWriter, r *http.Request) error {
	e, err := s.session()
	if err != nil {
		return err
	}
	var req struct {
		FontSize *float64     `json:"fontSize"`
		Bold     *bool        `json:"bold"`
		Color    *annot.Color `json:"color"`
	}
	if err := readJSON(r, &req); err != nil {
		return err
	}

	if req.FontSize != nil {
		if err := e.SetFontSize(*req.FontSize); err != nil {
			return badRequest{err}
		}
	}
	if req.Bold != nil {
		if err := e.SetBold(*req.Bold); err != nil {
			return err
		}
	}
	if req.Color != nil {
		if err := e.SetColor(*req.Color); err != nil {
			return err
		}
	}
	return writeJSON(w, s.editorInfo())
}

func (s *Server) applyColor(w http.ResponseWriter, r *http.Request) error {
	e, err := s.session()
	if err != nil {
		return err
	}
	if err := e.ApplyColor(); err != nil {
		return badRequest{err}
	}
	return writeJSON(w, s.editorInfo())
}

func (s *Server) insertImage(w http.ResponseWriter, r *http.Request) error {
	e, err := s.session()
	if err != nil {
		return err
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opt.MaxUpload))
	if err != nil {
		return badRequest{err}
	}
	if err := e.InsertImage(data); err != nil {
		return badRequest{err}
	}
	return writeJSON(w, s.editorInfo())
}

func (s *Server) deleteAnnotation(w http.ResponseWriter, r *http.Request) error {
	e, err := s.session()
	if err != nil {
		return err
	}
	if err := e.DeleteSelected(); err != nil {
		return badRequest{err}
	}
	return writeJSON(w, s.editorInfo())
}

func (s *Server) deselect(w http.ResponseWriter, r *http.Request) error {
	e, err := s.session()
	if err != nil {
		return err
	}
	if err := e.Deselect(); err != nil {
		return err
	}
	return writeJSON(w, s.editorInfo())
}

// save stores the annotations in the page and closes the editor.
func (s *Server) save(w http.ResponseWriter, r *http.Request) error {
	e, err := s.session()
	if err != nil {
		return err
	}
	if err := e.Save(s.pages); err != nil {
		return err
	}
	return writeJSON(w, s.pageList())
}

func (s *Server) cancel(w http.ResponseWriter, r *http.Request) error {
	e, err := s.session()
	if err != nil {
		return err
	}
	e.Cancel()
	return writeJSON(w, s.pageList())
}
