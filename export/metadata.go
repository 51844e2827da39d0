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


package export

import (
	"bytes"
	"sync"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/text/language"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/xmp"
)

// Producer is stored in the metadata of exported documents.
const Producer = "seehuhn.de/go/pdfedit"

// pdfNamespace holds the XMP properties of the Adobe PDF schema.
type pdfNamespace struct {
	_        xmp.Namespace `xmp:"http://ns.adobe.com/pdf/1.3/"`
	_        xmp.Prefix    `xmp:"pdf"`
	Producer xmp.AgentName
}

// writeMetadata adds an XMP metadata stream to the document catalog.
func writeMetadata(w *pdf.Writer, title string, now time.Time) error {
	dc := &xmp.DublinCore{}
	dc.Title.Set(language.MustParse("x-default"), title)
	basic := &xmp.Basic{}
	basic.CreateDate = xmp.NewDate(now)
	basic.ModifyDate = xmp.NewDate(now)
	info := &pdfNamespace{}
	info.Producer = xmp.NewAgentName(Producer)

	packet := xmp.NewPacket()
	packet.Set(dc, basic, info)

	ref := w.Alloc()
	stm, err := w.OpenStream(ref, pdf.Dict{
		"Type":    pdf.Name("Metadata"),
		"Subtype": pdf.Name("XML"),
	})
	if err != nil {
		return err
	}
	err = packet.Write(stm, &xmp.PacketOptions{Pretty: true})
	if err != nil {
		return err
	}
	err = stm.Close()
	if err != nil {
		return err
	}

	w.GetMeta().Catalog.Metadata = ref
	return nil
}

var pdfcpuConfig = sync.OnceValue(func() *model.Configuration {
	// keep pdfcpu from creating configuration files on disk
	model.ConfigPath = "disable"
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
})

// validate checks an exported document with an independent PDF parser.
func validate(data []byte) error {
	return api.Validate(bytes.NewReader(data), pdfcpuConfig())
}
