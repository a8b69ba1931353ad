package docx

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/jhoicas/fiskal-servis/internal/domain/placeholder"
)

// paragraph w:p. Sus runs son los w:r directos y los que están dentro de w:hyperlink.
type paragraph struct{ el *etree.Element }

func (p *paragraph) Runs() []placeholder.Run {
	var out []placeholder.Run
	for _, c := range p.el.ChildElements() {
		switch {
		case isWord(c, "r"):
			out = append(out, &run{el: c})
		case isWord(c, "hyperlink"):
			for _, r := range children(c, "r") {
				out = append(out, &run{el: r})
			}
		}
	}
	return out
}

func (p *paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs() {
		b.WriteString(r.Text())
	}
	return b.String()
}

// run w:r. El texto se compone de w:t, w:tab ("\t") y w:br / w:cr ("\n").
type run struct{ el *etree.Element }

func (r *run) Text() string {
	var b strings.Builder
	for _, c := range r.el.ChildElements() {
		switch {
		case isWord(c, "t"):
			b.WriteString(c.Text())
		case isWord(c, "tab"):
			b.WriteByte('\t')
		case isWord(c, "br"), isWord(c, "cr"):
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// SetText reemplaza el contenido del run conservando sus propiedades (w:rPr).
func (r *run) SetText(text string) {
	for _, c := range r.el.ChildElements() {
		if !isWord(c, "rPr") {
			r.el.RemoveChild(c)
		}
	}
	var chunk strings.Builder
	flush := func() {
		if chunk.Len() == 0 {
			return
		}
		t := r.el.CreateElement("w:t")
		t.CreateAttr("xml:space", "preserve")
		t.SetText(chunk.String())
		chunk.Reset()
	}
	for _, ch := range text {
		switch ch {
		case '\t':
			flush()
			r.el.CreateElement("w:tab")
		case '\n':
			flush()
			r.el.CreateElement("w:br")
		case '\r':
		default:
			chunk.WriteRune(ch)
		}
	}
	flush()
}

type table struct{ el *etree.Element }

func (t *table) Rows() []placeholder.Row {
	var out []placeholder.Row
	for _, tr := range children(t.el, "tr") {
		out = append(out, &row{el: tr})
	}
	return out
}

type row struct{ el *etree.Element }

func (r *row) Cells() []placeholder.Container {
	var out []placeholder.Container
	for _, tc := range children(r.el, "tc") {
		out = append(out, &cell{el: tc})
	}
	return out
}

// cell w:tc; contenedor de párrafos igual que el cuerpo.
type cell struct{ el *etree.Element }

func (c *cell) Paragraphs() []placeholder.Paragraph {
	return paragraphsOf(c.el)
}
