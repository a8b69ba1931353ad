// Package docx abre y guarda documentos Word (.docx) y expone el cuerpo de
// word/document.xml como placeholder.Document usando etree.
//
// Estructura relevante de WordprocessingML:
//
//	w:body ─┬─ w:p ── w:r ── (w:rPr) w:t | w:tab | w:br
//	        └─ w:tbl ── w:tr ── w:tc ── w:p
package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/beevik/etree"

	"github.com/jhoicas/fiskal-servis/internal/domain/placeholder"
)

const (
	documentPart = "word/document.xml"
	wordNS       = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
)

var _ placeholder.Document = (*Document)(nil)

// Document paquete .docx en memoria. Solo word/document.xml se parsea; el resto
// de las partes se copian tal cual al guardar.
type Document struct {
	parts []part
	tree  *etree.Document
	body  *etree.Element
}

type part struct {
	name     string
	method   uint16
	data     []byte
	document bool
}

// Open lee y parsea un archivo .docx.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("docx: leer %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parsea un .docx desde memoria.
func Parse(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("docx: abrir zip: %w", err)
	}
	doc := &Document{}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("docx: abrir %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("docx: leer %s: %w", f.Name, err)
		}
		p := part{name: f.Name, method: f.Method, data: content}
		if f.Name == documentPart {
			p.document = true
			tree := etree.NewDocument()
			if err := tree.ReadFromBytes(content); err != nil {
				return nil, fmt.Errorf("docx: parsear %s: %w", documentPart, err)
			}
			doc.tree = tree
		}
		doc.parts = append(doc.parts, p)
	}
	if doc.tree == nil {
		return nil, fmt.Errorf("docx: falta %s", documentPart)
	}
	root := doc.tree.Root()
	if root == nil {
		return nil, fmt.Errorf("docx: %s vacío", documentPart)
	}
	doc.body = firstChild(root, "body")
	if doc.body == nil {
		return nil, fmt.Errorf("docx: %s sin w:body", documentPart)
	}
	return doc, nil
}

// Bytes serializa el paquete con el document.xml modificado.
func (d *Document) Bytes() ([]byte, error) {
	xmlBytes, err := d.tree.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("docx: serializar %s: %w", documentPart, err)
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range d.parts {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: p.name, Method: p.method})
		if err != nil {
			return nil, fmt.Errorf("docx: crear entrada %s: %w", p.name, err)
		}
		content := p.data
		if p.document {
			content = xmlBytes
		}
		if _, err := w.Write(content); err != nil {
			return nil, fmt.Errorf("docx: escribir %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("docx: cerrar zip: %w", err)
	}
	return buf.Bytes(), nil
}

// Save escribe el documento en path.
func (d *Document) Save(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("docx: guardar %s: %w", path, err)
	}
	return nil
}

// Paragraphs párrafos de primer nivel del cuerpo.
func (d *Document) Paragraphs() []placeholder.Paragraph {
	return paragraphsOf(d.body)
}

// Tables tablas de primer nivel del cuerpo.
func (d *Document) Tables() []placeholder.Table {
	var out []placeholder.Table
	for _, el := range children(d.body, "tbl") {
		out = append(out, &table{el: el})
	}
	return out
}

// Text texto visible del cuerpo, un párrafo por línea (párrafos de primer nivel y luego tablas).
func (d *Document) Text() string {
	var buf bytes.Buffer
	for _, p := range d.Paragraphs() {
		buf.WriteString(p.Text())
		buf.WriteByte('\n')
	}
	for _, t := range d.Tables() {
		for _, r := range t.Rows() {
			for _, c := range r.Cells() {
				for _, p := range c.Paragraphs() {
					buf.WriteString(p.Text())
					buf.WriteByte('\n')
				}
			}
		}
	}
	return buf.String()
}

// ── helpers de árbol ──────────────────────────────────────────────────────────

func isWord(el *etree.Element, tag string) bool {
	if el.Tag != tag {
		return false
	}
	return el.Space == "w" || el.NamespaceURI() == wordNS
}

func children(el *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, c := range el.ChildElements() {
		if isWord(c, tag) {
			out = append(out, c)
		}
	}
	return out
}

func firstChild(el *etree.Element, tag string) *etree.Element {
	for _, c := range el.ChildElements() {
		if isWord(c, tag) {
			return c
		}
	}
	return nil
}

func paragraphsOf(el *etree.Element) []placeholder.Paragraph {
	var out []placeholder.Paragraph
	for _, p := range children(el, "p") {
		out = append(out, &paragraph{el: p})
	}
	return out
}
