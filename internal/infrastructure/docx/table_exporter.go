package docx

import (
	"archive/zip"
	"context"
	"strconv"

	"github.com/beevik/etree"

	"github.com/jhoicas/fiskal-servis/internal/application/dto"
)

const (
	contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
		`</Types>`
	packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
		`</Relationships>`
)

// Tamaños en medios puntos (w:sz).
const (
	titleSize  = 32
	headerSize = 22
)

var tableBorders = []string{"top", "left", "bottom", "right", "insideH", "insideV"}

// TableExporter genera un .docx nuevo con la tabla de una справка: título
// centrado en negrita, notas, y tabla con bordes y encabezado en negrita.
type TableExporter struct{}

// NewTableExporter construye el exportador.
func NewTableExporter() *TableExporter { return &TableExporter{} }

// Export devuelve los bytes del .docx.
func (e *TableExporter) Export(_ context.Context, table *dto.ReportTable) ([]byte, error) {
	doc := newDocument()
	if table.Title != "" {
		appendParagraph(doc.body, table.Title, true, titleSize, "center")
	}
	for _, note := range table.Notes {
		appendParagraph(doc.body, note, false, 0, "center")
	}
	appendParagraph(doc.body, "", false, 0, "")
	appendTable(doc.body, table.Headers, table.Rows)
	appendSection(doc.body)
	return doc.Bytes()
}

// newDocument paquete mínimo: tipos de contenido, relación principal y document.xml.
func newDocument() *Document {
	tree := etree.NewDocument()
	tree.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	root := tree.CreateElement("w:document")
	root.CreateAttr("xmlns:w", wordNS)
	body := root.CreateElement("w:body")
	return &Document{
		parts: []part{
			{name: "[Content_Types].xml", method: zip.Deflate, data: []byte(contentTypesXML)},
			{name: "_rels/.rels", method: zip.Deflate, data: []byte(packageRelsXML)},
			{name: documentPart, method: zip.Deflate, document: true},
		},
		tree: tree,
		body: body,
	}
}

func appendParagraph(parent *etree.Element, text string, bold bool, size int, jc string) {
	p := parent.CreateElement("w:p")
	if jc != "" {
		p.CreateElement("w:pPr").CreateElement("w:jc").CreateAttr("w:val", jc)
	}
	if text == "" {
		return
	}
	r := p.CreateElement("w:r")
	if bold || size > 0 {
		rPr := r.CreateElement("w:rPr")
		if bold {
			rPr.CreateElement("w:b")
		}
		if size > 0 {
			rPr.CreateElement("w:sz").CreateAttr("w:val", strconv.Itoa(size))
		}
	}
	(&run{el: r}).SetText(text)
}

// appendTable una columna por encabezado; las filas cortas se completan con
// celdas vacías y las largas se recortan.
func appendTable(body *etree.Element, headers []string, rows [][]string) {
	tbl := body.CreateElement("w:tbl")
	tblPr := tbl.CreateElement("w:tblPr")
	width := tblPr.CreateElement("w:tblW")
	width.CreateAttr("w:w", "0")
	width.CreateAttr("w:type", "auto")
	borders := tblPr.CreateElement("w:tblBorders")
	for _, side := range tableBorders {
		b := borders.CreateElement("w:" + side)
		b.CreateAttr("w:val", "single")
		b.CreateAttr("w:sz", "4")
		b.CreateAttr("w:space", "0")
		b.CreateAttr("w:color", "auto")
	}
	grid := tbl.CreateElement("w:tblGrid")
	for range headers {
		grid.CreateElement("w:gridCol")
	}

	appendRow(tbl, headers, true)
	for _, values := range rows {
		cells := make([]string, len(headers))
		copy(cells, values)
		appendRow(tbl, cells, false)
	}
}

func appendRow(tbl *etree.Element, values []string, header bool) {
	tr := tbl.CreateElement("w:tr")
	if header {
		tr.CreateElement("w:trPr").CreateElement("w:tblHeader")
	}
	for _, v := range values {
		tc := tr.CreateElement("w:tc")
		if header {
			shd := tc.CreateElement("w:tcPr").CreateElement("w:shd")
			shd.CreateAttr("w:val", "clear")
			shd.CreateAttr("w:color", "auto")
			shd.CreateAttr("w:fill", "D9E2F3")
			appendParagraph(tc, v, true, headerSize, "")
			continue
		}
		appendParagraph(tc, v, false, 0, "")
	}
}

// appendSection página A4 vertical con márgenes de 1.5 cm.
func appendSection(body *etree.Element) {
	sect := body.CreateElement("w:sectPr")
	pg := sect.CreateElement("w:pgSz")
	pg.CreateAttr("w:w", "11906")
	pg.CreateAttr("w:h", "16838")
	mar := sect.CreateElement("w:pgMar")
	for _, side := range []string{"top", "right", "bottom", "left"} {
		mar.CreateAttr("w:"+side, "850")
	}
}
