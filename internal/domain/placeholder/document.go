// Package placeholder reemplaza marcadores ({1}, [дата], ...) dentro de documentos
// compuestos por párrafos y tablas. Solo depende de las interfaces de este archivo,
// no de un formato concreto (ver infrastructure/docx para la implementación Word).
package placeholder

// Run fragmento de texto con formato propio dentro de un párrafo.
type Run interface {
	Text() string
	SetText(text string)
}

// Paragraph párrafo cuyo texto visible es la concatenación de sus runs.
type Paragraph interface {
	Text() string
	Runs() []Run
}

// Container contenedor de párrafos: el cuerpo del documento o una celda de tabla.
type Container interface {
	Paragraphs() []Paragraph
}

// Row fila de tabla; cada celda es un Container.
type Row interface {
	Cells() []Container
}

// Table tabla como lista ordenada de filas.
type Table interface {
	Rows() []Row
}

// Document párrafos de primer nivel más tablas de primer nivel, en orden de aparición.
type Document interface {
	Container
	Tables() []Table
}

// walk recorre primero los párrafos de primer nivel y luego tabla → fila → celda → párrafo.
// Se detiene cuando visit devuelve false.
func walk(doc Document, visit func(Paragraph) bool) {
	for _, p := range doc.Paragraphs() {
		if !visit(p) {
			return
		}
	}
	for _, t := range doc.Tables() {
		for _, row := range t.Rows() {
			for _, cell := range row.Cells() {
				for _, p := range cell.Paragraphs() {
					if !visit(p) {
						return
					}
				}
			}
		}
	}
}
