package entity

// Certificate certificado BIM de aprobación de modelo con su fecha de vencimiento.
type Certificate struct {
	ID         string
	Number     string
	ExpiryDate string // ISO "YYYY-MM-DD" o vacío
}
