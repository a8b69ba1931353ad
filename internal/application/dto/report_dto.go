package dto

// ExpiringHeaders columnas de la справка de contratos por vencer.
var ExpiringHeaders = []string{"№ Договор", "Фирма", "Модел", "Сериен №", "Изтичане", "ЕИК", "Телефон"}

// ReportTable tabla genérica que exportan excel, docx y pdf. Notes son líneas
// bajo el título (fecha, tipo de cambio).
type ReportTable struct {
	Title   string     `json:"title"`
	Notes   []string   `json:"notes,omitempty"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// ExpiringContractDTO fila de GET /api/reports/expiring.
type ExpiringContractDTO struct {
	ContractNumber string `json:"contract_number"`
	CompanyName    string `json:"company_name"`
	Model          string `json:"model"`
	SerialNumber   string `json:"serial_number"`
	ContractExpiry string `json:"contract_expiry"`
	EIK            string `json:"eik"`
	Phone          string `json:"phone"`
}

// Cells devuelve la fila en el orden de ExpiringHeaders.
func (e ExpiringContractDTO) Cells() []string {
	return []string{e.ContractNumber, e.CompanyName, e.Model, e.SerialNumber, e.ContractExpiry, e.EIK, e.Phone}
}
