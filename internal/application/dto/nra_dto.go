package dto

// NRAReportResponse resultado de la generación de fiskal.ser.
type NRAReportResponse struct {
	Path         string         `json:"path"`
	PeriodStart  string         `json:"period_start"`
	PeriodEnd    string         `json:"period_end"`
	Exported     int            `json:"exported"`
	Excluded     []ExclusionDTO `json:"excluded"`
	Nomenclature int            `json:"nomenclature_entries"`
}

// ExclusionDTO dispositivo omitido del reporte y motivo.
type ExclusionDTO struct {
	DeviceID     string `json:"device_id"`
	SerialNumber string `json:"serial_number"`
	Reason       string `json:"reason"`
}
