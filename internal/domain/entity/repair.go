package entity

// RepairRecord registro de reparación; su ID es el número del protocolo impreso.
type RepairRecord struct {
	ID           int64
	DeviceID     string
	Problem      string
	RepairDate   string // ISO "YYYY-MM-DD"
	ProtocolPath string
}
