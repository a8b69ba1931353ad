package entity

import "time"

// Acciones registradas en el historial.
const (
	ActionGenerateContract  = "GEN_CONTRACT"
	ActionGenerateCert      = "GEN_CERT"
	ActionGenerateDereg     = "GEN_DEREG"
	ActionGenerateRepair    = "GEN_REPAIR"
	ActionGenerateNAPXML    = "GEN_NAP_XML"
	ActionGenerateFiskalSer = "GEN_FISKAL_SER"
	ActionImportData        = "IMPORT_DATA"
	ActionCreateClient      = "CREATE_CLIENT"
	ActionUpdateClient      = "UPDATE_CLIENT"
	ActionDeleteClient      = "DELETE_CLIENT"
	ActionCreateDevice      = "CREATE_DEVICE"
	ActionUpdateDevice      = "UPDATE_DEVICE"
	ActionDeleteDevice      = "DELETE_DEVICE"
	ActionAddProduct        = "ADD_PRODUCT"
	ActionUpdateProduct     = "UPDATE_PRODUCT"
	ActionDeleteProduct     = "DELETE_PRODUCT"
	ActionPriceList         = "GEN_PRICE_LIST"
)

// AuditLog entrada del historial de acciones sobre contratos y dispositivos.
type AuditLog struct {
	ID             int64
	UserID         string
	Username       string
	Action         string
	Details        string
	ContractNumber string
	DeviceID       string
	Timestamp      time.Time
}

// Audit entrada del historial a nombre del actor.
func (a Actor) Audit(action, details string) *AuditLog {
	return &AuditLog{UserID: a.UserID, Username: a.Username, Action: action, Details: details}
}
