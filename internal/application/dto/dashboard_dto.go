package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	ActiveContracts  int             `json:"active_contracts"`
	ExpiredContracts int             `json:"expired_contracts"`
	ExpiringSoon     int             `json:"expiring_soon"` // activos que vencen en los próximos 30 días
	MonthlyRevenue   decimal.Decimal `json:"monthly_revenue"`
	TotalDevices     int             `json:"total_devices"`
	TopModels        []ModelCountDTO `json:"top_models"`
}

// ModelCountDTO modelo y cantidad de dispositivos.
type ModelCountDTO struct {
	Model string `json:"model"`
	Count int    `json:"count"`
}
