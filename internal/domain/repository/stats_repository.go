package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ModelCount cantidad de dispositivos por modelo.
type ModelCount struct {
	Model string
	Count int
}

// ContractCounts conteos de contratos a una fecha.
type ContractCounts struct {
	Active       int
	Expired      int
	ExpiringSoon int
}

// StatsRepository consultas de solo lectura para el panel de resumen.
type StatsRepository interface {
	// ContractCounts: activos; vencidos (estado o fecha anterior a today);
	// activos que vencen entre today y soon inclusive.
	ContractCounts(ctx context.Context, today, soon time.Time) (ContractCounts, error)
	// MonthlyRevenue suma maintenance_price de dispositivos con contrato activo.
	MonthlyRevenue(ctx context.Context) (decimal.Decimal, error)
	TopModels(ctx context.Context, limit int) ([]ModelCount, error)
	TotalDevices(ctx context.Context) (int, error)
}
