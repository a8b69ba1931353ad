package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
	"github.com/jhoicas/fiskal-servis/internal/domain/fiscal"
	"github.com/jhoicas/fiskal-servis/internal/domain/repository"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo consultas de solo lectura para el panel de resumen.
type StatsRepo struct {
	q Querier
}

// NewStatsRepository construye el adaptador.
func NewStatsRepository(q Querier) *StatsRepo {
	return &StatsRepo{q: q}
}

// ContractCounts compara contract_expiry como texto ISO, que ordena igual que la fecha.
func (r *StatsRepo) ContractCounts(ctx context.Context, today, soon time.Time) (repository.ContractCounts, error) {
	const query = `
	SELECT
	    COUNT(*) FILTER (WHERE status = $1)                                                        AS active,
	    COUNT(*) FILTER (WHERE status = $2 OR (contract_expiry <> '' AND contract_expiry < $3))    AS expired,
	    COUNT(*) FILTER (WHERE status = $1 AND contract_expiry >= $3 AND contract_expiry <= $4)    AS expiring_soon
	FROM clients`

	var c repository.ContractCounts
	err := r.q.QueryRow(ctx, query,
		entity.StatusActive, entity.StatusExpired,
		today.Format(fiscal.LayoutISO), soon.Format(fiscal.LayoutISO),
	).Scan(&c.Active, &c.Expired, &c.ExpiringSoon)
	if err != nil {
		return c, fmt.Errorf("stats.ContractCounts: %w", err)
	}
	return c, nil
}

// MonthlyRevenue suma de maintenance_price con contrato activo.
func (r *StatsRepo) MonthlyRevenue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(d.maintenance_price), 0)
		FROM devices d JOIN clients c ON c.id = d.client_id
		WHERE c.status = $1`, entity.StatusActive).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("stats.MonthlyRevenue: %w", err)
	}
	return total, nil
}

// TopModels modelos más frecuentes.
func (r *StatsRepo) TopModels(ctx context.Context, limit int) ([]repository.ModelCount, error) {
	rows, err := r.q.Query(ctx, `
		SELECT model, COUNT(*) AS n FROM devices
		GROUP BY model ORDER BY n DESC, model LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("stats.TopModels: %w", err)
	}
	defer rows.Close()
	var list []repository.ModelCount
	for rows.Next() {
		var m repository.ModelCount
		if err := rows.Scan(&m.Model, &m.Count); err != nil {
			return nil, fmt.Errorf("stats.TopModels scan: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// TotalDevices cantidad total de dispositivos.
func (r *StatsRepo) TotalDevices(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM devices`).Scan(&n); err != nil {
		return 0, fmt.Errorf("stats.TotalDevices: %w", err)
	}
	return n, nil
}
