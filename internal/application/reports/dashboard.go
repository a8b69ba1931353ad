package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fiskal-servis/internal/application/dto"
	"github.com/jhoicas/fiskal-servis/internal/domain/repository"
)

const (
	dashboardTopModels = 5  // modelos en el widget del panel
	expiringWindowDays = 30 // "изтичащи" = vencen dentro de 30 días
)

// DashboardUseCase resumen del registro para el panel principal.
//
// Fuente de datos: StatsRepository (consultas read-only).
type DashboardUseCase struct {
	stats repository.StatsRepository
	now   func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(stats repository.StatsRepository) *DashboardUseCase {
	return &DashboardUseCase{stats: stats, now: time.Now}
}

// WithClock fija el reloj (tests).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetSummary construye el DashboardSummaryDTO.
//
// Cuatro consultas en paralelo:
//  1. ContractCounts(hoy, hoy+30) → activos, vencidos, por vencer
//  2. MonthlyRevenue              → suma de maintenance_price de contratos activos
//  3. TopModels(5)                → top de modelos
//  4. TotalDevices
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	soon := today.AddDate(0, 0, expiringWindowDays)

	type countsResult struct {
		counts repository.ContractCounts
		err    error
	}
	type revenueResult struct {
		total decimal.Decimal
		err   error
	}
	type modelsResult struct {
		models []repository.ModelCount
		err    error
	}
	type totalResult struct {
		n   int
		err error
	}

	countsCh := make(chan countsResult, 1)
	revenueCh := make(chan revenueResult, 1)
	modelsCh := make(chan modelsResult, 1)
	totalCh := make(chan totalResult, 1)

	go func() {
		c, err := uc.stats.ContractCounts(ctx, today, soon)
		countsCh <- countsResult{c, err}
	}()
	go func() {
		r, err := uc.stats.MonthlyRevenue(ctx)
		revenueCh <- revenueResult{r, err}
	}()
	go func() {
		m, err := uc.stats.TopModels(ctx, dashboardTopModels)
		modelsCh <- modelsResult{m, err}
	}()
	go func() {
		n, err := uc.stats.TotalDevices(ctx)
		totalCh <- totalResult{n, err}
	}()

	counts := <-countsCh
	revenue := <-revenueCh
	models := <-modelsCh
	total := <-totalCh

	if counts.err != nil {
		return nil, fmt.Errorf("dashboard: contratos: %w", counts.err)
	}
	if revenue.err != nil {
		return nil, fmt.Errorf("dashboard: ingresos: %w", revenue.err)
	}
	if models.err != nil {
		return nil, fmt.Errorf("dashboard: modelos: %w", models.err)
	}
	if total.err != nil {
		return nil, fmt.Errorf("dashboard: dispositivos: %w", total.err)
	}

	top := make([]dto.ModelCountDTO, 0, len(models.models))
	for _, m := range models.models {
		top = append(top, dto.ModelCountDTO{Model: m.Model, Count: m.Count})
	}
	return &dto.DashboardSummaryDTO{
		ActiveContracts:  counts.counts.Active,
		ExpiredContracts: counts.counts.Expired,
		ExpiringSoon:     counts.counts.ExpiringSoon,
		MonthlyRevenue:   revenue.total.Round(2),
		TotalDevices:     total.n,
		TopModels:        top,
	}, nil
}
