// nra_report genera OUTPUT_DIR/fiskal.ser para la НАП con los dispositivos
// marcados para reporte, sin levantar el servidor HTTP.
//
// Uso: go run ./cmd/nra_report
// Lee la misma configuración que cmd/api (env, .env, config.env).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/fiskal-servis/internal/application/nra"
	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
	"github.com/jhoicas/fiskal-servis/internal/infrastructure/postgres"
	"github.com/jhoicas/fiskal-servis/pkg/config"
	"github.com/jhoicas/fiskal-servis/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	uc := nra.NewReportUseCase(nra.Config{
		Service:              entity.ServiceCompany(cfg.Service),
		OutputDir:            cfg.Paths.OutputDir,
		NomenclatureCSV:      cfg.Paths.NomenclatureCSV,
		NomenclatureEncoding: cfg.Paths.NomenclatureEncoding,
	}, postgres.NewDeviceRepository(pool), postgres.NewAuditRepository(pool), log)

	out, err := uc.GenerateReport(ctx, entity.Actor{Username: "nra_report"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar fiskal.ser: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Escrito %s (período %s - %s)\n", out.Path, out.PeriodStart, out.PeriodEnd)
	fmt.Printf("  ФУ exportados: %d\n", out.Exported)
	fmt.Printf("  Номенклатура:  %d modelos\n", out.Nomenclature)
	if len(out.Excluded) > 0 {
		fmt.Printf("  Excluidos:     %d\n", len(out.Excluded))
		for _, e := range out.Excluded {
			fmt.Printf("    %s  %s\n", e.SerialNumber, e.Reason)
		}
	}
}
