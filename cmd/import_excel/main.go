// import_excel carga libros Excel heredados (contratos y dispositivos) en PostgreSQL.
//
// Uso: go run ./cmd/import_excel [-certs] archivo1.xlsx [archivo2.xlsx ...]
// Con -certs los libros se leen como lista de certificados BIM y reemplazan la tabla.
// Cada libro se importa en su propia transacción; un libro con errores no detiene el resto.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/jhoicas/fiskal-servis/internal/application/registry"
	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
	"github.com/jhoicas/fiskal-servis/internal/infrastructure/excel"
	"github.com/jhoicas/fiskal-servis/internal/infrastructure/postgres"
	"github.com/jhoicas/fiskal-servis/pkg/config"
	"github.com/jhoicas/fiskal-servis/pkg/logger"
)

type result struct {
	file    string
	clients int
	devices int
	certs   int
	err     error
}

func main() {
	args := os.Args[1:]
	certs := false
	if len(args) > 0 && args[0] == "-certs" {
		certs = true
		args = args[1:]
	}
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Uso: import_excel [-certs] archivo.xlsx [...]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	// Solo warnings: la barra de progreso ocupa la consola.
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "warn"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	uc := registry.NewRegistryUseCase(registry.Repositories{
		Clients:      postgres.NewClientRepository(pool),
		Devices:      postgres.NewDeviceRepository(pool),
		Certificates: postgres.NewCertificateRepository(pool),
		Audit:        postgres.NewAuditRepository(pool),
		Repairs:      postgres.NewRepairRepository(pool),
	}, postgres.NewTxRunner(pool), excel.Reader{}, log)
	actor := entity.Actor{Username: "import_excel"}

	bar := progressbar.NewOptions(len(args),
		progressbar.OptionSetDescription("Importando libros"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	// Secuencial: cada import reemplaza dispositivos y la tabla de certificados.
	results := make([]result, 0, len(args))
	for _, path := range args {
		res := importFile(ctx, uc, actor, path, certs)
		results = append(results, res)
		_ = bar.Add(1)
	}
	fmt.Println()

	failed := 0
	for _, r := range results {
		name := filepath.Base(r.file)
		switch {
		case r.err != nil:
			failed++
			fmt.Printf("ERROR %s: %v\n", name, r.err)
		case certs:
			fmt.Printf("OK    %s: %d certificados\n", name, r.certs)
		default:
			fmt.Printf("OK    %s: %d contratos, %d dispositivos\n", name, r.clients, r.devices)
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func importFile(ctx context.Context, uc *registry.RegistryUseCase, actor entity.Actor, path string, certs bool) result {
	res := result{file: path}
	f, err := os.Open(path)
	if err != nil {
		res.err = err
		return res
	}
	defer f.Close()

	if certs {
		res.certs, res.err = uc.ImportCertificates(ctx, actor, f)
		return res
	}
	out, err := uc.ImportWorkbook(ctx, actor, f)
	if err != nil {
		res.err = err
		return res
	}
	res.clients, res.devices = out.Clients, out.Devices
	return res
}
