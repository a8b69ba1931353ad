// Package nra caso de uso del reporte mensual fiskal.ser para la NAP.
package nra

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/jhoicas/fiskal-servis/internal/application/dto"
	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
	"github.com/jhoicas/fiskal-servis/internal/domain/fiscal"
	"github.com/jhoicas/fiskal-servis/internal/domain/repository"
	nraenc "github.com/jhoicas/fiskal-servis/internal/infrastructure/nra"
	"github.com/jhoicas/fiskal-servis/pkg/logger"
)

// Config empresa emisora, nomenclatura FU.csv y directorio de salida.
type Config struct {
	Service              entity.ServiceCompany
	OutputDir            string
	NomenclatureCSV      string
	NomenclatureEncoding string
}

// ReportUseCase genera fiskal.ser con los dispositivos habilitados.
type ReportUseCase struct {
	cfg     Config
	devices repository.DeviceRepository
	audit   repository.AuditRepository
	log     *logger.Logger
	now     func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(cfg Config, devices repository.DeviceRepository, audit repository.AuditRepository, log *logger.Logger) *ReportUseCase {
	return &ReportUseCase{cfg: cfg, devices: devices, audit: audit, log: log.Component("nra"), now: time.Now}
}

// WithClock fija el reloj (tests).
func (uc *ReportUseCase) WithClock(now func() time.Time) *ReportUseCase {
	uc.now = now
	return uc
}

// GenerateReport escribe OutputDir/fiskal.ser de forma atómica y lo registra en el historial.
// Sin FU.csv ningún dispositivo pasa el filtro de certificado, pero el archivo se genera igual.
func (uc *ReportUseCase) GenerateReport(ctx context.Context, actor entity.Actor) (*dto.NRAReportResponse, error) {
	devices, err := uc.devices.ListForNRAReport(ctx)
	if err != nil {
		return nil, err
	}
	nom, err := uc.loadNomenclature()
	if err != nil {
		return nil, err
	}

	period := nraenc.ResolvePeriod(devices, uc.now())
	res := nraenc.NewEncoder(uc.cfg.Service, nom).Encode(devices, period)

	if err := os.MkdirAll(uc.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("nra: %w", err)
	}
	path := filepath.Join(uc.cfg.OutputDir, nraenc.FileName)
	if err := nraenc.WriteFile(path, res.Payload); err != nil {
		return nil, err
	}

	for _, ex := range res.Excluded {
		uc.log.Info().Str("device", ex.DeviceID).Str("serial", ex.SerialNumber).Str("reason", ex.Reason).Msg("dispositivo excluido del reporte")
	}
	uc.log.Info().Int("exported", res.Exported).Int("excluded", len(res.Excluded)).Str("path", path).Msg("fiskal.ser generado")

	entry := actor.Audit(entity.ActionGenerateFiskalSer,
		fmt.Sprintf("Генериран fiskal.ser: %d ФУ, %d изключени", res.Exported, len(res.Excluded)))
	if err := uc.audit.Log(ctx, entry); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo registrar en el historial")
	}

	out := &dto.NRAReportResponse{
		Path:         path,
		Exported:     res.Exported,
		Excluded:     make([]dto.ExclusionDTO, 0, len(res.Excluded)),
		Nomenclature: nom.Len(),
	}
	if period.Valid {
		out.PeriodStart = period.Start.Format(fiscal.LayoutISO)
		out.PeriodEnd = period.End.Format(fiscal.LayoutISO)
	}
	for _, ex := range res.Excluded {
		out.Excluded = append(out.Excluded, dto.ExclusionDTO{DeviceID: ex.DeviceID, SerialNumber: ex.SerialNumber, Reason: ex.Reason})
	}
	return out, nil
}

// loadNomenclature un FU.csv ausente equivale a una nomenclatura vacía.
func (uc *ReportUseCase) loadNomenclature() (*nraenc.Nomenclature, error) {
	nom, err := nraenc.LoadNomenclatureFile(uc.cfg.NomenclatureCSV, uc.cfg.NomenclatureEncoding)
	if errors.Is(err, fs.ErrNotExist) {
		uc.log.Warn().Str("path", uc.cfg.NomenclatureCSV).Msg("nomenclatura FU.csv no encontrada; no se exportará ningún dispositivo")
		return nraenc.NewNomenclature(nil), nil
	}
	return nom, err
}
