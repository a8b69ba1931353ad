// Package documents genera los documentos .docx de contratos y dispositivos
// (договор, свидетелство, протоколи) y la declaración XML para la NAP.
package documents

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/fiskal-servis/internal/application/dto"
	"github.com/jhoicas/fiskal-servis/internal/domain"
	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
	"github.com/jhoicas/fiskal-servis/internal/domain/fiscal"
	"github.com/jhoicas/fiskal-servis/internal/domain/placeholder"
	"github.com/jhoicas/fiskal-servis/internal/infrastructure/docx"
	"github.com/jhoicas/fiskal-servis/internal/infrastructure/nra"
	"github.com/jhoicas/fiskal-servis/pkg/bgformat"
	"github.com/jhoicas/fiskal-servis/pkg/logger"
)

// contractDeviceSlots dispositivos que caben en la tabla del договор.
const (
	contractDeviceSlots = 5
	fieldsPerDevice     = 7
	defaultCity         = "София"
)

// DocumentsUseCase orquesta plantilla, mapa de marcadores, salida e historial.
type DocumentsUseCase struct {
	cfg   Config
	repos Repositories
	pdf   PDFConverter
	log   *logger.Logger
	now   func() time.Time
}

// NewDocumentsUseCase pdf puede ser nil: entonces se rechaza la opción PDF.
func NewDocumentsUseCase(cfg Config, repos Repositories, pdf PDFConverter, log *logger.Logger) *DocumentsUseCase {
	return &DocumentsUseCase{cfg: cfg, repos: repos, pdf: pdf, log: log.Component("documents"), now: time.Now}
}

// WithClock fija el reloj (tests).
func (uc *DocumentsUseCase) WithClock(now func() time.Time) *DocumentsUseCase {
	uc.now = now
	return uc
}

// ── Договор за сервизно обслужване ───────────────────────────────────────────

// GenerateServiceContract contrato de servicio para todos los dispositivos del cliente.
func (uc *DocumentsUseCase) GenerateServiceContract(ctx context.Context, actor entity.Actor, contractNumber string, opts dto.DocumentOptions) (*dto.DocumentResponse, error) {
	client, err := uc.repos.Clients.GetByContractNumber(ctx, contractNumber)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	devices, err := uc.repos.Devices.ListByClient(ctx, client.ID)
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, domain.ErrNoDevices
	}
	if len(devices) > contractDeviceSlots {
		uc.log.Warn().Str("contract", client.ContractNumber).Int("devices", len(devices)).
			Msg("el contrato tiene más dispositivos que filas en la plantilla; el resto solo aparece en {51}")
	}

	doc, err := uc.open(uc.cfg.Templates.ServiceContract)
	if err != nil {
		return nil, err
	}
	m := serviceContractMap(client, devices, uc.now())
	name := strings.TrimSpace(client.ContractNumber + " " + bgformat.SafeFileName(client.CompanyName))
	out, err := uc.finish(ctx, doc, m, name+".docx", opts)
	if err != nil {
		return nil, err
	}
	uc.audit(ctx, actor, entity.ActionGenerateContract, "Генериран договор "+filepath.Base(out.Path), client.ContractNumber, "")
	return out, nil
}

func serviceContractMap(client *entity.Client, devices []*entity.Device, now time.Time) *placeholder.Map {
	eik := fiscal.TrimFloatSuffix(client.EIK)
	if client.IsVatRegistered() {
		eik = "BG" + eik
	}
	short, long := bgformat.DateShort(now), bgformat.DateLong(now)

	m := placeholder.NewMap()
	m.Set("{1}", client.ContractNumber)
	m.Set("{2}", short)
	m.Set("{3}", client.CompanyName)
	m.Set("{4}", client.Address)
	m.Set("{5}", eik)
	m.Set("{6}", bgformat.FormatPhone(client.Phone1))
	m.Set("{7}", client.MOL)
	m.Set("{8}", long)
	m.Set("{9}", client.ContractNumber)
	m.Set("{10}", short)
	m.Set("{46}", long)
	m.Set("{47}", client.ContractNumber)
	m.Set("{48}", short)
	m.Set("{49}", bgformat.DateWithWeekday(now))
	m.Set("{50}", contractKind(client.ContractStart, now))

	for slot := 0; slot < contractDeviceSlots; slot++ {
		fields := make([]string, fieldsPerDevice)
		if slot < len(devices) {
			d := devices[slot]
			fields = []string{
				d.ObjectName,
				d.ObjectAddress,
				bgformat.FormatPhone(d.ObjectPhone),
				client.MOL,
				d.Model,
				fiscal.TrimFloatSuffix(d.SerialNumber),
				fiscal.TrimFloatSuffix(d.FiscalMemory),
			}
		}
		base := 11 + slot*fieldsPerDevice
		for j, v := range fields {
			m.Set(marker(base+j), v)
		}
	}

	expiry := dottedOrRaw(client.ContractExpiry)
	list := make([]string, 0, len(devices))
	for i := range devices {
		list = append(list, fmt.Sprintf("ЕКА No %d до %s", i+1, expiry))
	}
	m.Set("{51}", strings.Join(list, ", "))
	return m
}

// contractKind "Г" (нов договор) si empieza hoy o no tiene fecha; "А" en otro caso.
func contractKind(start string, now time.Time) string {
	t, ok := fiscal.ParseISODate(start)
	if !ok || fiscal.SameDay(t, now) {
		return "Г"
	}
	return "А"
}

// ── Свидетелство за регистрация ──────────────────────────────────────────────

// GenerateRegistrationCertificate свидетелство за регистрация на ФУ.
func (uc *DocumentsUseCase) GenerateRegistrationCertificate(ctx context.Context, actor entity.Actor, deviceID string, in dto.RegCertRequest) (*dto.DocumentResponse, error) {
	dc, err := uc.mustDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	doc, err := uc.open(uc.cfg.Templates.RegCert)
	if err != nil {
		return nil, err
	}

	c, d := dc.Client, dc.Device
	certNumber := strings.TrimSpace(in.CertificateNumber)
	if certNumber == "" {
		certNumber = d.CertificateNumber
	}
	serial := fiscal.TrimFloatSuffix(d.SerialNumber)
	now := uc.now()

	m := placeholder.NewMap()
	m.Set("{1}", now.Format("02/01/2006")+"г.")
	m.Set("{2}", fiscal.TrimFloatSuffix(c.EIK))
	m.Set("{3}", c.CompanyName)
	m.Set("{4}", c.Address)
	m.Set("{5}", c.MOL)
	m.Set("{6}", d.ObjectName+", "+d.ObjectAddress)
	m.Set("{7}", d.Model)
	m.Set("{8}", certNumber)
	m.Set("{9}", serial)
	m.Set("{10}", fiscal.TrimFloatSuffix(d.FiscalMemory))
	m.Set("{11}", c.ContractNumber)
	m.Set("{12}", now.Format("02/01/2006")+" г.")
	m.Set("{13}", fiscal.TrimFloatSuffix(d.FDRID))
	m.Set("{14}", dottedOrRaw(c.ContractStart))

	out, err := uc.finish(ctx, doc, m, "RegCert_"+serial+".docx", in.DocumentOptions)
	if err != nil {
		return nil, err
	}
	uc.audit(ctx, actor, entity.ActionGenerateCert, "Генерирано свидетелство за "+c.CompanyName, c.ContractNumber, d.ID)
	return out, nil
}

// ── Протокол за дерегистрация ────────────────────────────────────────────────

// GenerateDeregistrationProtocol протокол за прекратяване на регистрацията.
func (uc *DocumentsUseCase) GenerateDeregistrationProtocol(ctx context.Context, actor entity.Actor, deviceID string, in dto.DeregRequest) (*dto.DocumentResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	dc, err := uc.mustDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	doc, err := uc.open(uc.cfg.Templates.Dereg)
	if err != nil {
		return nil, err
	}

	c, d := dc.Client, dc.Device
	now := uc.now()
	serial := strings.TrimSpace(d.SerialNumber)
	manu, _ := fiscal.ManufacturerFor(in.Manufacturer, serial)
	certDate, err := uc.certificateDate(ctx, d, now)
	if err != nil {
		return nil, err
	}
	currency := in.CurrencyOrDefault()

	m := placeholder.NewMap()
	m.Set("{1}", bgformat.DateDotted(now))
	m.Set("{2}", now.Format("15:04"))
	m.Set("{3}", c.EIK)
	m.Set("{4}", c.CompanyName+", "+c.Address)
	m.Set("{5}", c.MOL+", "+c.Address)
	m.Set("{6}", d.ObjectName+", "+d.ObjectAddress)
	m.Set("{7}", d.Model)
	m.Set("{8}", d.CertificateNumber+" / "+certDate)
	m.Set("{9}", manu.Name)
	m.Set("{10}", manu.EIK)
	m.Set("{11}", serial)
	m.Set("{12}", fiscal.TrimFloatSuffix(d.FiscalMemory))
	m.Set("{13}", fiscal.TrimFloatSuffix(d.FDRID))
	m.Set("{14}", in.Reason)
	m.Set("{15}", in.DateStart)
	m.Set("{16}", in.DateStop)
	m.Set("{17}", bgformat.FormatAmount(in.Turnover, currency))
	m.Set("{18}", bgformat.AmountInWords(in.Turnover, currency))
	m.Set("{19}", bgformat.FormatAmount(in.Turnover, currency))
	m.Set("{20}", bgformat.FormatAmount(in.StornoTotal, currency))
	m.Set("{21}", bgformat.FormatAmount(in.VatA, currency))
	m.Set("{22}", bgformat.FormatAmount(in.VatB, currency))
	m.Set("{23}", bgformat.FormatAmount(in.VatV, currency))
	m.Set("{24}", bgformat.FormatAmount(in.VatG, currency))
	m.Set("{25}", bgformat.FormatAmount(in.StornoA, currency))
	m.Set("{26}", bgformat.FormatAmount(in.StornoB, currency))
	m.Set("{27}", bgformat.FormatAmount(in.StornoV, currency))
	m.Set("{28}", bgformat.FormatAmount(in.StornoG, currency))
	m.Set("{29}", manu.Name+", гр. "+manu.City)
	m.Set("{30}", c.CompanyName+", гр. "+cityOrDefault(c.City))

	out, err := uc.finish(ctx, doc, m, "DeregProtocol_"+serial+".docx", in.DocumentOptions)
	if err != nil {
		return nil, err
	}
	uc.audit(ctx, actor, entity.ActionGenerateDereg, "Генериран протокол за дерегистрация "+serial, c.ContractNumber, d.ID)
	return out, nil
}

// certificateDate vencimiento del свидетелство: el del dispositivo, si no el de
// la tabla de certificados, si no la fecha de hoy.
func (uc *DocumentsUseCase) certificateDate(ctx context.Context, d entity.Device, now time.Time) (string, error) {
	raw := strings.TrimSpace(d.CertificateExpiry)
	if raw == "" && strings.TrimSpace(d.CertificateNumber) != "" {
		cert, err := uc.repos.Certificates.GetByNumber(ctx, strings.TrimSpace(d.CertificateNumber))
		if err != nil {
			return "", err
		}
		if cert != nil {
			raw = cert.ExpiryDate
		}
	}
	if raw == "" {
		return bgformat.DateDotted(now), nil
	}
	if t, ok := fiscal.ParseCertificateDate(raw); ok {
		return bgformat.DateDotted(t), nil
	}
	return raw, nil
}

// ── Протокол за ремонт ───────────────────────────────────────────────────────

// GenerateRepairProtocol registra la reparación y genera su protocolo; el
// número de protocolo es el ID del registro.
func (uc *DocumentsUseCase) GenerateRepairProtocol(ctx context.Context, actor entity.Actor, deviceID string, in dto.RepairRequest) (*dto.DocumentResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	dc, err := uc.mustDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	doc, err := uc.open(uc.cfg.Templates.Repair)
	if err != nil {
		return nil, err
	}

	c, d := dc.Client, dc.Device
	repairDate := strings.TrimSpace(in.RepairDate)
	if repairDate == "" {
		repairDate = uc.now().Format(fiscal.LayoutISO)
	}
	id, err := uc.repos.Repairs.Create(ctx, &entity.RepairRecord{DeviceID: d.ID, Problem: in.Problem, RepairDate: repairDate})
	if err != nil {
		return nil, err
	}
	protocol := strconv.FormatInt(id, 10)
	dateFmt := repairDate
	if t, ok := fiscal.ParseISODate(repairDate); ok {
		dateFmt = t.Format("02-01-06")
	}
	serial := fiscal.TrimFloatSuffix(d.SerialNumber)

	m := placeholder.NewMap()
	m.Set("[номер на протокол от базата данни]/[дата[дд-мм-гг]]", protocol+"/"+dateFmt)
	m.Set("[Име на фирма]", c.CompanyName)
	m.Set("[адрес на фирма]", c.Address)
	m.Set("[управител]", c.MOL)
	m.Set("[адрес на устройството]", d.ObjectAddress)
	m.Set("[телефонен номер]", c.Phone1)
	m.Set("[какво е оставено и име и модел]", d.Model)
	m.Set("[сериен номер]", serial)
	m.Set("[описание на порблема]", in.Problem)

	name := fmt.Sprintf("RepairProtocol_%s_%s_%s.docx", protocol, serial, bgformat.SafeFileName(c.CompanyName))
	out, err := uc.finish(ctx, doc, m, name, in.DocumentOptions)
	if err == nil {
		err = uc.repos.Repairs.UpdateProtocolPath(ctx, id, out.Path)
	}
	if err != nil {
		// sin protocolo no queda registro de reparación
		if derr := uc.repos.Repairs.Delete(ctx, id); derr != nil {
			uc.log.Warn().Err(derr).Int64("repair_id", id).Msg("eliminar reparación sin protocolo")
		}
		return nil, err
	}
	uc.audit(ctx, actor, entity.ActionGenerateRepair, "Генериран протокол за ремонт № "+protocol, c.ContractNumber, d.ID)
	return out, nil
}

// ── Декларация за НАП ────────────────────────────────────────────────────────

// GenerateNAPXML декларация dec44a2 para el dispositivo, firmada por el técnico del servicio.
func (uc *DocumentsUseCase) GenerateNAPXML(ctx context.Context, actor entity.Actor, deviceID string) (*dto.DocumentResponse, error) {
	if strings.TrimSpace(uc.cfg.Service.TechEGN) == "" {
		return nil, fmt.Errorf("%w: липсва ЕГН на техника (SERVICE_TECH_EGN)", domain.ErrInvalidInput)
	}
	dc, err := uc.mustDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	fdrid := fiscal.TrimFloatSuffix(dc.Device.FDRID)
	if fdrid == "" {
		return nil, fmt.Errorf("%w: устройството няма ФДРИД", domain.ErrInvalidInput)
	}
	payload, err := nra.BuildDeclaration(uc.cfg.Service, fiscal.TrimFloatSuffix(dc.Client.EIK), fdrid)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(uc.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("documents: %w", err)
	}
	path := filepath.Join(uc.cfg.OutputDir, nra.DeclarationFileName(uc.now()))
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return nil, fmt.Errorf("documents: %w", err)
	}
	uc.audit(ctx, actor, entity.ActionGenerateNAPXML, "Генериран XML за НАП "+filepath.Base(path), dc.Client.ContractNumber, dc.Device.ID)
	return &dto.DocumentResponse{Path: path}, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// open carga la plantilla; ErrMissingTemplate si no existe.
func (uc *DocumentsUseCase) open(name string) (*docx.Document, error) {
	path := filepath.Join(uc.cfg.TemplatesDir, name)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrMissingTemplate, path)
		}
		return nil, fmt.Errorf("documents: %w", err)
	}
	return docx.Open(path)
}

// finish aplica el mapa, guarda en OutputDir y, si se pidió, convierte a PDF.
func (uc *DocumentsUseCase) finish(ctx context.Context, doc *docx.Document, m *placeholder.Map, fileName string, opts dto.DocumentOptions) (*dto.DocumentResponse, error) {
	found := placeholder.ApplyAll(doc, m)
	if err := os.MkdirAll(uc.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("documents: %w", err)
	}
	path := filepath.Join(uc.cfg.OutputDir, fileName)
	if err := doc.Save(path); err != nil {
		return nil, err
	}
	out := &dto.DocumentResponse{Path: path, Unused: unused(m, found)}
	if len(out.Unused) > 0 {
		uc.log.Debug().Str("file", fileName).Strs("unused", out.Unused).Msg("marcadores ausentes en la plantilla")
	}

	if opts.PDF {
		if uc.pdf == nil {
			return nil, fmt.Errorf("%w: conversor no configurado", domain.ErrConversionFailed)
		}
		pdfPath, err := uc.pdf.ConvertToPDF(ctx, path)
		if err != nil {
			return nil, err
		}
		out.PDFPath = pdfPath
	}
	return out, nil
}

func unused(m *placeholder.Map, found []string) []string {
	seen := make(map[string]bool, len(found))
	for _, k := range found {
		seen[k] = true
	}
	var out []string
	for _, k := range m.Keys() {
		if !seen[k] {
			out = append(out, k)
		}
	}
	return out
}

func (uc *DocumentsUseCase) mustDevice(ctx context.Context, id string) (*entity.DeviceWithClient, error) {
	dc, err := uc.repos.Devices.GetWithClient(ctx, id)
	if err != nil {
		return nil, err
	}
	if dc == nil {
		return nil, domain.ErrNotFound
	}
	return dc, nil
}

func (uc *DocumentsUseCase) audit(ctx context.Context, actor entity.Actor, action, details, contract, deviceID string) {
	entry := actor.Audit(action, details)
	entry.ContractNumber = contract
	entry.DeviceID = deviceID
	if err := uc.repos.Audit.Log(ctx, entry); err != nil {
		uc.log.Warn().Err(err).Str("action", action).Msg("no se pudo registrar en el historial")
	}
}

func marker(n int) string { return "{" + strconv.Itoa(n) + "}" }

// dottedOrRaw "DD.MM.YYYY г." para una fecha ISO; el texto original si no lo es.
func dottedOrRaw(iso string) string {
	if t, ok := fiscal.ParseISODate(iso); ok {
		return bgformat.DateDotted(t)
	}
	return iso
}

func cityOrDefault(city string) string {
	if strings.TrimSpace(city) == "" {
		return defaultCity
	}
	return city
}
