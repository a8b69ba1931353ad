// Package registry casos de uso del registro de contratos, dispositivos,
// certificados BIM e historial.
package registry

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/fiskal-servis/internal/application/dto"
	"github.com/jhoicas/fiskal-servis/internal/domain"
	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
	"github.com/jhoicas/fiskal-servis/internal/domain/repository"
	"github.com/jhoicas/fiskal-servis/pkg/logger"
)

// Repositories puertos que usa el registro.
type Repositories struct {
	Clients      repository.ClientRepository
	Devices      repository.DeviceRepository
	Certificates repository.CertificateRepository
	Audit        repository.AuditRepository
	Repairs      repository.RepairRepository
}

// RegistryUseCase aplica reglas de negocio sobre contratos y dispositivos.
type RegistryUseCase struct {
	repos    Repositories
	tx       TxRunner
	workbook WorkbookReader
	log      *logger.Logger
}

// NewRegistryUseCase construye el caso de uso.
func NewRegistryUseCase(repos Repositories, tx TxRunner, workbook WorkbookReader, log *logger.Logger) *RegistryUseCase {
	return &RegistryUseCase{repos: repos, tx: tx, workbook: workbook, log: log.Component("registry")}
}

// ── Contratos ─────────────────────────────────────────────────────────────────

// CreateClient crea un contrato. ErrDuplicate si el número ya existe.
func (uc *RegistryUseCase) CreateClient(ctx context.Context, actor entity.Actor, in dto.ClientRequest) (*dto.ClientResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	client := &entity.Client{ID: uuid.New().String()}
	in.Apply(client)
	if err := uc.repos.Clients.Create(ctx, client); err != nil {
		return nil, err
	}
	uc.audit(ctx, actor, entity.ActionCreateClient, "Създаден договор", client.ContractNumber, "")
	out := dto.NewClientResponse(client)
	return &out, nil
}

// UpdateClient modifica un contrato existente.
func (uc *RegistryUseCase) UpdateClient(ctx context.Context, actor entity.Actor, id string, in dto.ClientRequest) (*dto.ClientResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	client, err := uc.mustClient(ctx, id)
	if err != nil {
		return nil, err
	}
	in.Apply(client)
	if err := uc.repos.Clients.Update(ctx, client); err != nil {
		return nil, err
	}
	uc.audit(ctx, actor, entity.ActionUpdateClient, "Редактиран договор", client.ContractNumber, "")
	out := dto.NewClientResponse(client)
	return &out, nil
}

// DeleteClient elimina el contrato y sus dispositivos.
func (uc *RegistryUseCase) DeleteClient(ctx context.Context, actor entity.Actor, id string) error {
	client, err := uc.mustClient(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.repos.Devices.DeleteByClient(ctx, id); err != nil {
		return err
	}
	if err := uc.repos.Clients.Delete(ctx, id); err != nil {
		return err
	}
	uc.audit(ctx, actor, entity.ActionDeleteClient, "Изтрит договор "+client.CompanyName, client.ContractNumber, "")
	return nil
}

// GetContract contrato por número con sus dispositivos.
func (uc *RegistryUseCase) GetContract(ctx context.Context, contractNumber string) (*dto.ContractResponse, error) {
	client, err := uc.repos.Clients.GetByContractNumber(ctx, contractNumber)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return uc.contract(ctx, client)
}

// GetClient contrato por ID con sus dispositivos.
func (uc *RegistryUseCase) GetClient(ctx context.Context, id string) (*dto.ContractResponse, error) {
	client, err := uc.mustClient(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.contract(ctx, client)
}

func (uc *RegistryUseCase) contract(ctx context.Context, client *entity.Client) (*dto.ContractResponse, error) {
	devices, err := uc.repos.Devices.ListByClient(ctx, client.ID)
	if err != nil {
		return nil, err
	}
	out := &dto.ContractResponse{Client: dto.NewClientResponse(client), Devices: make([]dto.DeviceResponse, 0, len(devices))}
	for _, d := range devices {
		out.Devices = append(out.Devices, dto.NewDeviceResponse(d))
	}
	return out, nil
}

// ListContractNumbers números de contrato en orden numérico.
func (uc *RegistryUseCase) ListContractNumbers(ctx context.Context) ([]string, error) {
	numbers, err := uc.repos.Clients.ListContractNumbers(ctx)
	if err != nil {
		return nil, err
	}
	if numbers == nil {
		numbers = []string{}
	}
	return numbers, nil
}

// NextContractNumber mayor número numérico + 1.
func (uc *RegistryUseCase) NextContractNumber(ctx context.Context) (*dto.NextContractNumberResponse, error) {
	n, err := uc.repos.Clients.NextContractNumber(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.NextContractNumberResponse{ContractNumber: n}, nil
}

// ── Dispositivos ──────────────────────────────────────────────────────────────

// CreateDevice agrega un dispositivo al contrato clientID.
func (uc *RegistryUseCase) CreateDevice(ctx context.Context, actor entity.Actor, clientID string, in dto.DeviceRequest) (*dto.DeviceResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	client, err := uc.mustClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	device := &entity.Device{ID: uuid.New().String(), ClientID: client.ID}
	in.Apply(device)
	if err := uc.repos.Devices.Create(ctx, device); err != nil {
		return nil, err
	}
	uc.audit(ctx, actor, entity.ActionCreateDevice, "Добавено ФУ "+device.SerialNumber, client.ContractNumber, device.ID)
	out := dto.NewDeviceResponse(device)
	return &out, nil
}

// UpdateDevice modifica un dispositivo; el contrato titular no cambia.
func (uc *RegistryUseCase) UpdateDevice(ctx context.Context, actor entity.Actor, id string, in dto.DeviceRequest) (*dto.DeviceResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	dc, err := uc.mustDevice(ctx, id)
	if err != nil {
		return nil, err
	}
	device := dc.Device
	in.Apply(&device)
	if err := uc.repos.Devices.Update(ctx, &device); err != nil {
		return nil, err
	}
	uc.audit(ctx, actor, entity.ActionUpdateDevice, "Редактирано ФУ "+device.SerialNumber, dc.Client.ContractNumber, device.ID)
	out := dto.NewDeviceResponse(&device)
	return &out, nil
}

// DeleteDevice elimina un dispositivo.
func (uc *RegistryUseCase) DeleteDevice(ctx context.Context, actor entity.Actor, id string) error {
	dc, err := uc.mustDevice(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.repos.Devices.Delete(ctx, id); err != nil {
		return err
	}
	uc.audit(ctx, actor, entity.ActionDeleteDevice, "Изтрито ФУ "+dc.Device.SerialNumber, dc.Client.ContractNumber, id)
	return nil
}

// GetDevice dispositivo con su contrato.
func (uc *RegistryUseCase) GetDevice(ctx context.Context, id string) (*dto.DeviceWithClientResponse, error) {
	dc, err := uc.mustDevice(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewDeviceWithClientResponse(dc)
	return &out, nil
}

// SearchDevices búsqueda por subcadena; sin filtros devuelve todo el registro.
func (uc *RegistryUseCase) SearchDevices(ctx context.Context, in dto.DeviceSearchRequest) ([]dto.DeviceWithClientResponse, error) {
	list, err := uc.repos.Devices.Search(ctx, in.Filter())
	if err != nil {
		return nil, err
	}
	out := make([]dto.DeviceWithClientResponse, 0, len(list))
	for _, dc := range list {
		out = append(out, dto.NewDeviceWithClientResponse(dc))
	}
	return out, nil
}

// ── Historial ─────────────────────────────────────────────────────────────────

// ContractHistory acciones sobre un contrato, la más reciente primero.
func (uc *RegistryUseCase) ContractHistory(ctx context.Context, contractNumber string) ([]dto.AuditLogResponse, error) {
	list, err := uc.repos.Audit.ListByContract(ctx, contractNumber)
	if err != nil {
		return nil, err
	}
	return auditResponses(list), nil
}

// DeviceHistory acciones sobre un dispositivo.
func (uc *RegistryUseCase) DeviceHistory(ctx context.Context, deviceID string) ([]dto.AuditLogResponse, error) {
	list, err := uc.repos.Audit.ListByDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	return auditResponses(list), nil
}

// ListRepairs reparaciones de un dispositivo.
func (uc *RegistryUseCase) ListRepairs(ctx context.Context, deviceID string) ([]dto.RepairResponse, error) {
	list, err := uc.repos.Repairs.ListByDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RepairResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.RepairResponse{
			ID: r.ID, DeviceID: r.DeviceID, Problem: r.Problem, RepairDate: r.RepairDate, ProtocolPath: r.ProtocolPath,
		})
	}
	return out, nil
}

func auditResponses(list []*entity.AuditLog) []dto.AuditLogResponse {
	out := make([]dto.AuditLogResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.NewAuditLogResponse(a))
	}
	return out
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (uc *RegistryUseCase) mustClient(ctx context.Context, id string) (*entity.Client, error) {
	client, err := uc.repos.Clients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return client, nil
}

func (uc *RegistryUseCase) mustDevice(ctx context.Context, id string) (*entity.DeviceWithClient, error) {
	dc, err := uc.repos.Devices.GetWithClient(ctx, id)
	if err != nil {
		return nil, err
	}
	if dc == nil {
		return nil, domain.ErrNotFound
	}
	return dc, nil
}

// audit registra la acción; un fallo del historial no revierte la operación.
func (uc *RegistryUseCase) audit(ctx context.Context, actor entity.Actor, action, details, contract, deviceID string) {
	entry := actor.Audit(action, details)
	entry.ContractNumber = contract
	entry.DeviceID = deviceID
	if err := uc.repos.Audit.Log(ctx, entry); err != nil {
		uc.log.Warn().Err(err).Str("action", action).Msg("no se pudo registrar en el historial")
	}
}
