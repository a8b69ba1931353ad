package registry_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fiskal-servis/internal/application/dto"
	"github.com/jhoicas/fiskal-servis/internal/application/registry"
	"github.com/jhoicas/fiskal-servis/internal/domain"
	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
	"github.com/jhoicas/fiskal-servis/internal/infrastructure/memory"
	"github.com/jhoicas/fiskal-servis/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var actor = entity.Actor{UserID: "u-1", Username: "ivan"}

// stubWorkbook devuelve contratos y certificados fijos, o err.
type stubWorkbook struct {
	contracts []*entity.Contract
	certs     []*entity.Certificate
	err       error
}

func (s *stubWorkbook) ReadContracts(io.Reader) ([]*entity.Contract, error) { return s.contracts, s.err }
func (s *stubWorkbook) ReadCertificates(io.Reader) ([]*entity.Certificate, error) {
	return s.certs, s.err
}

func newUseCase(store *memory.Store, wb registry.WorkbookReader) *registry.RegistryUseCase {
	repos := registry.Repositories{
		Clients:      store.Clients(),
		Devices:      store.Devices(),
		Certificates: store.Certificates(),
		Audit:        store.Audit(),
		Repairs:      store.Repairs(),
	}
	return registry.NewRegistryUseCase(repos, memory.NewTxRunner(store), wb, logger.Nop())
}

func clientReq(number, company string) dto.ClientRequest {
	return dto.ClientRequest{
		ContractNumber: number,
		Status:         entity.StatusActive,
		ContractStart:  "2025-01-15",
		ContractExpiry: "2026-01-15",
		CompanyName:    company,
		VatRegistered:  "да",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Contratos y dispositivos
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateClient_YAuditoria(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store, nil)
	ctx := context.Background()

	out, err := uc.CreateClient(ctx, actor, clientReq("1001", "Алфа ЕООД"))
	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "1001", out.ContractNumber)

	history, err := uc.ContractHistory(ctx, "1001")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, entity.ActionCreateClient, history[0].Action)
	assert.Equal(t, "ivan", history[0].Username)
}

func TestCreateClient_ContratoDuplicado(t *testing.T) {
	uc := newUseCase(memory.NewStore(), nil)
	ctx := context.Background()

	_, err := uc.CreateClient(ctx, actor, clientReq("1001", "Алфа"))
	require.NoError(t, err)
	_, err = uc.CreateClient(ctx, actor, clientReq("1001", "Бета"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreateClient_EntradaInvalida(t *testing.T) {
	uc := newUseCase(memory.NewStore(), nil)
	req := clientReq("", "")
	req.ContractStart = "15.01.2025"

	_, err := uc.CreateClient(context.Background(), actor, req)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "contract_number")
	assert.Contains(t, err.Error(), "contract_start")
}

func TestNextContractNumber_IgnoraNoNumericos(t *testing.T) {
	uc := newUseCase(memory.NewStore(), nil)
	ctx := context.Background()
	for _, n := range []string{"9", "120", "A-7"} {
		_, err := uc.CreateClient(ctx, actor, clientReq(n, "Фирма "+n))
		require.NoError(t, err)
	}

	next, err := uc.NextContractNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "121", next.ContractNumber)

	numbers, err := uc.ListContractNumbers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"9", "120", "A-7"}, numbers)
}

func TestDevices_CRUDYBusqueda(t *testing.T) {
	uc := newUseCase(memory.NewStore(), nil)
	ctx := context.Background()

	client, err := uc.CreateClient(ctx, actor, clientReq("1001", "Алфа ЕООД"))
	require.NoError(t, err)

	dev, err := uc.CreateDevice(ctx, actor, client.ID, dto.DeviceRequest{
		Model: "DATECS DP-25", SerialNumber: "DT012345", EuroDone: true,
		ObjectPhone: "0888123456", MaintenancePrice: decimal.RequireFromString("60"),
	})
	require.NoError(t, err)
	assert.True(t, dev.NRAReportEnabled, "sin valor explícito el reporte queda habilitado")

	off := false
	updated, err := uc.UpdateDevice(ctx, actor, dev.ID, dto.DeviceRequest{
		Model: "DATECS DP-25X", SerialNumber: "DT012345", NRAReportEnabled: &off,
		ObjectPhone: "0888123456",
	})
	require.NoError(t, err)
	assert.Equal(t, "DATECS DP-25X", updated.Model)
	assert.False(t, updated.NRAReportEnabled)
	assert.Equal(t, client.ID, updated.ClientID)
	assert.True(t, updated.MaintenancePrice.IsZero(), "la actualización reemplaza el dispositivo completo")

	found, err := uc.SearchDevices(ctx, dto.DeviceSearchRequest{Phone: "123456"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Алфа ЕООД", found[0].Client.CompanyName)

	found, err = uc.SearchDevices(ctx, dto.DeviceSearchRequest{Serial: "zk"})
	require.NoError(t, err)
	assert.Empty(t, found)

	contract, err := uc.GetContract(ctx, "1001")
	require.NoError(t, err)
	assert.Len(t, contract.Devices, 1)

	require.NoError(t, uc.DeleteDevice(ctx, actor, dev.ID))
	_, err = uc.GetDevice(ctx, dev.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	history, err := uc.DeviceHistory(ctx, dev.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, entity.ActionDeleteDevice, history[0].Action, "el más reciente primero")
}

func TestCreateDevice_ContratoInexistente(t *testing.T) {
	uc := newUseCase(memory.NewStore(), nil)
	_, err := uc.CreateDevice(context.Background(), actor, "no-existe", dto.DeviceRequest{Model: "M", SerialNumber: "S"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteClient_EliminaDispositivos(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store, nil)
	ctx := context.Background()

	client, err := uc.CreateClient(ctx, actor, clientReq("1001", "Алфа"))
	require.NoError(t, err)
	_, err = uc.CreateDevice(ctx, actor, client.ID, dto.DeviceRequest{Model: "M", SerialNumber: "DT1"})
	require.NoError(t, err)

	require.NoError(t, uc.DeleteClient(ctx, actor, client.ID))
	all, err := uc.SearchDevices(ctx, dto.DeviceSearchRequest{})
	require.NoError(t, err)
	assert.Empty(t, all)
	_, err = uc.GetContract(ctx, "1001")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Importación
// ──────────────────────────────────────────────────────────────────────────────

func TestImportWorkbook_CreaYReemplaza(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	existing := newUseCase(store, nil)
	old, err := existing.CreateClient(ctx, actor, clientReq("1001", "Старо име"))
	require.NoError(t, err)
	_, err = existing.CreateDevice(ctx, actor, old.ID, dto.DeviceRequest{Model: "OLD", SerialNumber: "DT000001"})
	require.NoError(t, err)

	wb := &stubWorkbook{contracts: []*entity.Contract{
		{
			Client:  entity.Client{ContractNumber: "1001", CompanyName: "Алфа ЕООД"},
			Devices: []entity.Device{{Model: "DP-25", SerialNumber: "DT012345"}, {Model: "M20", SerialNumber: "ZK111111"}},
		},
		{
			Client:  entity.Client{ContractNumber: "1002", CompanyName: "Бета ООД"},
			Devices: []entity.Device{{Model: "FP-700", SerialNumber: "DY222222"}},
		},
	}}
	uc := newUseCase(store, wb)

	res, err := uc.ImportWorkbook(ctx, actor, strings.NewReader("xlsx"))
	require.NoError(t, err)
	assert.Equal(t, dto.ImportResult{Clients: 2, Devices: 3}, *res)

	contract, err := uc.GetContract(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, old.ID, contract.Client.ID, "el contrato existente conserva su ID")
	assert.Equal(t, "Алфа ЕООД", contract.Client.CompanyName)
	require.Len(t, contract.Devices, 2, "los dispositivos anteriores se reemplazan")
	assert.Equal(t, "DT012345", contract.Devices[0].SerialNumber)

	var actions []string
	for _, e := range store.Audit().All() {
		actions = append(actions, e.Action)
	}
	assert.Contains(t, actions, entity.ActionImportData)
}

func TestImportWorkbook_LibroVacioOInvalido(t *testing.T) {
	ctx := context.Background()

	_, err := newUseCase(memory.NewStore(), &stubWorkbook{}).ImportWorkbook(ctx, actor, strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = newUseCase(memory.NewStore(), &stubWorkbook{err: errors.New("zip: not a valid zip file")}).
		ImportWorkbook(ctx, actor, strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestImportCertificates_ReemplazaTabla(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	uc := newUseCase(store, &stubWorkbook{certs: []*entity.Certificate{
		{Number: "123", ExpiryDate: "2031-06-11"},
		{Number: "456", ExpiryDate: ""},
	}})

	_, err := uc.UpsertCertificate(ctx, dto.CertificateDTO{Number: "999", ExpiryDate: "2020-01-01"})
	require.NoError(t, err)

	n, err := uc.ImportCertificates(ctx, actor, strings.NewReader("xlsx"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := uc.ListCertificates(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "123", list[0].Number)
	assert.Equal(t, "2031-06-11", list[0].ExpiryDate)
}
