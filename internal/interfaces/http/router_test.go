package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fiskal-servis/internal/application/auth"
	"github.com/jhoicas/fiskal-servis/internal/application/catalog"
	"github.com/jhoicas/fiskal-servis/internal/application/documents"
	"github.com/jhoicas/fiskal-servis/internal/application/dto"
	"github.com/jhoicas/fiskal-servis/internal/application/nra"
	"github.com/jhoicas/fiskal-servis/internal/application/registry"
	"github.com/jhoicas/fiskal-servis/internal/application/reports"
	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
	"github.com/jhoicas/fiskal-servis/internal/infrastructure/docx"
	"github.com/jhoicas/fiskal-servis/internal/infrastructure/excel"
	"github.com/jhoicas/fiskal-servis/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/fiskal-servis/internal/interfaces/http"
	"github.com/jhoicas/fiskal-servis/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type apiFixture struct {
	app       *fiber.App
	outputDir string
	admin     string // header Authorization
	user      string
}

// newAPI monta el router completo sobre el almacén en memoria.
func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	store := memory.NewStore()
	log := logger.Nop()
	out := t.TempDir()

	authUC := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}, log)
	registryUC := registry.NewRegistryUseCase(registry.Repositories{
		Clients:      store.Clients(),
		Devices:      store.Devices(),
		Certificates: store.Certificates(),
		Audit:        store.Audit(),
		Repairs:      store.Repairs(),
	}, memory.NewTxRunner(store), excel.Reader{}, log)
	documentsUC := documents.NewDocumentsUseCase(documents.Config{TemplatesDir: t.TempDir(), OutputDir: out}, documents.Repositories{
		Clients:      store.Clients(),
		Devices:      store.Devices(),
		Certificates: store.Certificates(),
		Repairs:      store.Repairs(),
		Audit:        store.Audit(),
	}, nil, log)
	exporters := reports.Exporters{XLSX: excel.NewExporter(), DOCX: docx.NewTableExporter()}

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      authUC,
		RegistryUC:  registryUC,
		DocumentsUC: documentsUC,
		ExpiringUC:  reports.NewExpiringUseCase(store.Clients(), exporters, log),
		DashboardUC: reports.NewDashboardUseCase(store.Stats()),
		NRAUC:       nra.NewReportUseCase(nra.Config{OutputDir: out}, store.Devices(), store.Audit(), log),
		CatalogUC:   catalog.NewProductUseCase(store.Products(), store.Audit(), exporters, log),
		OutputDir:   out,
		JWTSecret:   testJWTSecret,
	})

	ctx := context.Background()
	_, err := authUC.CreateUser(ctx, dto.CreateUserRequest{Username: "admin", Password: "parola123", Role: entity.RoleAdmin})
	require.NoError(t, err)
	_, err = authUC.CreateUser(ctx, dto.CreateUserRequest{Username: "maria", Password: "parola123"})
	require.NoError(t, err)

	f := &apiFixture{app: app, outputDir: out}
	f.admin = "Bearer " + f.login(t, "admin")
	f.user = "Bearer " + f.login(t, "maria")
	return f
}

func (f *apiFixture) login(t *testing.T, username string) string {
	t.Helper()
	resp := f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: username, Password: "parola123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	decode(t, resp, &out)
	return out.Token
}

func (f *apiFixture) do(t *testing.T, method, path, authHeader string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var e dto.ErrorResponse
	decode(t, resp, &e)
	return e.Code
}

func newClient(number string) dto.ClientRequest {
	return dto.ClientRequest{
		ContractNumber: number,
		Status:         entity.StatusActive,
		ContractStart:  "2026-01-01",
		ContractExpiry: "2027-01-01",
		CompanyName:    "Алфа ЕООД",
		VatRegistered:  "да",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_CredencialesIncorrectas(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "admin", Password: "mala-clave"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, resp))
}

func TestMe_DevuelveUsuarioDelToken(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodGet, "/api/auth/me", f.user, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me map[string]string
	decode(t, resp, &me)
	assert.Equal(t, "maria", me["username"])
	assert.Equal(t, entity.RoleUser, me["role"])
}

func TestUsers_SoloAdmin(t *testing.T) {
	f := newAPI(t)

	resp := f.do(t, http.MethodGet, "/api/users", f.user, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodGet, "/api/users", f.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var users []dto.UserResponse
	decode(t, resp, &users)
	assert.Len(t, users, 2)
}

func TestRutasProtegidas_SinToken(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodGet, "/api/contracts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", errorCode(t, resp))
}

// ──────────────────────────────────────────────────────────────────────────────
// Contratos
// ──────────────────────────────────────────────────────────────────────────────

func TestClients_AltaYConsulta(t *testing.T) {
	f := newAPI(t)

	resp := f.do(t, http.MethodPost, "/api/clients", f.user, newClient("7"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created dto.ClientResponse
	decode(t, resp, &created)
	assert.NotEmpty(t, created.ID)

	resp = f.do(t, http.MethodGet, "/api/contracts/7", f.user, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var contract dto.ContractResponse
	decode(t, resp, &contract)
	assert.Equal(t, "Алфа ЕООД", contract.Client.CompanyName)
	assert.Empty(t, contract.Devices)

	resp = f.do(t, http.MethodGet, "/api/contracts/7/history", f.user, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history []dto.AuditLogResponse
	decode(t, resp, &history)
	require.Len(t, history, 1)
	assert.Equal(t, "maria", history[0].Username)
}

func TestClients_Duplicado409(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodPost, "/api/clients", f.user, newClient("7"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodPost, "/api/clients", f.user, newClient("7"))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", errorCode(t, resp))
}

func TestClients_Validacion400(t *testing.T) {
	f := newAPI(t)
	in := newClient("")
	resp := f.do(t, http.MethodPost, "/api/clients", f.user, in)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, resp))
}

func TestContracts_NoEncontrado404(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodGet, "/api/contracts/999", f.user, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp))
}

func TestServiceContract_SinDispositivos422(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodPost, "/api/clients", f.user, newClient("7"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodPost, "/api/contracts/7/documents/service-contract", f.user, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "NO_DEVICES", errorCode(t, resp))
}

func TestImportWorkbook_SoloAdmin(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodPost, "/api/import/workbook", f.user, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodPost, "/api/import/workbook", f.admin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "MISSING_FILE", errorCode(t, resp))
}

// ──────────────────────────────────────────────────────────────────────────────
// Справки y archivos
// ──────────────────────────────────────────────────────────────────────────────

func TestExpiring_SinMes400(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodGet, "/api/reports/expiring?year=2026", f.user, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestExpiring_XLSXComoAdjunto(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodGet, "/api/reports/expiring?month=3&year=2026&format=xlsx", f.user, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "expiring_03_2026.xlsx")
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
}

func TestExpiring_DOCXComoAdjunto(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodGet, "/api/reports/expiring?month=3&year=2026&format=DOCX", f.user, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "expiring_03_2026.docx")
	assert.Contains(t, resp.Header.Get("Content-Type"), "wordprocessingml")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	doc, err := docx.Parse(body)
	require.NoError(t, err)
	assert.Len(t, doc.Tables(), 1)
}

func TestExpiring_PDFNoConfigurado(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodGet, "/api/reports/expiring?month=3&year=2026&format=pdf", f.user, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, resp))
}

func TestDashboard_Vacio(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodGet, "/api/dashboard/summary", f.user, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var s dto.DashboardSummaryDTO
	decode(t, resp, &s)
	assert.Zero(t, s.TotalDevices)
}

func TestLookup_NoConfigurado503(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodGet, "/api/lookup/123456789", f.user, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "LOOKUP_UNAVAILABLE", errorCode(t, resp))
}

func TestDownload(t *testing.T) {
	f := newAPI(t)
	require.NoError(t, os.WriteFile(filepath.Join(f.outputDir, "fiskal.ser"), []byte("contenido"), 0o644))

	resp := f.do(t, http.MethodGet, "/api/files/fiskal.ser", f.user, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "contenido", string(body))

	missing := f.do(t, http.MethodGet, "/api/files/no-existe.docx", f.user, nil)
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
	missing.Body.Close()
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos y ценова листа
// ──────────────────────────────────────────────────────────────────────────────

func TestProducts_CRUD(t *testing.T) {
	f := newAPI(t)
	body := dto.ProductRequest{Name: "Термо ролка 57мм", Category: "Консумативи", Price: decimal.RequireFromString("1.956")}

	resp := f.do(t, http.MethodPost, "/api/products", f.user, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created dto.ProductResponse
	decode(t, resp, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "BGN", created.Currency)
	assert.Equal(t, "1.96", created.Price.StringFixed(2))
	assert.Equal(t, "1.00", created.PriceEUR.StringFixed(2))

	resp = f.do(t, http.MethodGet, "/api/products?q=ролка", f.user, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var found []dto.ProductResponse
	decode(t, resp, &found)
	require.Len(t, found, 1)

	body.Price = decimal.NewFromInt(5)
	body.Currency = "EUR"
	resp = f.do(t, http.MethodPut, "/api/products/"+created.ID, f.user, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated dto.ProductResponse
	decode(t, resp, &updated)
	assert.Equal(t, "9.78", updated.PriceBGN.StringFixed(2))

	resp = f.do(t, http.MethodDelete, "/api/products/"+created.ID, f.user, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodGet, "/api/products/"+created.ID, f.user, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestProducts_Validacion400(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodPost, "/api/products", f.user, dto.ProductRequest{Name: "Ролка", Currency: "USD"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, resp))
}

func TestPriceList_DOCXPorDefecto(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodPost, "/api/products", f.user, dto.ProductRequest{Name: "Ролка", Price: decimal.NewFromInt(2)})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodGet, "/api/products/price-list", f.user, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "wordprocessingml")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "PriceList_")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".docx")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	doc, err := docx.Parse(body)
	require.NoError(t, err)
	require.Len(t, doc.Tables(), 1)
	assert.Len(t, doc.Tables()[0].Rows(), 2)
}

func TestPriceList_XLSXYModoInvalido(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodGet, "/api/products/price-list?mode=eur&format=xlsx", f.user, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	resp.Body.Close()

	resp = f.do(t, http.MethodGet, "/api/products/price-list?mode=usd", f.user, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, resp))
}
