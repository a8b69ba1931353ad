// Package memory implementa los puertos de repositorio en memoria. Sirve a los
// tests de casos de uso y a ejecuciones locales sin PostgreSQL; respeta el mismo
// orden y las mismas reglas de unicidad que el adaptador postgres.
package memory

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fiskal-servis/internal/domain"
	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
	"github.com/jhoicas/fiskal-servis/internal/domain/repository"
)

var (
	_ repository.UserRepository        = (*UserRepo)(nil)
	_ repository.ClientRepository      = (*ClientRepo)(nil)
	_ repository.DeviceRepository      = (*DeviceRepo)(nil)
	_ repository.AuditRepository       = (*AuditRepo)(nil)
	_ repository.RepairRepository      = (*RepairRepo)(nil)
	_ repository.CertificateRepository = (*CertificateRepo)(nil)
	_ repository.StatsRepository       = (*StatsRepo)(nil)
	_ repository.ProductRepository     = (*ProductRepo)(nil)
)

// Store datos compartidos por todos los repositorios en memoria.
type Store struct {
	mu       sync.Mutex
	users    map[string]entity.User
	clients  map[string]entity.Client
	devices  map[string]entity.Device
	certs    map[string]entity.Certificate
	products map[string]entity.Product
	audit    []entity.AuditLog
	repairs  []entity.RepairRecord
	repairID int64
	seq      int64 // orden de inserción de dispositivos
	devOrder map[string]int64
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		users:    make(map[string]entity.User),
		clients:  make(map[string]entity.Client),
		devices:  make(map[string]entity.Device),
		certs:    make(map[string]entity.Certificate),
		products: make(map[string]entity.Product),
		devOrder: make(map[string]int64),
	}
}

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Clients repositorio de clientes.
func (s *Store) Clients() *ClientRepo { return &ClientRepo{s: s} }

// Devices repositorio de dispositivos.
func (s *Store) Devices() *DeviceRepo { return &DeviceRepo{s: s} }

// Audit repositorio del historial.
func (s *Store) Audit() *AuditRepo { return &AuditRepo{s: s} }

// Repairs repositorio de reparaciones.
func (s *Store) Repairs() *RepairRepo { return &RepairRepo{s: s} }

// Certificates repositorio de certificados BIM.
func (s *Store) Certificates() *CertificateRepo { return &CertificateRepo{s: s} }

// Products catálogo de productos.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Stats consultas del panel.
func (s *Store) Stats() *StatsRepo { return &StatsRepo{s: s} }

func touch(created, updated *time.Time) {
	now := time.Now()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

// ── Users ─────────────────────────────────────────────────────────────────────

// UserRepo usuarios en memoria.
type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Username == u.Username {
			return domain.ErrUsernameExists
		}
	}
	touch(&u.CreatedAt, &u.UpdatedAt)
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) List(_ context.Context) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := make([]*entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		list = append(list, &u)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Username < list[j].Username })
	return list, nil
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return nil
}

// ── Clients ───────────────────────────────────────────────────────────────────

var numericContract = regexp.MustCompile(`^[0-9]{1,18}$`)

// contractLess orden numérico con los números no numéricos al final.
func contractLess(a, b string) bool {
	an, bn := numericContract.MatchString(a), numericContract.MatchString(b)
	switch {
	case an && bn:
		ai, _ := strconv.ParseInt(a, 10, 64)
		bi, _ := strconv.ParseInt(b, 10, 64)
		if ai != bi {
			return ai < bi
		}
	case an != bn:
		return an
	}
	return a < b
}

// ClientRepo clientes en memoria.
type ClientRepo struct{ s *Store }

func (r *ClientRepo) Create(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.contractTaken(c.ContractNumber, c.ID) {
		return domain.ErrDuplicate
	}
	touch(&c.CreatedAt, &c.UpdatedAt)
	r.s.clients[c.ID] = *c
	return nil
}

func (r *ClientRepo) Update(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.clients[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if r.s.contractTaken(c.ContractNumber, c.ID) {
		return domain.ErrDuplicate
	}
	c.CreatedAt = old.CreatedAt
	touch(&c.CreatedAt, &c.UpdatedAt)
	r.s.clients[c.ID] = *c
	return nil
}

func (s *Store) contractTaken(number, exceptID string) bool {
	for id, c := range s.clients {
		if id != exceptID && c.ContractNumber == number {
			return true
		}
	}
	return false
}

// Delete elimina el cliente y sus dispositivos (ON DELETE CASCADE).
func (r *ClientRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.clients, id)
	for devID, d := range r.s.devices {
		if d.ClientID == id {
			delete(r.s.devices, devID)
		}
	}
	return nil
}

func (r *ClientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *ClientRepo) GetByContractNumber(_ context.Context, number string) (*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.clients {
		if c.ContractNumber == number {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *ClientRepo) ListContractNumbers(_ context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := make([]string, 0, len(r.s.clients))
	for _, c := range r.s.clients {
		list = append(list, c.ContractNumber)
	}
	sort.Slice(list, func(i, j int) bool { return contractLess(list[i], list[j]) })
	return list, nil
}

func (r *ClientRepo) NextContractNumber(_ context.Context) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var max int64
	for _, c := range r.s.clients {
		if !numericContract.MatchString(c.ContractNumber) {
			continue
		}
		if n, err := strconv.ParseInt(c.ContractNumber, 10, 64); err == nil && n > max {
			max = n
		}
	}
	return strconv.FormatInt(max+1, 10), nil
}

func (r *ClientRepo) ListExpiring(_ context.Context, month, year int) ([]*entity.DeviceWithClient, error) {
	prefix := strconv.Itoa(year) + "-" + twoDigits(month) + "-"
	list := r.s.joined(func(dc *entity.DeviceWithClient) bool {
		return strings.HasPrefix(dc.Client.ContractExpiry, prefix)
	})
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Client.ContractExpiry < list[j].Client.ContractExpiry
	})
	return list, nil
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// ── Devices ───────────────────────────────────────────────────────────────────

// DeviceRepo dispositivos en memoria.
type DeviceRepo struct{ s *Store }

func (r *DeviceRepo) Create(_ context.Context, d *entity.Device) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.clients[d.ClientID]; !ok {
		return domain.ErrNotFound
	}
	touch(&d.CreatedAt, &d.UpdatedAt)
	r.s.seq++
	r.s.devOrder[d.ID] = r.s.seq
	r.s.devices[d.ID] = *d
	return nil
}

func (r *DeviceRepo) Update(_ context.Context, d *entity.Device) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.devices[d.ID]
	if !ok {
		return domain.ErrNotFound
	}
	d.ClientID = old.ClientID
	d.CreatedAt = old.CreatedAt
	touch(&d.CreatedAt, &d.UpdatedAt)
	r.s.devices[d.ID] = *d
	return nil
}

func (r *DeviceRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.devices, id)
	return nil
}

func (r *DeviceRepo) DeleteByClient(_ context.Context, clientID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, d := range r.s.devices {
		if d.ClientID == clientID {
			delete(r.s.devices, id)
		}
	}
	return nil
}

func (r *DeviceRepo) GetByID(_ context.Context, id string) (*entity.Device, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.devices[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *DeviceRepo) GetWithClient(_ context.Context, id string) (*entity.DeviceWithClient, error) {
	list := r.s.joined(func(dc *entity.DeviceWithClient) bool { return dc.Device.ID == id })
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (r *DeviceRepo) ListByClient(_ context.Context, clientID string) ([]*entity.Device, error) {
	var list []*entity.Device
	for _, dc := range r.s.joined(func(dc *entity.DeviceWithClient) bool { return dc.Device.ClientID == clientID }) {
		d := dc.Device
		list = append(list, &d)
	}
	return list, nil
}

func (r *DeviceRepo) ListForNRAReport(_ context.Context) ([]*entity.DeviceWithClient, error) {
	return r.s.joined(func(dc *entity.DeviceWithClient) bool { return dc.Device.NRAReportEnabled }), nil
}

func (r *DeviceRepo) Search(_ context.Context, f repository.DeviceFilter) ([]*entity.DeviceWithClient, error) {
	match := func(value string, fields ...string) bool {
		value = strings.ToLower(strings.TrimSpace(value))
		if value == "" {
			return true
		}
		for _, field := range fields {
			if strings.Contains(strings.ToLower(field), value) {
				return true
			}
		}
		return false
	}
	return r.s.joined(func(dc *entity.DeviceWithClient) bool {
		c, d := dc.Client, dc.Device
		return match(f.Company, c.CompanyName) &&
			match(f.EIK, c.EIK) &&
			match(f.Contract, c.ContractNumber) &&
			match(f.Phone, c.Phone1, c.Phone2, d.ObjectPhone) &&
			match(f.Address, c.Address, d.ObjectAddress) &&
			match(f.Serial, d.SerialNumber) &&
			(!f.EuroOnly || d.EuroDone)
	}), nil
}

// joined devuelve dispositivo+cliente que cumplen keep, ordenados por contrato
// numérico y luego por orden de inserción.
func (s *Store) joined(keep func(*entity.DeviceWithClient) bool) []*entity.DeviceWithClient {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []*entity.DeviceWithClient
	for _, d := range s.devices {
		c, ok := s.clients[d.ClientID]
		if !ok {
			continue
		}
		dc := &entity.DeviceWithClient{Client: c, Device: d}
		if keep(dc) {
			list = append(list, dc)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Client.ContractNumber != b.Client.ContractNumber {
			return contractLess(a.Client.ContractNumber, b.Client.ContractNumber)
		}
		return s.devOrder[a.Device.ID] < s.devOrder[b.Device.ID]
	})
	return list
}

// ── Audit ─────────────────────────────────────────────────────────────────────

// AuditRepo historial en memoria.
type AuditRepo struct{ s *Store }

func (r *AuditRepo) Log(_ context.Context, e *entity.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e.ID = int64(len(r.s.audit) + 1)
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	r.s.audit = append(r.s.audit, *e)
	return nil
}

func (r *AuditRepo) ListByContract(_ context.Context, number string) ([]*entity.AuditLog, error) {
	return r.list(func(e entity.AuditLog) bool { return e.ContractNumber == number }), nil
}

func (r *AuditRepo) ListByDevice(_ context.Context, deviceID string) ([]*entity.AuditLog, error) {
	return r.list(func(e entity.AuditLog) bool { return e.DeviceID == deviceID }), nil
}

// All historial completo en orden de registro.
func (r *AuditRepo) All() []entity.AuditLog {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]entity.AuditLog(nil), r.s.audit...)
}

// list más reciente primero.
func (r *AuditRepo) list(keep func(entity.AuditLog) bool) []*entity.AuditLog {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.AuditLog
	for i := len(r.s.audit) - 1; i >= 0; i-- {
		if e := r.s.audit[i]; keep(e) {
			list = append(list, &e)
		}
	}
	return list
}

// ── Repairs ───────────────────────────────────────────────────────────────────

// RepairRepo reparaciones en memoria; los IDs empiezan en 1 y no se reutilizan.
type RepairRepo struct{ s *Store }

func (r *RepairRepo) Create(_ context.Context, rec *entity.RepairRecord) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.repairID++
	rec.ID = r.s.repairID
	r.s.repairs = append(r.s.repairs, *rec)
	return rec.ID, nil
}

func (r *RepairRepo) UpdateProtocolPath(_ context.Context, id int64, path string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.repairs {
		if r.s.repairs[i].ID == id {
			r.s.repairs[i].ProtocolPath = path
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *RepairRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.repairs {
		if r.s.repairs[i].ID == id {
			r.s.repairs = append(r.s.repairs[:i], r.s.repairs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *RepairRepo) ListByDevice(_ context.Context, deviceID string) ([]*entity.RepairRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.RepairRecord
	for i := len(r.s.repairs) - 1; i >= 0; i-- {
		if rec := r.s.repairs[i]; rec.DeviceID == deviceID {
			list = append(list, &rec)
		}
	}
	return list, nil
}

// ── Products ──────────────────────────────────────────────────────────────────

// ProductRepo catálogo en memoria.
type ProductRepo struct{ s *Store }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	touch(&p.CreatedAt, &p.UpdatedAt)
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	touch(&p.CreatedAt, &p.UpdatedAt)
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.products, id)
	return nil
}

func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	return r.Search(ctx, "")
}

func (r *ProductRepo) Search(_ context.Context, query string) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	query = strings.ToLower(strings.TrimSpace(query))
	var list []*entity.Product
	for _, p := range r.s.products {
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Category), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		list = append(list, &p)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Category != list[j].Category {
			return list[i].Category < list[j].Category
		}
		return list[i].Name < list[j].Name
	})
	return list, nil
}

// ── Certificates ──────────────────────────────────────────────────────────────

// CertificateRepo certificados en memoria, indexados por número.
type CertificateRepo struct{ s *Store }

func (r *CertificateRepo) Upsert(_ context.Context, c *entity.Certificate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if old, ok := r.s.certs[c.Number]; ok {
		c.ID = old.ID
	}
	r.s.certs[c.Number] = *c
	return nil
}

func (r *CertificateRepo) GetByNumber(_ context.Context, number string) (*entity.Certificate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.certs[number]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CertificateRepo) List(_ context.Context) ([]*entity.Certificate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := make([]*entity.Certificate, 0, len(r.s.certs))
	for _, c := range r.s.certs {
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Number < list[j].Number })
	return list, nil
}

func (r *CertificateRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for number, c := range r.s.certs {
		if c.ID == id {
			delete(r.s.certs, number)
		}
	}
	return nil
}

func (r *CertificateRepo) Clear(_ context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.certs = make(map[string]entity.Certificate)
	return nil
}

// ── Stats ─────────────────────────────────────────────────────────────────────

// StatsRepo panel calculado sobre el almacén.
type StatsRepo struct{ s *Store }

func (r *StatsRepo) ContractCounts(_ context.Context, today, soon time.Time) (repository.ContractCounts, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	from, to := today.Format("2006-01-02"), soon.Format("2006-01-02")
	var out repository.ContractCounts
	for _, c := range r.s.clients {
		expired := c.Status == entity.StatusExpired || (c.ContractExpiry != "" && c.ContractExpiry < from)
		if c.Status == entity.StatusActive {
			out.Active++
			if c.ContractExpiry >= from && c.ContractExpiry <= to {
				out.ExpiringSoon++
			}
		}
		if expired {
			out.Expired++
		}
	}
	return out, nil
}

func (r *StatsRepo) MonthlyRevenue(_ context.Context) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := decimal.Zero
	for _, d := range r.s.devices {
		if c, ok := r.s.clients[d.ClientID]; ok && c.Status == entity.StatusActive {
			total = total.Add(d.MaintenancePrice)
		}
	}
	return total, nil
}

func (r *StatsRepo) TopModels(_ context.Context, limit int) ([]repository.ModelCount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := make(map[string]int)
	for _, d := range r.s.devices {
		if d.Model != "" {
			counts[d.Model]++
		}
	}
	list := make([]repository.ModelCount, 0, len(counts))
	for m, n := range counts {
		list = append(list, repository.ModelCount{Model: m, Count: n})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Count != list[j].Count {
			return list[i].Count > list[j].Count
		}
		return list[i].Model < list[j].Model
	})
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *StatsRepo) TotalDevices(_ context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.devices), nil
}
