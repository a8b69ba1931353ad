package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fiskal-servis/internal/domain"
	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
	"github.com/jhoicas/fiskal-servis/internal/domain/repository"
)

var _ repository.DeviceRepository = (*DeviceRepo)(nil)

// DeviceRepo implementación de DeviceRepository (usable con pool o tx).
type DeviceRepo struct {
	q Querier
}

// NewDeviceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDeviceRepository(q Querier) *DeviceRepo {
	return &DeviceRepo{q: q}
}

const deviceColumns = `d.id, d.client_id, d.fdrid, d.euro_done, d.object_name, d.object_address, d.object_phone,
	d.model, d.certificate_number, d.certificate_expiry, d.serial_number, d.fiscal_memory,
	d.nra_report_enabled, d.nra_report_month, d.nra_td, d.bim_model, d.bim_date,
	d.maintenance_price, d.last_renewed_at, d.created_at, d.updated_at`

const joinedClientColumns = `c.id, c.contract_number, c.status, c.contract_start, c.contract_expiry, c.company_name,
	c.city, c.postal_code, c.address, c.eik, c.vat_registered, c.mol, c.phone1, c.phone2, c.created_at, c.updated_at`

func deviceDest(d *entity.Device) []any {
	return []any{
		&d.ID, &d.ClientID, &d.FDRID, &d.EuroDone, &d.ObjectName, &d.ObjectAddress, &d.ObjectPhone,
		&d.Model, &d.CertificateNumber, &d.CertificateExpiry, &d.SerialNumber, &d.FiscalMemory,
		&d.NRAReportEnabled, &d.NRAReportMonth, &d.NRATD, &d.BIMModel, &d.BIMDate,
		&d.MaintenancePrice, &d.LastRenewedAt, &d.CreatedAt, &d.UpdatedAt,
	}
}

// Create persiste un nuevo dispositivo.
func (r *DeviceRepo) Create(ctx context.Context, d *entity.Device) error {
	touch(&d.CreatedAt, &d.UpdatedAt)
	query := `
		INSERT INTO devices (id, client_id, fdrid, euro_done, object_name, object_address, object_phone,
			model, certificate_number, certificate_expiry, serial_number, fiscal_memory,
			nra_report_enabled, nra_report_month, nra_td, bim_model, bim_date,
			maintenance_price, last_renewed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.ClientID, d.FDRID, d.EuroDone, d.ObjectName, d.ObjectAddress, d.ObjectPhone,
		d.Model, d.CertificateNumber, d.CertificateExpiry, d.SerialNumber, d.FiscalMemory,
		d.NRAReportEnabled, d.NRAReportMonth, d.NRATD, d.BIMModel, d.BIMDate,
		d.MaintenancePrice, d.LastRenewedAt, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert device: %w", err)
	}
	return nil
}

// Update actualiza el dispositivo (no cambia de cliente).
func (r *DeviceRepo) Update(ctx context.Context, d *entity.Device) error {
	touch(&d.CreatedAt, &d.UpdatedAt)
	query := `
		UPDATE devices SET fdrid = $2, euro_done = $3, object_name = $4, object_address = $5, object_phone = $6,
			model = $7, certificate_number = $8, certificate_expiry = $9, serial_number = $10, fiscal_memory = $11,
			nra_report_enabled = $12, nra_report_month = $13, nra_td = $14, bim_model = $15, bim_date = $16,
			maintenance_price = $17, last_renewed_at = $18, updated_at = $19
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		d.ID, d.FDRID, d.EuroDone, d.ObjectName, d.ObjectAddress, d.ObjectPhone,
		d.Model, d.CertificateNumber, d.CertificateExpiry, d.SerialNumber, d.FiscalMemory,
		d.NRAReportEnabled, d.NRAReportMonth, d.NRATD, d.BIMModel, d.BIMDate,
		d.MaintenancePrice, d.LastRenewedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update device: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un dispositivo por ID.
func (r *DeviceRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM devices WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete device: %w", err)
	}
	return nil
}

// DeleteByClient elimina todos los dispositivos del cliente (reimportación).
func (r *DeviceRepo) DeleteByClient(ctx context.Context, clientID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM devices WHERE client_id = $1`, clientID); err != nil {
		return fmt.Errorf("delete devices by client: %w", err)
	}
	return nil
}

// GetByID obtiene un dispositivo por ID.
func (r *DeviceRepo) GetByID(ctx context.Context, id string) (*entity.Device, error) {
	var d entity.Device
	err := r.q.QueryRow(ctx, `SELECT `+deviceColumns+` FROM devices d WHERE d.id = $1`, id).Scan(deviceDest(&d)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get device: %w", err)
	}
	return &d, nil
}

// GetWithClient dispositivo junto con su cliente.
func (r *DeviceRepo) GetWithClient(ctx context.Context, id string) (*entity.DeviceWithClient, error) {
	list, err := queryDevicesWithClient(ctx, r.q, `WHERE d.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// ListByClient dispositivos del cliente en orden de alta.
func (r *DeviceRepo) ListByClient(ctx context.Context, clientID string) ([]*entity.Device, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+deviceColumns+` FROM devices d WHERE d.client_id = $1 ORDER BY d.created_at, d.id`, clientID)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Device
	for rows.Next() {
		var d entity.Device
		if err := rows.Scan(deviceDest(&d)...); err != nil {
			return nil, fmt.Errorf("scan device: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// ListForNRAReport dispositivos con reporte habilitado, ordenados por contrato numérico.
func (r *DeviceRepo) ListForNRAReport(ctx context.Context) ([]*entity.DeviceWithClient, error) {
	return queryDevicesWithClient(ctx, r.q,
		`WHERE d.nra_report_enabled ORDER BY `+joinedContractOrder+`, d.created_at, d.id`)
}

// Search aplica los filtros no vacíos con ILIKE.
func (r *DeviceRepo) Search(ctx context.Context, f repository.DeviceFilter) ([]*entity.DeviceWithClient, error) {
	var (
		conds []string
		args  []any
	)
	add := func(expr string, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		args = append(args, likePattern(value))
		conds = append(conds, strings.ReplaceAll(expr, "?", fmt.Sprintf("$%d", len(args))))
	}
	add(`c.company_name ILIKE ?`, f.Company)
	add(`c.eik ILIKE ?`, f.EIK)
	add(`c.contract_number ILIKE ?`, f.Contract)
	add(`(c.phone1 ILIKE ? OR c.phone2 ILIKE ? OR d.object_phone ILIKE ?)`, f.Phone)
	add(`(c.address ILIKE ? OR d.object_address ILIKE ?)`, f.Address)
	add(`d.serial_number ILIKE ?`, f.Serial)
	if f.EuroOnly {
		conds = append(conds, `d.euro_done`)
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}
	return queryDevicesWithClient(ctx, r.q, where+` ORDER BY `+joinedContractOrder+`, d.created_at, d.id`, args...)
}

// queryDevicesWithClient ejecuta el SELECT devices JOIN clients con el sufijo dado.
func queryDevicesWithClient(ctx context.Context, q Querier, suffix string, args ...any) ([]*entity.DeviceWithClient, error) {
	query := `SELECT ` + joinedClientColumns + `, ` + deviceColumns + `
		FROM devices d JOIN clients c ON c.id = d.client_id ` + suffix
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query devices with client: %w", err)
	}
	defer rows.Close()

	var list []*entity.DeviceWithClient
	for rows.Next() {
		var dc entity.DeviceWithClient
		dest := append(clientDest(&dc.Client), deviceDest(&dc.Device)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan device with client: %w", err)
		}
		list = append(list, &dc)
	}
	return list, rows.Err()
}
