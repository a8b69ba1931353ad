package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fiskal-servis/internal/domain"
	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
	"github.com/jhoicas/fiskal-servis/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación de ClientRepository (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientColumns = `id, contract_number, status, contract_start, contract_expiry, company_name,
	city, postal_code, address, eik, vat_registered, mol, phone1, phone2, created_at, updated_at`

func clientArgs(c *entity.Client) []any {
	return []any{
		c.ID, c.ContractNumber, c.Status, c.ContractStart, c.ContractExpiry, c.CompanyName,
		c.City, c.PostalCode, c.Address, c.EIK, c.VatRegistered, c.MOL, c.Phone1, c.Phone2,
		c.CreatedAt, c.UpdatedAt,
	}
}

func clientDest(c *entity.Client) []any {
	return []any{
		&c.ID, &c.ContractNumber, &c.Status, &c.ContractStart, &c.ContractExpiry, &c.CompanyName,
		&c.City, &c.PostalCode, &c.Address, &c.EIK, &c.VatRegistered, &c.MOL, &c.Phone1, &c.Phone2,
		&c.CreatedAt, &c.UpdatedAt,
	}
}

// Create persiste un nuevo cliente.
func (r *ClientRepo) Create(ctx context.Context, client *entity.Client) error {
	touch(&client.CreatedAt, &client.UpdatedAt)
	query := `INSERT INTO clients (` + clientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	if _, err := r.q.Exec(ctx, query, clientArgs(client)...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// Update actualiza todos los campos editables del cliente.
func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	touch(&c.CreatedAt, &c.UpdatedAt)
	query := `
		UPDATE clients SET contract_number = $2, status = $3, contract_start = $4, contract_expiry = $5,
			company_name = $6, city = $7, postal_code = $8, address = $9, eik = $10, vat_registered = $11,
			mol = $12, phone1 = $13, phone2 = $14, updated_at = $15
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.ContractNumber, c.Status, c.ContractStart, c.ContractExpiry, c.CompanyName,
		c.City, c.PostalCode, c.Address, c.EIK, c.VatRegistered, c.MOL, c.Phone1, c.Phone2, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el cliente; sus dispositivos caen por ON DELETE CASCADE.
func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	return r.getOne(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)
}

// GetByContractNumber obtiene un cliente por número de contrato.
func (r *ClientRepo) GetByContractNumber(ctx context.Context, contractNumber string) (*entity.Client, error) {
	return r.getOne(ctx, `SELECT `+clientColumns+` FROM clients WHERE contract_number = $1`, contractNumber)
}

func (r *ClientRepo) getOne(ctx context.Context, query, arg string) (*entity.Client, error) {
	var c entity.Client
	if err := r.q.QueryRow(ctx, query, arg).Scan(clientDest(&c)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &c, nil
}

// ListContractNumbers números de contrato en orden numérico (los no numéricos al final).
func (r *ClientRepo) ListContractNumbers(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT contract_number FROM clients ORDER BY `+contractOrder)
	if err != nil {
		return nil, fmt.Errorf("list contract numbers: %w", err)
	}
	defer rows.Close()
	var list []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan contract number: %w", err)
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

// NextContractNumber mayor número de contrato numérico + 1 ("1" si no hay ninguno).
func (r *ClientRepo) NextContractNumber(ctx context.Context) (string, error) {
	var max int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(MAX(contract_number::BIGINT), 0)
		FROM clients WHERE contract_number ~ '^[0-9]{1,18}$'`).Scan(&max)
	if err != nil {
		return "", fmt.Errorf("next contract number: %w", err)
	}
	return strconv.FormatInt(max+1, 10), nil
}

// ListExpiring dispositivos cuyo contrato vence en month/year, por fecha de vencimiento.
func (r *ClientRepo) ListExpiring(ctx context.Context, month, year int) ([]*entity.DeviceWithClient, error) {
	prefix := fmt.Sprintf("%04d-%02d-%%", year, month)
	return queryDevicesWithClient(ctx, r.q,
		`WHERE c.contract_expiry LIKE $1 ORDER BY c.contract_expiry, `+joinedContractOrder+`, d.created_at`, prefix)
}

// contractOrder orden numérico de contract_number con los no numéricos al final.
const contractOrder = `CASE WHEN contract_number ~ '^[0-9]{1,18}$' THEN contract_number::BIGINT END NULLS LAST, contract_number`

const joinedContractOrder = `CASE WHEN c.contract_number ~ '^[0-9]{1,18}$' THEN c.contract_number::BIGINT END NULLS LAST, c.contract_number`
