package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
	"github.com/jhoicas/fiskal-servis/internal/domain/repository"
)

var _ repository.CertificateRepository = (*CertificateRepo)(nil)

// CertificateRepo certificados BIM.
type CertificateRepo struct {
	q Querier
}

// NewCertificateRepository construye el adaptador.
func NewCertificateRepository(q Querier) *CertificateRepo {
	return &CertificateRepo{q: q}
}

// Upsert inserta o actualiza la fecha por número de certificado.
func (r *CertificateRepo) Upsert(ctx context.Context, c *entity.Certificate) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO certificates (id, number, expiry_date) VALUES ($1, $2, $3)
		ON CONFLICT (number) DO UPDATE SET expiry_date = EXCLUDED.expiry_date
		RETURNING id`,
		c.ID, c.Number, c.ExpiryDate,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("upsert certificate: %w", err)
	}
	return nil
}

// GetByNumber obtiene un certificado por número.
func (r *CertificateRepo) GetByNumber(ctx context.Context, number string) (*entity.Certificate, error) {
	var c entity.Certificate
	err := r.q.QueryRow(ctx, `SELECT id, number, expiry_date FROM certificates WHERE number = $1`, number).
		Scan(&c.ID, &c.Number, &c.ExpiryDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get certificate: %w", err)
	}
	return &c, nil
}

// List todos los certificados por número.
func (r *CertificateRepo) List(ctx context.Context) ([]*entity.Certificate, error) {
	rows, err := r.q.Query(ctx, `SELECT id, number, expiry_date FROM certificates ORDER BY number`)
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	defer rows.Close()
	var list []*entity.Certificate
	for rows.Next() {
		var c entity.Certificate
		if err := rows.Scan(&c.ID, &c.Number, &c.ExpiryDate); err != nil {
			return nil, fmt.Errorf("scan certificate: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Delete elimina un certificado por ID.
func (r *CertificateRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM certificates WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete certificate: %w", err)
	}
	return nil
}

// Clear elimina todos los certificados antes de una recarga completa.
func (r *CertificateRepo) Clear(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM certificates`); err != nil {
		return fmt.Errorf("clear certificates: %w", err)
	}
	return nil
}
