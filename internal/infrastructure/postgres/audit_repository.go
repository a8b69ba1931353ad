package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
	"github.com/jhoicas/fiskal-servis/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo historial de acciones en audit_logs.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador.
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Log inserta una entrada; UserID vacío se guarda como NULL.
func (r *AuditRepo) Log(ctx context.Context, e *entity.AuditLog) error {
	var userID any
	if e.UserID != "" {
		userID = e.UserID
	}
	err := r.q.QueryRow(ctx, `
		INSERT INTO audit_logs (user_id, username, action, details, contract_number, device_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, timestamp`,
		userID, e.Username, e.Action, e.Details, e.ContractNumber, e.DeviceID,
	).Scan(&e.ID, &e.Timestamp)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// ListByContract historial del contrato, más reciente primero.
func (r *AuditRepo) ListByContract(ctx context.Context, contractNumber string) ([]*entity.AuditLog, error) {
	return r.list(ctx, `WHERE contract_number = $1`, contractNumber)
}

// ListByDevice historial del dispositivo, más reciente primero.
func (r *AuditRepo) ListByDevice(ctx context.Context, deviceID string) ([]*entity.AuditLog, error) {
	return r.list(ctx, `WHERE device_id = $1`, deviceID)
}

func (r *AuditRepo) list(ctx context.Context, where, arg string) ([]*entity.AuditLog, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, COALESCE(user_id::TEXT, ''), username, action, details, contract_number, device_id, timestamp
		FROM audit_logs `+where+` ORDER BY timestamp DESC, id DESC`, arg)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditLog
	for rows.Next() {
		var e entity.AuditLog
		if err := rows.Scan(&e.ID, &e.UserID, &e.Username, &e.Action, &e.Details, &e.ContractNumber, &e.DeviceID, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
