package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/fiskal-servis/internal/domain"
	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
	"github.com/jhoicas/fiskal-servis/internal/domain/repository"
)

var _ repository.RepairRepository = (*RepairRepo)(nil)

// RepairRepo historial de reparaciones (repair_history).
type RepairRepo struct {
	q Querier
}

// NewRepairRepository construye el adaptador.
func NewRepairRepository(q Querier) *RepairRepo {
	return &RepairRepo{q: q}
}

// Create inserta el registro y devuelve el id asignado por BIGSERIAL.
func (r *RepairRepo) Create(ctx context.Context, rec *entity.RepairRecord) (int64, error) {
	err := r.q.QueryRow(ctx, `
		INSERT INTO repair_history (device_id, problem_description, repair_date, protocol_path)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		rec.DeviceID, rec.Problem, rec.RepairDate, rec.ProtocolPath,
	).Scan(&rec.ID)
	if err != nil {
		return 0, fmt.Errorf("insert repair record: %w", err)
	}
	return rec.ID, nil
}

// UpdateProtocolPath guarda la ruta del protocolo generado.
func (r *RepairRepo) UpdateProtocolPath(ctx context.Context, id int64, path string) error {
	tag, err := r.q.Exec(ctx, `UPDATE repair_history SET protocol_path = $2 WHERE id = $1`, id, path)
	if err != nil {
		return fmt.Errorf("update repair protocol path: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el registro; se usa cuando el protocolo no llega a generarse.
func (r *RepairRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM repair_history WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete repair record: %w", err)
	}
	return nil
}

// ListByDevice reparaciones del dispositivo, más reciente primero.
func (r *RepairRepo) ListByDevice(ctx context.Context, deviceID string) ([]*entity.RepairRecord, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, device_id, problem_description, repair_date, protocol_path
		FROM repair_history WHERE device_id = $1 ORDER BY repair_date DESC, id DESC`, deviceID)
	if err != nil {
		return nil, fmt.Errorf("list repairs: %w", err)
	}
	defer rows.Close()
	var list []*entity.RepairRecord
	for rows.Next() {
		var rec entity.RepairRecord
		if err := rows.Scan(&rec.ID, &rec.DeviceID, &rec.Problem, &rec.RepairDate, &rec.ProtocolPath); err != nil {
			return nil, fmt.Errorf("scan repair: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}
