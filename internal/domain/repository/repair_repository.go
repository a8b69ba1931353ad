package repository

import (
	"context"

	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
)

// RepairRepository historial de reparaciones por dispositivo.
type RepairRepository interface {
	// Create persiste el registro y devuelve su ID (número de protocolo).
	Create(ctx context.Context, record *entity.RepairRecord) (int64, error)
	UpdateProtocolPath(ctx context.Context, id int64, path string) error
	Delete(ctx context.Context, id int64) error
	ListByDevice(ctx context.Context, deviceID string) ([]*entity.RepairRecord, error)
}
