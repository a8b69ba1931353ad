package repository

import (
	"context"

	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
)

// AuditRepository historial de acciones.
type AuditRepository interface {
	Log(ctx context.Context, entry *entity.AuditLog) error
	ListByContract(ctx context.Context, contractNumber string) ([]*entity.AuditLog, error)
	ListByDevice(ctx context.Context, deviceID string) ([]*entity.AuditLog, error)
}
