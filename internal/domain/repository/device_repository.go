package repository

import (
	"context"

	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
)

// DeviceRepository define el puerto de persistencia para Device.
type DeviceRepository interface {
	Create(ctx context.Context, device *entity.Device) error
	Update(ctx context.Context, device *entity.Device) error
	Delete(ctx context.Context, id string) error
	DeleteByClient(ctx context.Context, clientID string) error
	GetByID(ctx context.Context, id string) (*entity.Device, error)
	GetWithClient(ctx context.Context, id string) (*entity.DeviceWithClient, error)
	ListByClient(ctx context.Context, clientID string) ([]*entity.Device, error)
	// ListForNRAReport devuelve los dispositivos con reporte NRA habilitado,
	// ordenados por número de contrato (numérico) y luego por dispositivo.
	ListForNRAReport(ctx context.Context) ([]*entity.DeviceWithClient, error)
	// Search filtra por subcadena sin distinguir mayúsculas; los campos vacíos no filtran.
	Search(ctx context.Context, filter DeviceFilter) ([]*entity.DeviceWithClient, error)
}

// DeviceFilter criterios de búsqueda del registro.
type DeviceFilter struct {
	Company  string
	EIK      string
	Contract string
	Phone    string // teléfonos del cliente y del objeto
	Address  string // dirección del cliente y del objeto
	Serial   string
	EuroOnly bool
}
