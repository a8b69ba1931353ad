package repository

import (
	"context"

	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client.
// Los métodos Get devuelven (nil, nil) cuando no hay fila.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	Update(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	GetByContractNumber(ctx context.Context, contractNumber string) (*entity.Client, error)
	ListContractNumbers(ctx context.Context) ([]string, error)
	// NextContractNumber devuelve el mayor número de contrato numérico + 1.
	NextContractNumber(ctx context.Context) (string, error)
	// ListExpiring lista dispositivos cuyo contrato vence en el mes/año indicado.
	ListExpiring(ctx context.Context, month, year int) ([]*entity.DeviceWithClient, error)
}
