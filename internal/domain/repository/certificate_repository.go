package repository

import (
	"context"

	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
)

// CertificateRepository certificados BIM.
type CertificateRepository interface {
	Upsert(ctx context.Context, cert *entity.Certificate) error
	GetByNumber(ctx context.Context, number string) (*entity.Certificate, error)
	List(ctx context.Context) ([]*entity.Certificate, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}
