package registry

import (
	"context"
	"io"

	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
	"github.com/jhoicas/fiskal-servis/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
type TxRunner interface {
	RunImport(ctx context.Context, fn func(
		clients repository.ClientRepository,
		devices repository.DeviceRepository,
		audit repository.AuditRepository,
	) error) error
	RunCertificates(ctx context.Context, fn func(certs repository.CertificateRepository) error) error
}

// WorkbookReader lee libros Excel heredados.
type WorkbookReader interface {
	ReadContracts(r io.Reader) ([]*entity.Contract, error)
	ReadCertificates(r io.Reader) ([]*entity.Certificate, error)
}
