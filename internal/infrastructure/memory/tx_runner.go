package memory

import (
	"context"

	"github.com/jhoicas/fiskal-servis/internal/application/registry"
	"github.com/jhoicas/fiskal-servis/internal/domain/repository"
)

var _ registry.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta fn sobre el mismo Store. No hay rollback: un error a mitad
// deja aplicados los cambios previos.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(s *Store) *TxRunner { return &TxRunner{s: s} }

func (r *TxRunner) RunImport(_ context.Context, fn func(
	clients repository.ClientRepository,
	devices repository.DeviceRepository,
	audit repository.AuditRepository,
) error) error {
	return fn(r.s.Clients(), r.s.Devices(), r.s.Audit())
}

func (r *TxRunner) RunCertificates(_ context.Context, fn func(certs repository.CertificateRepository) error) error {
	return fn(r.s.Certificates())
}
