package registry

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/fiskal-servis/internal/application/dto"
	"github.com/jhoicas/fiskal-servis/internal/domain"
	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
	"github.com/jhoicas/fiskal-servis/internal/domain/repository"
)

// ListCertificates certificados BIM por número.
func (uc *RegistryUseCase) ListCertificates(ctx context.Context) ([]dto.CertificateDTO, error) {
	list, err := uc.repos.Certificates.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CertificateDTO, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CertificateDTO{ID: c.ID, Number: c.Number, ExpiryDate: c.ExpiryDate})
	}
	return out, nil
}

// UpsertCertificate crea o actualiza la fecha de un certificado.
func (uc *RegistryUseCase) UpsertCertificate(ctx context.Context, in dto.CertificateDTO) (*dto.CertificateDTO, error) {
	number := strings.TrimSpace(in.Number)
	if number == "" {
		return nil, fmt.Errorf("%w: number requerido", domain.ErrInvalidInput)
	}
	cert := &entity.Certificate{ID: uuid.New().String(), Number: number, ExpiryDate: strings.TrimSpace(in.ExpiryDate)}
	if err := uc.repos.Certificates.Upsert(ctx, cert); err != nil {
		return nil, err
	}
	return &dto.CertificateDTO{ID: cert.ID, Number: cert.Number, ExpiryDate: cert.ExpiryDate}, nil
}

// DeleteCertificate elimina un certificado por ID.
func (uc *RegistryUseCase) DeleteCertificate(ctx context.Context, id string) error {
	return uc.repos.Certificates.Delete(ctx, id)
}

// ImportCertificates reemplaza la tabla de certificados con el libro BIM.
// Devuelve la cantidad cargada.
func (uc *RegistryUseCase) ImportCertificates(ctx context.Context, actor entity.Actor, r io.Reader) (int, error) {
	certs, err := uc.workbook.ReadCertificates(r)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	err = uc.tx.RunCertificates(ctx, func(repo repository.CertificateRepository) error {
		if err := repo.Clear(ctx); err != nil {
			return err
		}
		for _, c := range certs {
			c.ID = uuid.New().String()
			if err := repo.Upsert(ctx, c); err != nil {
				return fmt.Errorf("certificado %s: %w", c.Number, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	uc.log.Info().Int("count", len(certs)).Str("by", actor.Username).Msg("certificados BIM cargados")
	return len(certs), nil
}
