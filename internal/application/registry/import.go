package registry

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/jhoicas/fiskal-servis/internal/application/dto"
	"github.com/jhoicas/fiskal-servis/internal/domain"
	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
	"github.com/jhoicas/fiskal-servis/internal/domain/repository"
)

// ImportWorkbook carga un libro heredado en una sola transacción. Un contrato
// que ya existe se actualiza y sus dispositivos se reemplazan por los del libro.
func (uc *RegistryUseCase) ImportWorkbook(ctx context.Context, actor entity.Actor, r io.Reader) (*dto.ImportResult, error) {
	contracts, err := uc.workbook.ReadContracts(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if len(contracts) == 0 {
		return nil, fmt.Errorf("%w: el libro no contiene contratos", domain.ErrInvalidInput)
	}

	var result dto.ImportResult
	err = uc.tx.RunImport(ctx, func(
		clients repository.ClientRepository,
		devices repository.DeviceRepository,
		audit repository.AuditRepository,
	) error {
		for _, c := range contracts {
			clientID, err := upsertClient(ctx, clients, devices, &c.Client)
			if err != nil {
				return fmt.Errorf("contrato %s: %w", c.Client.ContractNumber, err)
			}
			result.Clients++
			for i := range c.Devices {
				d := c.Devices[i]
				d.ID = uuid.New().String()
				d.ClientID = clientID
				if err := devices.Create(ctx, &d); err != nil {
					return fmt.Errorf("contrato %s, ФУ %s: %w", c.Client.ContractNumber, d.SerialNumber, err)
				}
				result.Devices++
			}
		}
		entry := actor.Audit(entity.ActionImportData,
			fmt.Sprintf("Импортирани %d записа (%d договора)", result.Devices, result.Clients))
		return audit.Log(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Int("clients", result.Clients).Int("devices", result.Devices).Msg("importación completada")
	return &result, nil
}

func upsertClient(ctx context.Context, clients repository.ClientRepository, devices repository.DeviceRepository, c *entity.Client) (string, error) {
	existing, err := clients.GetByContractNumber(ctx, c.ContractNumber)
	if err != nil {
		return "", err
	}
	if existing == nil {
		c.ID = uuid.New().String()
		return c.ID, clients.Create(ctx, c)
	}
	c.ID = existing.ID
	c.CreatedAt = existing.CreatedAt
	if err := clients.Update(ctx, c); err != nil {
		return "", err
	}
	return c.ID, devices.DeleteByClient(ctx, c.ID)
}
