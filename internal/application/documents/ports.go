package documents

import (
	"context"

	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
	"github.com/jhoicas/fiskal-servis/internal/domain/repository"
)

// PDFConverter convierte un .docx generado a PDF y devuelve la ruta del PDF.
type PDFConverter interface {
	ConvertToPDF(ctx context.Context, src string) (string, error)
}

// Repositories puertos que leen y escriben los generadores.
type Repositories struct {
	Clients      repository.ClientRepository
	Devices      repository.DeviceRepository
	Certificates repository.CertificateRepository
	Repairs      repository.RepairRepository
	Audit        repository.AuditRepository
}

// Templates nombres de archivo de las plantillas dentro de Config.TemplatesDir.
type Templates struct {
	ServiceContract string
	RegCert         string
	Dereg           string
	Repair          string
}

// Config rutas de plantillas y salida, y datos de la empresa de servicio.
type Config struct {
	TemplatesDir string
	OutputDir    string
	Templates    Templates
	Service      entity.ServiceCompany
}
