// Package office convierte documentos .docx a PDF con LibreOffice en modo headless.
package office

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/jhoicas/fiskal-servis/internal/domain"
)

// Converter ejecuta `soffice --headless --convert-to pdf`.
type Converter struct {
	binary string
}

// NewConverter binary es la ruta o el nombre en PATH de soffice/libreoffice.
func NewConverter(binary string) *Converter {
	if binary == "" {
		binary = "soffice"
	}
	return &Converter{binary: binary}
}

// ConvertToPDF genera el PDF junto al archivo de origen y devuelve su ruta.
func (c *Converter) ConvertToPDF(ctx context.Context, src string) (string, error) {
	if _, err := os.Stat(src); err != nil {
		return "", fmt.Errorf("office: %w", err)
	}
	outDir := filepath.Dir(src)
	cmd := exec.CommandContext(ctx, c.binary, "--headless", "--convert-to", "pdf", "--outdir", outDir, src)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: %v: %s", domain.ErrConversionFailed, err, strings.TrimSpace(stderr.String()))
	}

	dst := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))+".pdf")
	if _, err := os.Stat(dst); err != nil {
		return "", fmt.Errorf("%w: no se generó %s", domain.ErrConversionFailed, dst)
	}
	return dst, nil
}
