package nra

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile escribe el reporte de forma atómica: archivo temporal en el mismo
// directorio y luego rename. Ante error no queda un fiskal.ser parcial.
func WriteFile(path string, payload []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".fiskal-*.tmp")
	if err != nil {
		return fmt.Errorf("Грешка при запис на fiskal.ser: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("Грешка при запис на fiskal.ser: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("Грешка при запис на fiskal.ser: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("Грешка при запис на fiskal.ser: %w", err)
	}
	return nil
}
