package office_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fiskal-servis/internal/domain"
	"github.com/jhoicas/fiskal-servis/internal/infrastructure/office"
)

// fakeSoffice script que imita soffice: crea <outdir>/<base>.pdf.
const fakeSoffice = `#!/bin/sh
while [ $# -gt 1 ]; do
  if [ "$1" = "--outdir" ]; then out="$2"; fi
  shift
done
src="$1"
base=$(basename "$src" .docx)
echo pdf > "$out/$base.pdf"
`

func TestConvertToPDF(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requiere sh")
	}
	dir := t.TempDir()
	bin := filepath.Join(dir, "soffice")
	require.NoError(t, os.WriteFile(bin, []byte(fakeSoffice), 0o755))
	src := filepath.Join(dir, "RegCert_1.docx")
	require.NoError(t, os.WriteFile(src, []byte("docx"), 0o644))

	dst, err := office.NewConverter(bin).ConvertToPDF(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "RegCert_1.pdf"), dst)
	assert.FileExists(t, dst)
}

func TestConvertToPDF_BinarioFalla(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requiere sh")
	}
	dir := t.TempDir()
	src := filepath.Join(dir, "a.docx")
	require.NoError(t, os.WriteFile(src, []byte("docx"), 0o644))

	_, err := office.NewConverter("false").ConvertToPDF(context.Background(), src)
	assert.True(t, errors.Is(err, domain.ErrConversionFailed))
}

func TestConvertToPDF_SinOrigen(t *testing.T) {
	_, err := office.NewConverter("").ConvertToPDF(context.Background(), filepath.Join(t.TempDir(), "x.docx"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
