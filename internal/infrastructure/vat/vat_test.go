package vat_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fiskal-servis/internal/domain"
	"github.com/jhoicas/fiskal-servis/internal/infrastructure/vat"
	"github.com/jhoicas/fiskal-servis/pkg/logger"
)

const viesValid = `<?xml version="1.0" encoding="UTF-8"?>
<env:Envelope xmlns:env="http://schemas.xmlsoap.org/soap/envelope/">
  <env:Body>
    <ns2:checkVatResponse xmlns:ns2="urn:ec.europa.eu:taxud:vies:services:checkVat:types">
      <ns2:countryCode>BG</ns2:countryCode>
      <ns2:vatNumber>123456789</ns2:vatNumber>
      <ns2:valid>true</ns2:valid>
      <ns2:name>ТЕСТ ЕООД</ns2:name>
      <ns2:address>ул. Витоша 1,
гр. София 1000</ns2:address>
    </ns2:checkVatResponse>
  </env:Body>
</env:Envelope>`

const viesInvalid = `<env:Envelope xmlns:env="http://schemas.xmlsoap.org/soap/envelope/"><env:Body>
<ns2:checkVatResponse xmlns:ns2="urn:ec.europa.eu:taxud:vies:services:checkVat:types">
<ns2:valid>false</ns2:valid><ns2:name>---</ns2:name></ns2:checkVatResponse></env:Body></env:Envelope>`

const registryDeed = `{
  "companyName": "ТЕСТ",
  "legalForm": {"name": "ЕООД"},
  "sections": [{"subDeeds": [{"groups": [{"fields": [
    {"nameCode": "CR_F_7_L", "htmlData": "<p>ИВАН ПЕТРОВ ИВАНОВ, Държава: БЪЛГАРИЯ</p>"},
    {"nameCode": "CR_F_5_L", "htmlData": "<p>гр. София, р-н Триадица, ул. Витоша 1</p>"}
  ]}]}]}]
}`

func newServer(t *testing.T, vies, registry string, viesStatus, registryStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/vies", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "<tns:vatNumber>123456789</tns:vatNumber>")
		w.WriteHeader(viesStatus)
		_, _ = w.Write([]byte(vies))
	})
	mux.HandleFunc("/deeds/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/deeds/123456789", r.URL.Path)
		assert.Equal(t, "false", r.URL.Query().Get("loadFieldsFromAllLegalForms"))
		w.WriteHeader(registryStatus)
		_, _ = w.Write([]byte(registry))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLookup_VIESYRegistro(t *testing.T) {
	srv := newServer(t, viesValid, registryDeed, http.StatusOK, http.StatusOK)
	svc := vat.NewService(srv.URL+"/vies", srv.URL+"/deeds", 5*time.Second, logger.Nop())

	res, err := svc.Lookup(context.Background(), "BG123456789")
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, `"Тест" ЕООД`, res.Name)
	assert.Equal(t, "Иван Петров Иванов", res.MOL)
	assert.Equal(t, "София", res.City)
	assert.Equal(t, "1000", res.PostalCode)
	assert.Contains(t, res.Address, "Витоша 1")
	assert.True(t, strings.HasPrefix(res.Address, "р-н Триадица"))
}

func TestLookup_NoRegistradoUsaRegistro(t *testing.T) {
	srv := newServer(t, viesInvalid, registryDeed, http.StatusOK, http.StatusOK)
	svc := vat.NewService(srv.URL+"/vies", srv.URL+"/deeds", 5*time.Second, logger.Nop())

	res, err := svc.Lookup(context.Background(), "123456789")
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, `"Тест" ЕООД`, res.Name)
	assert.Equal(t, "София", res.City)
}

func TestLookup_SinFuentes(t *testing.T) {
	srv := newServer(t, "", "", http.StatusInternalServerError, http.StatusInternalServerError)
	svc := vat.NewService(srv.URL+"/vies", srv.URL+"/deeds", 5*time.Second, logger.Nop())

	_, err := svc.Lookup(context.Background(), "123456789")
	assert.True(t, errors.Is(err, domain.ErrLookupUnavailable))
}

func TestLookup_EIKVacio(t *testing.T) {
	svc := vat.NewService("http://127.0.0.1:1", "http://127.0.0.1:1", time.Second, logger.Nop())
	_, err := svc.Lookup(context.Background(), "BG")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
