package vat

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/beevik/etree"
)

const (
	soapNS = "http://schemas.xmlsoap.org/soap/envelope/"
	viesNS = "urn:ec.europa.eu:taxud:vies:services:checkVat:types"
)

// ViesResult respuesta de checkVat.
type ViesResult struct {
	Valid   bool
	Name    string
	Address string
}

// ── Estructuras SOAP ──────────────────────────────────────────────────────────

type soapEnvelope struct {
	XMLName xml.Name `xml:"soapenv:Envelope"`
	XmlnsS  string   `xml:"xmlns:soapenv,attr"`
	XmlnsT  string   `xml:"xmlns:tns,attr"`
	Body    soapBody `xml:"soapenv:Body"`
}

type soapBody struct {
	CheckVat checkVatBody `xml:"tns:checkVat"`
}

type checkVatBody struct {
	CountryCode string `xml:"tns:countryCode"`
	VatNumber   string `xml:"tns:vatNumber"`
}

// ViesClient cliente SOAP del servicio VIES de la Comisión Europea.
type ViesClient struct {
	url        string
	httpClient *http.Client
}

// NewViesClient construye el cliente; el timeout lo da httpClient.
func NewViesClient(url string, httpClient *http.Client) *ViesClient {
	return &ViesClient{url: url, httpClient: httpClient}
}

// CheckVat consulta el número de ДДС búlgaro "BG"+eik.
func (c *ViesClient) CheckVat(ctx context.Context, eik string) (*ViesResult, error) {
	payload, err := xml.MarshalIndent(soapEnvelope{
		XmlnsS: soapNS,
		XmlnsT: viesNS,
		Body:   soapBody{CheckVat: checkVatBody{CountryCode: "BG", VatNumber: eik}},
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("vies: serializar envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url,
		bytes.NewReader(append([]byte(xml.Header), payload...)))
	if err != nil {
		return nil, fmt.Errorf("vies: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("vies: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("vies: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vies: HTTP %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // max 1 MB
	if err != nil {
		return nil, fmt.Errorf("vies: leer respuesta: %w", err)
	}
	return parseViesResponse(raw)
}

// parseViesResponse busca valid/name/address en cualquier nivel, ignorando prefijos.
func parseViesResponse(raw []byte) (*ViesResult, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("vies: parsear XML: %w", err)
	}
	if fault := doc.FindElement("//faultstring"); fault != nil {
		return nil, fmt.Errorf("vies: fault: %s", strings.TrimSpace(fault.Text()))
	}

	res := &ViesResult{}
	if v := doc.FindElement("//valid"); v != nil {
		res.Valid = strings.TrimSpace(v.Text()) == "true"
	}
	if !res.Valid {
		return res, nil
	}
	if n := doc.FindElement("//name"); n != nil {
		res.Name = cleanViesText(n.Text())
	}
	if a := doc.FindElement("//address"); a != nil {
		res.Address = cleanViesText(strings.ReplaceAll(a.Text(), "\n", " "))
	}
	return res, nil
}

// VIES devuelve "---" cuando el dato no es público.
func cleanViesText(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "---" {
		return ""
	}
	return s
}
