package nra

import (
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
	"github.com/jhoicas/fiskal-servis/internal/domain/placeholder"
)

// Declaración 44a2 para la NAP: comunica la baja/actualización de un dispositivo
// fiscal por parte de la empresa de servicio.
const (
	nsDec44a2     = "http://inetdec.nra.bg/xsd/dec_44a2.xsd"
	nsXsi         = "http://www.w3.org/2001/XMLSchema-instance"
	authorizeCode = "1"
	requestCode   = "5"
)

// DeclarationFileName NAP_YYYYMMDD_HHMMSS.xml
func DeclarationFileName(now time.Time) string {
	return "NAP_" + now.Format("20060102_150405") + ".xml"
}

// BuildDeclaration genera el XML dec44a2 codificado en Windows-1251.
func BuildDeclaration(service entity.ServiceCompany, clientEIK, fdrid string) ([]byte, error) {
	if strings.TrimSpace(fdrid) == "" {
		return nil, fmt.Errorf("nap xml: fdrid vacío")
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="WINDOWS-1251"`)

	root := doc.CreateElement("dec44a2")
	root.CreateAttr("xmlns", nsDec44a2)
	root.CreateAttr("xmlns:xsi", nsXsi)
	root.CreateAttr("schemaLocation", nsDec44a2+" "+nsDec44a2)

	text := func(tag, value string) {
		root.CreateElement(tag).SetText(placeholder.Sanitize(value))
	}
	text("name", declarantName(service.Name))
	text("bulstat", strings.TrimSpace(service.EIK))
	text("telcode", service.Phone1)
	text("telnum", service.Phone2)
	text("authorizeid", service.TechEGN)
	text("autorizecode", authorizeCode)
	text("fname", service.TechFirstName)
	text("sname", service.TechMiddleName)
	text("tname", service.TechLastName)
	text("id", strings.TrimSpace(clientEIK))
	text("code", requestCode)

	row := root.CreateElement("fuiasutd").CreateElement("rowenum")
	row.CreateElement("fdrid").SetText(placeholder.Sanitize(strings.TrimSpace(fdrid)))

	doc.Indent(2)
	out, err := doc.WriteToString()
	if err != nil {
		return nil, fmt.Errorf("nap xml: serializar: %w", err)
	}
	return EncodeWindows1251(out), nil
}

// declarantName en mayúsculas y sin comillas.
func declarantName(name string) string {
	name = strings.NewReplacer(`"`, "", "'", "", "„", "", "“", "").Replace(name)
	return strings.ToUpper(strings.TrimSpace(name))
}
