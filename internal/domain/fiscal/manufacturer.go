package fiscal

import "strings"

// Manufacturer productor de dispositivos fiscales (aparece en el protocolo de baja).
type Manufacturer struct {
	Key  string
	Name string
	EIK  string
	City string
	// SerialPrefixes prefijos del número de serie para inferir el fabricante.
	SerialPrefixes []string
}

// Manufacturers fabricantes conocidos.
var Manufacturers = []Manufacturer{
	{Key: "Дейзи", Name: `"Дейзи Тех" АД`, EIK: "201679556", City: "София", SerialPrefixes: []string{"DY", "SY"}},
	{Key: "Датекс", Name: `"Датекс" ООД`, EIK: "000713391", City: "София", SerialPrefixes: []string{"DT"}},
	{Key: "Тремол", Name: `"Тремол" ООД`, EIK: "104593442", City: "Велико Търново", SerialPrefixes: []string{"ZK", "TR", "TE"}},
}

// ManufacturerFor selección explícita (por Key) o, si está vacía, inferencia por prefijo del serial.
func ManufacturerFor(selection, serial string) (Manufacturer, bool) {
	selection = strings.TrimSpace(selection)
	for _, m := range Manufacturers {
		if selection != "" {
			if m.Key == selection {
				return m, true
			}
			continue
		}
		for _, p := range m.SerialPrefixes {
			if strings.HasPrefix(serial, p) {
				return m, true
			}
		}
	}
	return Manufacturer{}, false
}
