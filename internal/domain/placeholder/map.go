package placeholder

// Map mapa ordenado marcador → valor. El orden de inserción es el orden de aplicación.
type Map struct {
	keys   []string
	values map[string]string
}

// NewMap crea un mapa vacío.
func NewMap() *Map {
	return &Map{values: make(map[string]string)}
}

// Set agrega o sobrescribe un marcador; al sobrescribir conserva la posición original.
func (m *Map) Set(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get devuelve el valor del marcador.
func (m *Map) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys marcadores en orden de inserción.
func (m *Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len cantidad de marcadores.
func (m *Map) Len() int { return len(m.keys) }

// ApplyAll aplica cada marcador con ReplaceEverywhereAll y devuelve los que se encontraron.
func ApplyAll(doc Document, m *Map) []string {
	var found []string
	for _, k := range m.keys {
		if ReplaceEverywhereAll(doc, k, m.values[k]) {
			found = append(found, k)
		}
	}
	return found
}

// ApplyOnce igual que ApplyAll pero solo la primera aparición de cada marcador.
func ApplyOnce(doc Document, m *Map) []string {
	var found []string
	for _, k := range m.keys {
		if ReplaceEverywhereOnce(doc, k, m.values[k]) {
			found = append(found, k)
		}
	}
	return found
}
