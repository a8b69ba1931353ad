package entity

// ServiceCompany datos de la empresa de servicio técnico (emisora de los reportes NRA
// y de las declaraciones NAP) y de su técnico autorizado.
type ServiceCompany struct {
	EIK            string
	Name           string
	City           string
	Address        string
	Phone1         string
	Phone2         string
	TechEGN        string
	TechFirstName  string
	TechMiddleName string
	TechLastName   string
}
