package entity

// Contract cliente con sus dispositivos, tal como llega de una importación.
type Contract struct {
	Client  Client
	Devices []Device
}
