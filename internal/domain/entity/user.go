package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User operador del sistema.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FullName     string
	Role         string // admin, user
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor usuario autenticado que ejecuta una acción; queda en el historial.
// Vacío para los procesos por lotes.
type Actor struct {
	UserID   string
	Username string
}
