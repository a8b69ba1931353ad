package dto

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/fiskal-servis/internal/domain/entity"
)

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"omitempty,max=200"`
	Role     string `json:"role" validate:"omitempty,oneof=admin user"`
}

// Validate aplica las reglas de las etiquetas validate.
func (r *CreateUserRequest) Validate() error {
	var errs []error
	if n := len(strings.TrimSpace(r.Username)); n < 3 || n > 50 {
		errs = append(errs, fmt.Errorf("username: entre 3 y 50 caracteres"))
	}
	if len(r.Password) < 8 {
		errs = append(errs, fmt.Errorf("password: mínimo 8 caracteres"))
	}
	if r.Role != "" && r.Role != entity.RoleAdmin && r.Role != entity.RoleUser {
		errs = append(errs, fmt.Errorf("role: debe ser admin o user"))
	}
	return errors.Join(errs...)
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
