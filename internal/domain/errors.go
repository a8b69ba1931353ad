package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrUsernameExists    = errors.New("el usuario ya está registrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrMissingTemplate   = errors.New("plantilla no encontrada")
	ErrNoDevices         = errors.New("el contrato no tiene dispositivos")
	ErrConversionFailed  = errors.New("conversión a PDF fallida")
	ErrLookupUnavailable = errors.New("servicio de consulta no disponible")
)
