package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrUpstream            = errors.New("fallo del proveedor externo")
	ErrUnknownPackage      = errors.New("paquete de créditos desconocido")
	ErrPriceNotConfigured  = errors.New("precio no configurado para el paquete")
	ErrInvalidSignature    = errors.New("firma de webhook inválida")
	ErrInsufficientCredits = errors.New("créditos insuficientes")
)
