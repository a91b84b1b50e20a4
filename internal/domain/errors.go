package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Taxonomía de errores del núcleo (sin dependencias externas).
// Los handlers HTTP los traducen a códigos con errors.Is.
var (
	ErrUnauthenticated   = errors.New("no autenticado")
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrValidation        = errors.New("entrada inválida")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInvalidTransition = errors.New("transición de estado inválida")
	ErrInfrastructure    = errors.New("error de infraestructura")
	// ErrUpstream fallo del colaborador externo de redacción (IA); nunca afecta al estado.
	ErrUpstream          = errors.New("servicio externo no disponible")
)

// Errores derivados: conservan la categoría raíz vía %w.
var (
	ErrNoAgency           = fmt.Errorf("%w: el usuario no pertenece a ninguna agencia", ErrForbidden)
	ErrAgencyExists       = fmt.Errorf("%w: el usuario ya tiene una agencia", ErrConflict)
	ErrEmailAlreadyExists = fmt.Errorf("%w: el email ya está registrado", ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("%w: credenciales inválidas", ErrUnauthenticated)
)

// ValidationError agrupa los mensajes por campo de una validación fallida.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError construye un ValidationError con un único campo.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// TransitionError describe un cambio de estado rechazado por el grafo del ciclo de vida.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition.Error(), e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// Infra envuelve un fallo inesperado del almacenamiento para que no se confunda
// con la taxonomía de negocio.
func Infra(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrInfrastructure, err)
}
