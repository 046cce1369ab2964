package entity

import "time"

// Product entrada del catálogo de productos (colaborador externo del kardex).
// El kardex solo consume código y descripción canónica.
type Product struct {
	Code           string
	Description    string
	NormalizedDesc string // descripción plegada para la búsqueda exacta
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
