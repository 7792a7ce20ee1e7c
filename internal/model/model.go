// Package model contains the resource types served by the generic CRUD layers.
// The generic layers only rely on Entity; every other field is opaque to them.
package model

// Entity is implemented by resource values. WithID returns a copy carrying id so
// the data-access layer can assign identifiers without reflection.
type Entity[T any] interface {
	GetID() string
	WithID(id string) T
}
