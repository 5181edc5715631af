// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres, memory) inside this directory.
// Missing rows are reported as sql.ErrNoRows by every implementation.
package repository

import "errors"

var (
	// ErrVersionConflict means the row changed since it was read.
	ErrVersionConflict = errors.New("version conflict")
	// ErrDuplicate means a unique key is already taken.
	ErrDuplicate = errors.New("duplicate record")
)

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
