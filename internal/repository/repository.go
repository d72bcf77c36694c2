// Package repository declares persistence contracts for the domain models.
// Implementations live in subpackages (see postgres) and contain no business rules.
package repository

import "errors"

var (
	// ErrNotFound is returned (possibly wrapped) when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned by UserRepository.Create when the email is taken.
	ErrDuplicateEmail = errors.New("email already registered")
)

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
