package domain

import "errors"

// ErrDeclarationNotFound is returned when a package does not contain a
// declaration with the requested name.
var ErrDeclarationNotFound = errors.New("declaration not found")

// ErrFragmentNotFound is returned when a configuration does not carry a
// fragment with the requested name.
var ErrFragmentNotFound = errors.New("configuration fragment not found")
