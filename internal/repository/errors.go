// Package repository implements data access over the four forum tables.
// Sentinel errors defined here let handlers distinguish failure scenarios:
// ErrUsernameTaken maps to HTTP 409, while a plain sql.ErrNoRows from a
// lookup maps to 404 or 401 depending on the endpoint.
package repository

import "errors"

// ErrUsernameTaken is returned when account creation hits the unique
// constraint on users.username. Handlers should translate this into an
// HTTP 409 response without touching the existing record.
var ErrUsernameTaken = errors.New("username already exists")
