// Package repository contains data access logic separated from HTTP handlers.
// This file defines error values reused across repositories.  These sentinel
// values let higher layers distinguish failure scenarios without string
// matching: ErrNotFound maps to HTTP 404, ErrForbidden to 403 when a caller
// touches a resource owned by someone else.
package repository

import "errors"

// ErrNotFound is returned when a row does not exist or is filtered out
// (e.g. an unpublished showcase requested by a non-owner, an inactive user).
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.
var ErrForbidden = errors.New("forbidden")
