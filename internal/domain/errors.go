// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrDomainUnresolved indicates the request hostname matches no configured tenant.
var ErrDomainUnresolved = errors.New("domain unresolved")

// ErrValidation indicates a request failed input validation.
var ErrValidation = errors.New("validation failed")

// ErrContentUnavailable indicates the content store could not be reached in time.
var ErrContentUnavailable = errors.New("content unavailable")
