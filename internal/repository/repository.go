// Package repository contains the persistence interfaces for the document
// subsystem. Implementations live in subpackages (postgres, mongo) and
// translate their backend's not-found condition into ErrNotFound so the
// service layer stays backend-agnostic.
package repository

import "errors"

// ErrNotFound is returned when a row matching the query does not exist or
// is soft-deleted. Implementations wrap or return it directly; callers test
// with errors.Is.
var ErrNotFound = errors.New("record not found")
