package repository

import (
	"errors"

	"github.com/lib/pq"
)

// Sentinel errors shared by all Record Store repositories. Handlers map these
// to HTTP statuses; everything else is surfaced as a generic backend failure.
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrHasVisitNotes  = errors.New("registrant has visit notes")
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation
}
