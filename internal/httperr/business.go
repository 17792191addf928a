package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Kind classifies a business failure so handlers can pick the right
// HTTP status without matching individual codes.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindConflict
	KindInvalidState
	KindDependency
)

type BusinessError struct {
	Kind Kind
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrValidation(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func ErrNotFound(code string) error {
	return BusinessError{Kind: KindNotFound, Code: code}
}

func ErrConflict(code string) error {
	return BusinessError{Kind: KindConflict, Code: code}
}

func ErrInvalidState(code string) error {
	return BusinessError{Kind: KindInvalidState, Code: code}
}

func ErrDependency(code string) error {
	return BusinessError{Kind: KindDependency, Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func BusinessKind(err error) (Kind, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind, true
	}
	return 0, false
}

// IsUniqueViolation reports whether err is a postgres unique-constraint
// violation (SQLSTATE 23505). The booking slot index relies on this to
// turn a lost insert race into a conflict instead of a 500.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
