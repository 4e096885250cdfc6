package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrDuplicateEmail    = errors.New("duplicate email")
)

const pgUniqueViolation = "23505"

const (
	uxAccountsUsername = "ux_accounts_username_lower"
	uxAccountsEmail    = "ux_accounts_email_lower"
)

// mapAccountUniqueViolation turns a unique index violation on accounts into
// the matching duplicate error. Other errors pass through unchanged.
func mapAccountUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return err
	}
	switch {
	case pgErr.ConstraintName == uxAccountsUsername, strings.Contains(pgErr.ConstraintName, "username"):
		return ErrDuplicateUsername
	case pgErr.ConstraintName == uxAccountsEmail, strings.Contains(pgErr.ConstraintName, "email"):
		return ErrDuplicateEmail
	}
	return err
}
