package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	pkgerrors "usuarios-api/pkg/errors"
)

// uniqueViolationCode is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a unique constraint violation.
// With gorm's TranslateError enabled the driver error arrives as
// gorm.ErrDuplicatedKey; otherwise it is the raw *pgconn.PgError.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// translateError maps store failures onto domain errors. The only unique
// constraint on usuarios besides the primary key is email, so every
// uniqueness failure is reported as a duplicate email. Unrecognized errors
// are returned unchanged.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return pkgerrors.ErrEmailAlreadyRegistered
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.ErrUserNotFound
	}
	return err
}
