package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-backend/errs"
)

const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a storage-level unique constraint failure
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// violatedColumn recovers the column from index names such as idx_accounts_email
func violatedColumn(table string, err error) string {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.ConstraintName == "" {
		return ""
	}
	return strings.TrimPrefix(pgErr.ConstraintName, "idx_"+table+"_")
}

// writeError classifies a failed insert or update
func writeError(operation, table, entity string, err error) error {
	if IsUniqueViolation(err) {
		return errs.NewUniqueConstraintViolationError(entity, violatedColumn(table, err), err)
	}
	return errs.NewDatabaseError(operation, entity, err)
}
