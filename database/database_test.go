package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-backend/errs"
)

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1, 10))
	assert.Equal(t, 10, Offset(2, 10))
	assert.Equal(t, 40, Offset(3, 20))
	assert.Equal(t, 0, Offset(0, 10))
}

func TestWindowPagesAreDisjointAndContiguous(t *testing.T) {
	total := 25
	s1, e1 := Window(total, 1, 10)
	s2, e2 := Window(total, 2, 10)
	s, e := Window(total, 1, 20)

	assert.Equal(t, [2]int{0, 10}, [2]int{s1, e1})
	assert.Equal(t, [2]int{10, 20}, [2]int{s2, e2})
	assert.Equal(t, [2]int{0, 20}, [2]int{s, e})
	assert.Equal(t, e1, s2)

	s, e = Window(total, 3, 10)
	assert.Equal(t, [2]int{20, 25}, [2]int{s, e})
	s, e = Window(total, 9, 10)
	assert.Equal(t, [2]int{25, 25}, [2]int{s, e})
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%go%", likePattern("go"))
	assert.Equal(t, `%50\%\_off%`, likePattern("50%_off"))
}

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_accounts_email"}

	assert.True(t, IsUniqueViolation(pgErr))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", pgErr)))
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("duplicate key")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestWriteErrorClassification(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_accounts_email"}
	err := writeError("create", accountsTable, "account", pgErr)
	assert.True(t, errs.IsUniqueConstraintViolationError(err))

	var apiErr *errs.ApiErr
	assert.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "email", apiErr.Field)

	err = writeError("create", accountsTable, "account", errors.New("connection reset"))
	assert.False(t, errs.IsUniqueConstraintViolationError(err))
	assert.ErrorIs(t, err, errs.ErrDatabaseQuery)
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "postgres://u@h/db", DSN(map[string]string{"DATABASE_URL": "postgres://u@h/db"}))
	assert.Equal(t,
		"host=db user=app password=pw dbname=portfolio port=5433 sslmode=disable",
		DSN(map[string]string{"DB_HOST": "db", "DB_USER": "app", "DB_PASSWORD": "pw", "DB_PORT": "5433", "DB_SSLMODE": "disable"}),
	)
}
