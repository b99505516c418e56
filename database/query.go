package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"github.com/rpupo63/portfolio-backend/errs"
)

// first returns the first matching row, or nil when nothing matches
func first[T any](ctx context.Context, db *gorm.DB, entity string, query string, args ...any) (*T, error) {
	var row T
	err := db.WithContext(ctx).Where(query, args...).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("get", entity, err)
	}
	return &row, nil
}

// updateByID applies updates to one row and returns it reloaded, or nil when
// no row has that id
func updateByID[T any](ctx context.Context, db *gorm.DB, logger zerolog.Logger, table, entity string, id uuid.UUID, updates map[string]any) (*T, error) {
	if len(updates) > 0 {
		res := db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, writeError("update", table, entity, res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, nil
		}
		columns := make([]string, 0, len(updates))
		for column := range updates {
			columns = append(columns, column)
		}
		logger.Info().Str("id", id.String()).Strs("columns", columns).Msgf("%s updated", entity)
	}
	return first[T](ctx, db.Clauses(dbresolver.Write), entity, "id = ?", id)
}

// deleteByID hard deletes one row and reports whether it existed
func deleteByID[T any](ctx context.Context, db *gorm.DB, logger zerolog.Logger, entity string, id uuid.UUID) (bool, error) {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return false, errs.NewDatabaseError("delete", entity, res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	logger.Info().Str("id", id.String()).Msgf("%s deleted", entity)
	return true, nil
}
