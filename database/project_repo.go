package database

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

const projectsTable = "projects"

type ProjectRepo struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{
		db:     db,
		logger: log.With().Str("repo", "projectRepo").Logger(),
	}
}

func (r *ProjectRepo) Create(ctx context.Context, project *models.Project) error {
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return writeError("create", projectsTable, "project", err)
	}
	r.logger.Info().Str("id", project.ID.String()).Str("slug", project.Slug).Msg("project created")
	return nil
}

// GetByID returns the project even when it is soft deleted
func (r *ProjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return first[models.Project](ctx, r.db, "project", "id = ?", id)
}

// GetBySlug returns the project even when it is soft deleted
func (r *ProjectRepo) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	return first[models.Project](ctx, r.db, "project", "project_slug = ?", slug)
}

// List returns non-deleted matching projects by display order, then newest first
func (r *ProjectRepo) List(ctx context.Context, filter models.ProjectFilter) ([]*models.Project, error) {
	q, err := r.query(ctx, filter)
	if err != nil {
		return nil, err
	}
	var projects []*models.Project
	if err := q.Order(projectOrder).Find(&projects).Error; err != nil {
		return nil, errs.NewDatabaseError("list", "projects", err)
	}
	return projects, nil
}

func (r *ProjectRepo) Paginate(ctx context.Context, filter models.ProjectFilter, page, pageSize int) ([]*models.Project, error) {
	q, err := r.query(ctx, filter)
	if err != nil {
		return nil, err
	}
	var projects []*models.Project
	err = q.Order(projectOrder).Scopes(paginate(page, pageSize)).Find(&projects).Error
	if err != nil {
		return nil, errs.NewDatabaseError("paginate", "projects", err)
	}
	return projects, nil
}

func (r *ProjectRepo) Count(ctx context.Context, filter models.ProjectFilter) (int64, error) {
	q, err := r.query(ctx, filter)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, errs.NewDatabaseError("count", "projects", err)
	}
	return count, nil
}

// Search matches q against title, description and problem within the filtered set
func (r *ProjectRepo) Search(ctx context.Context, q string, filter models.ProjectFilter) ([]*models.Project, error) {
	query, err := r.query(ctx, filter)
	if err != nil {
		return nil, err
	}
	pattern := likePattern(q)
	var projects []*models.Project
	err = query.
		Where("(title ILIKE ? OR description ILIKE ? OR problem ILIKE ?)", pattern, pattern, pattern).
		Order(projectOrder).
		Find(&projects).Error
	if err != nil {
		return nil, errs.NewDatabaseError("search", "projects", err)
	}
	return projects, nil
}

func (r *ProjectRepo) Update(ctx context.Context, id uuid.UUID, patch models.ProjectPatch) (*models.Project, error) {
	return updateByID[models.Project](ctx, r.db, r.logger, projectsTable, "project", id, patch.ToUpdates())
}

// SoftDelete flags the project as deleted and reports whether it exists
func (r *ProjectRepo) SoftDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", id).Update("is_deleted", true)
	if res.Error != nil {
		return false, errs.NewDatabaseError("soft delete", "project", res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	r.logger.Info().Str("id", id.String()).Msg("project soft deleted")
	return true, nil
}

// Delete removes the row permanently
func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return deleteByID[models.Project](ctx, r.db, r.logger, "project", id)
}

// IncrementViewCount bumps the counter of a non-deleted project in place
func (r *ProjectRepo) IncrementViewCount(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ? AND is_deleted = ?", id, false).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if res.Error != nil {
		return false, errs.NewDatabaseError("record view for", "project", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *ProjectRepo) query(ctx context.Context, filter models.ProjectFilter) (*gorm.DB, error) {
	q := r.db.WithContext(ctx).Model(&models.Project{}).Where("is_deleted = ?", false)
	if filter.PublishedOnly || filter.FeaturedOnly {
		q = q.Where("is_published = ?", true)
	}
	if filter.FeaturedOnly {
		q = q.Where("is_featured = ?", true)
	}
	if filter.Technology != "" {
		contains, err := json.Marshal([]string{filter.Technology})
		if err != nil {
			return nil, errs.NewDatabaseError("filter", "projects", err)
		}
		q = q.Where("technologies @> ?::jsonb", string(contains))
	}
	return q, nil
}
