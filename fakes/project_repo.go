package fakes

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

type ProjectRepo struct {
	mu       sync.Mutex
	projects map[uuid.UUID]models.Project
	clock    *clock

	// Err, when set, is returned by every operation
	Err error
}

func NewProjectRepo() *ProjectRepo {
	return &ProjectRepo{projects: make(map[uuid.UUID]models.Project), clock: newClock()}
}

func (r *ProjectRepo) Create(_ context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, p := range r.projects {
		if p.Slug == project.Slug {
			return errs.NewUniqueConstraintViolationError("project", "project_slug", nil)
		}
	}
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	now := r.clock.next()
	project.CreatedAt = now
	project.UpdatedAt = now
	r.projects[project.ID] = *project
	return nil
}

func (r *ProjectRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	if p, ok := r.projects[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r *ProjectRepo) GetBySlug(_ context.Context, slug string) (*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, p := range r.projects {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *ProjectRepo) List(_ context.Context, filter models.ProjectFilter) ([]*models.Project, error) {
	return r.filtered(filter, nil)
}

func (r *ProjectRepo) Paginate(_ context.Context, filter models.ProjectFilter, pageNum, pageSize int) ([]*models.Project, error) {
	all, err := r.filtered(filter, nil)
	if err != nil {
		return nil, err
	}
	return page(all, pageNum, pageSize), nil
}

func (r *ProjectRepo) Count(_ context.Context, filter models.ProjectFilter) (int64, error) {
	all, err := r.filtered(filter, nil)
	return int64(len(all)), err
}

func (r *ProjectRepo) Search(_ context.Context, q string, filter models.ProjectFilter) ([]*models.Project, error) {
	return r.filtered(filter, func(p models.Project) bool {
		return containsFold(p.Title, q) || containsFold(p.Description, q) || containsFold(p.Problem, q)
	})
}

func (r *ProjectRepo) Update(_ context.Context, id uuid.UUID, patch models.ProjectPatch) (*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	p, ok := r.projects[id]
	if !ok {
		return nil, nil
	}
	if patch.Slug != nil {
		for otherID, other := range r.projects {
			if otherID != id && other.Slug == *patch.Slug {
				return nil, errs.NewUniqueConstraintViolationError("project", "project_slug", nil)
			}
		}
	}
	patch.Apply(&p)
	p.UpdatedAt = r.clock.next()
	r.projects[id] = p
	return &p, nil
}

func (r *ProjectRepo) SoftDelete(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}
	p, ok := r.projects[id]
	if !ok {
		return false, nil
	}
	p.IsDeleted = true
	r.projects[id] = p
	return true, nil
}

func (r *ProjectRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}
	if _, ok := r.projects[id]; !ok {
		return false, nil
	}
	delete(r.projects, id)
	return true, nil
}

func (r *ProjectRepo) IncrementViewCount(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}
	p, ok := r.projects[id]
	if !ok || p.IsDeleted {
		return false, nil
	}
	p.ViewCount++
	r.projects[id] = p
	return true, nil
}

// filtered excludes deleted projects and orders by display order, then newest first
func (r *ProjectRepo) filtered(filter models.ProjectFilter, match func(models.Project) bool) ([]*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := []*models.Project{}
	for _, p := range r.projects {
		if p.IsDeleted {
			continue
		}
		if (filter.PublishedOnly || filter.FeaturedOnly) && !p.IsPublished {
			continue
		}
		if filter.FeaturedOnly && !p.IsFeatured {
			continue
		}
		if filter.Technology != "" && !p.HasTechnology(filter.Technology) {
			continue
		}
		if match != nil && !match(p) {
			continue
		}
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}
