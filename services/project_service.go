package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/models"
)

// ProjectRepository defines the storage operations the project service needs
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	GetBySlug(ctx context.Context, slug string) (*models.Project, error)
	List(ctx context.Context, filter models.ProjectFilter) ([]*models.Project, error)
	Paginate(ctx context.Context, filter models.ProjectFilter, page, pageSize int) ([]*models.Project, error)
	Count(ctx context.Context, filter models.ProjectFilter) (int64, error)
	Search(ctx context.Context, query string, filter models.ProjectFilter) ([]*models.Project, error)
	Update(ctx context.Context, id uuid.UUID, patch models.ProjectPatch) (*models.Project, error)
	SoftDelete(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	IncrementViewCount(ctx context.Context, id uuid.UUID) (bool, error)
}

var _ ProjectRepository = (*database.ProjectRepo)(nil)

var errFeatureUnpublished = &ValidationError{Field: "is_featured", Message: "Project must be published before it can be featured"}

type ProjectStatistics struct {
	Total     int64 `json:"total"`
	Published int64 `json:"published"`
	Featured  int64 `json:"featured"`
}

type ProjectService struct {
	repo   ProjectRepository
	logger zerolog.Logger
}

func NewProjectService(repo ProjectRepository) *ProjectService {
	return &ProjectService{
		repo:   repo,
		logger: log.With().Str("service", "projectService").Logger(),
	}
}

// CreateProjectInput carries every field settable when a project is created
type CreateProjectInput struct {
	Title         string
	Description   string
	Problem       string
	Process       string
	Impact        string
	Results       string
	Slug          string
	Technologies  []string
	Skills        []string
	Category      *string
	Status        *string
	StartDate     *time.Time
	EndDate       *time.Time
	LiveDemoURL   *string
	GithubURL     *string
	ProjectImage  *string
	GalleryImages []string
	DisplayOrder  int
	IsPublished   bool
	IsFeatured    bool
}

func (s *ProjectService) Create(ctx context.Context, in CreateProjectInput) (*models.Project, error) {
	slug := strings.TrimSpace(in.Slug)
	if err := validateProject(in.Title, in.Description, in.Problem, in.Process, in.Impact, in.Results, slug); err != nil {
		return nil, err
	}
	if err := validateProjectReferences(in.Category, in.Status, in.LiveDemoURL, in.GithubURL, in.ProjectImage); err != nil {
		return nil, err
	}
	if err := validateDates(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}
	if in.IsFeatured && !in.IsPublished {
		return nil, errFeatureUnpublished
	}

	if err := s.ensureSlugFree(ctx, slug, uuid.Nil); err != nil {
		return nil, err
	}

	project := &models.Project{
		Title:         strings.TrimSpace(in.Title),
		Description:   strings.TrimSpace(in.Description),
		Problem:       strings.TrimSpace(in.Problem),
		Process:       strings.TrimSpace(in.Process),
		Impact:        strings.TrimSpace(in.Impact),
		Results:       strings.TrimSpace(in.Results),
		Slug:          slug,
		Technologies:  cleanList(in.Technologies),
		Skills:        cleanList(in.Skills),
		Category:      in.Category,
		Status:        in.Status,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		LiveDemoURL:   in.LiveDemoURL,
		GithubURL:     in.GithubURL,
		ProjectImage:  in.ProjectImage,
		GalleryImages: cleanList(in.GalleryImages),
		DisplayOrder:  in.DisplayOrder,
		IsPublished:   in.IsPublished,
		IsFeatured:    in.IsFeatured,
	}
	if err := s.repo.Create(ctx, project); err != nil {
		if field, ok := uniqueField(err); ok {
			return nil, conflict(field, "A project with this slug already exists")
		}
		return nil, err
	}
	s.logger.Info().Str("id", project.ID.String()).Msg("project created")
	return project, nil
}

// Update applies a patch. Unpublishing clears the featured flag; asking for a
// featured but unpublished project is rejected.
func (s *ProjectService) Update(ctx context.Context, id uuid.UUID, patch models.ProjectPatch) (*models.Project, error) {
	patch, err := normalizeProjectPatch(patch)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil || current == nil {
		return nil, err
	}

	merged := *current
	patch.Apply(&merged)
	if err := validateDates(merged.StartDate, merged.EndDate); err != nil {
		return nil, err
	}
	if merged.IsFeatured && !merged.IsPublished {
		if patch.IsFeatured != nil && *patch.IsFeatured {
			return nil, errFeatureUnpublished
		}
		notFeatured := false
		patch.IsFeatured = &notFeatured
	}

	if patch.Slug != nil && *patch.Slug != current.Slug {
		if err := s.ensureSlugFree(ctx, *patch.Slug, id); err != nil {
			return nil, err
		}
	}

	project, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if field, ok := uniqueField(err); ok {
			return nil, conflict(field, "A project with this slug already exists")
		}
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Publish(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	published := true
	return s.repo.Update(ctx, id, models.ProjectPatch{IsPublished: &published})
}

// Unpublish also clears the featured flag
func (s *ProjectService) Unpublish(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	off := false
	return s.repo.Update(ctx, id, models.ProjectPatch{IsPublished: &off, IsFeatured: &off})
}

// Feature requires the project to be published
func (s *ProjectService) Feature(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil || current == nil {
		return nil, err
	}
	if !current.IsPublished {
		return nil, errFeatureUnpublished
	}
	featured := true
	return s.repo.Update(ctx, id, models.ProjectPatch{IsFeatured: &featured})
}

func (s *ProjectService) Unfeature(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	featured := false
	return s.repo.Update(ctx, id, models.ProjectPatch{IsFeatured: &featured})
}

// SoftDelete hides the project from listings; it stays reachable by id
func (s *ProjectService) SoftDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.SoftDelete(ctx, id)
}

// HardDelete removes the project permanently
func (s *ProjectService) HardDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.Delete(ctx, id)
}

// Get returns the project by id, including soft deleted ones
func (s *ProjectService) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return s.repo.GetByID(ctx, id)
}

// GetBySlug returns a non-deleted project
func (s *ProjectService) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	project, err := s.repo.GetBySlug(ctx, strings.TrimSpace(slug))
	if err != nil || project == nil || project.IsDeleted {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) ListAll(ctx context.Context) ([]*models.Project, error) {
	return s.repo.List(ctx, models.ProjectFilter{})
}

func (s *ProjectService) ListPublished(ctx context.Context) ([]*models.Project, error) {
	return s.repo.List(ctx, models.ProjectFilter{PublishedOnly: true})
}

func (s *ProjectService) ListFeatured(ctx context.Context) ([]*models.Project, error) {
	return s.repo.List(ctx, models.ProjectFilter{FeaturedOnly: true})
}

// ListByTechnology returns published projects tagged with technology
func (s *ProjectService) ListByTechnology(ctx context.Context, technology string) ([]*models.Project, error) {
	tech := strings.TrimSpace(technology)
	if tech == "" {
		return nil, invalid("technology", "Technology name must not be empty")
	}
	return s.repo.List(ctx, models.ProjectFilter{PublishedOnly: true, Technology: tech})
}

// Search matches title, description and problem of non-deleted projects
func (s *ProjectService) Search(ctx context.Context, query, technology string, publishedOnly bool) ([]*models.Project, error) {
	q, err := ValidateSearchQuery(query)
	if err != nil {
		return nil, err
	}
	return s.repo.Search(ctx, q, models.ProjectFilter{
		PublishedOnly: publishedOnly,
		Technology:    strings.TrimSpace(technology),
	})
}

// List returns one page of non-deleted projects
func (s *ProjectService) List(ctx context.Context, page, pageSize int, publishedOnly bool) (*Page[models.Project], error) {
	if err := ValidatePagination(page, pageSize); err != nil {
		return nil, err
	}
	filter := models.ProjectFilter{PublishedOnly: publishedOnly}
	items, err := s.repo.Paginate(ctx, filter, page, pageSize)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &Page[models.Project]{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

// Display returns the public shape of a published, non-deleted project
func (s *ProjectService) Display(ctx context.Context, id uuid.UUID) (*models.ProjectDisplay, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil || project == nil || !project.IsPublished || project.IsDeleted {
		return nil, err
	}
	d := project.Display()
	return &d, nil
}

func (s *ProjectService) PublishedDisplay(ctx context.Context) ([]models.ProjectDisplay, error) {
	projects, err := s.ListPublished(ctx)
	if err != nil {
		return nil, err
	}
	return displays(projects), nil
}

func (s *ProjectService) FeaturedDisplay(ctx context.Context) ([]models.ProjectDisplay, error) {
	projects, err := s.ListFeatured(ctx)
	if err != nil {
		return nil, err
	}
	return displays(projects), nil
}

// RecordView increments the view counter; it reports false for unknown or deleted projects
func (s *ProjectService) RecordView(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.IncrementViewCount(ctx, id)
}

func (s *ProjectService) Statistics(ctx context.Context) (*ProjectStatistics, error) {
	total, err := s.repo.Count(ctx, models.ProjectFilter{})
	if err != nil {
		return nil, err
	}
	published, err := s.repo.Count(ctx, models.ProjectFilter{PublishedOnly: true})
	if err != nil {
		return nil, err
	}
	featured, err := s.repo.Count(ctx, models.ProjectFilter{FeaturedOnly: true})
	if err != nil {
		return nil, err
	}
	return &ProjectStatistics{Total: total, Published: published, Featured: featured}, nil
}

func (s *ProjectService) ensureSlugFree(ctx context.Context, slug string, self uuid.UUID) error {
	existing, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return conflict("project_slug", "Project slug '%s' already exists", slug)
	}
	return nil
}

func validateProject(title, description, problem, process, impact, results, slug string) error {
	checks := []struct {
		field, label, value string
		min, max            int
	}{
		{"title", "Title", title, minTitleLength, maxTitleLength},
		{"description", "Description", description, minNarrativeLength, 0},
		{"problem", "Problem statement", problem, minNarrativeLength, 0},
		{"process", "Process description", process, minNarrativeLength, 0},
		{"impact", "Impact description", impact, minNarrativeLength, 0},
		{"results", "Results", results, minResultsLength, 0},
		{"project_slug", "Project slug", slug, minSlugLength, maxSlugLength},
	}
	for _, c := range checks {
		if err := validateLength(c.field, c.label, c.value, c.min, c.max); err != nil {
			return err
		}
	}
	return nil
}

// normalizeProjectPatch validates a patch and returns a copy with trimmed
// strings and cleaned lists. The caller's values are left untouched.
func normalizeProjectPatch(p models.ProjectPatch) (models.ProjectPatch, error) {
	out := p
	checks := []struct {
		field, label string
		value        *string
		dst          **string
		min, max     int
	}{
		{"title", "Title", p.Title, &out.Title, minTitleLength, maxTitleLength},
		{"description", "Description", p.Description, &out.Description, minNarrativeLength, 0},
		{"problem", "Problem statement", p.Problem, &out.Problem, minNarrativeLength, 0},
		{"process", "Process description", p.Process, &out.Process, minNarrativeLength, 0},
		{"impact", "Impact description", p.Impact, &out.Impact, minNarrativeLength, 0},
		{"results", "Results", p.Results, &out.Results, minResultsLength, 0},
		{"project_slug", "Project slug", p.Slug, &out.Slug, minSlugLength, maxSlugLength},
	}
	for _, c := range checks {
		if c.value == nil {
			continue
		}
		if err := validateLength(c.field, c.label, *c.value, c.min, c.max); err != nil {
			return models.ProjectPatch{}, err
		}
		trimmed := strings.TrimSpace(*c.value)
		*c.dst = &trimmed
	}
	if err := validateProjectReferences(p.Category, p.Status, p.LiveDemoURL, p.GithubURL, p.ProjectImage); err != nil {
		return models.ProjectPatch{}, err
	}

	lists := []struct {
		value *[]string
		dst   **[]string
	}{
		{p.Technologies, &out.Technologies},
		{p.Skills, &out.Skills},
		{p.GalleryImages, &out.GalleryImages},
	}
	for _, l := range lists {
		if l.value != nil {
			cleaned := cleanList(*l.value)
			*l.dst = &cleaned
		}
	}
	return out, nil
}

// validateProjectReferences checks optional short fields against their column widths
func validateProjectReferences(category, status, liveDemoURL, githubURL, projectImage *string) error {
	checks := []struct {
		field, label string
		value        *string
		max          int
	}{
		{"category", "Category", category, maxCategoryLength},
		{"status", "Status", status, maxCategoryLength},
		{"live_demo_url", "Live demo URL", liveDemoURL, maxReferenceLength},
		{"github_url", "GitHub URL", githubURL, maxReferenceLength},
		{"project_image", "Project image", projectImage, maxReferenceLength},
	}
	for _, c := range checks {
		if err := validateMaxLength(c.field, c.label, c.value, c.max); err != nil {
			return err
		}
	}
	return nil
}

func validateDates(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return invalid("end_date", "End date must not be before start date")
	}
	return nil
}

// cleanList trims entries and drops blanks, never returning nil
func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func displays(projects []*models.Project) []models.ProjectDisplay {
	out := make([]models.ProjectDisplay, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.Display())
	}
	return out
}
