package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Project represents a portfolio entry written as problem, process, impact and results
type Project struct {
	ID            uuid.UUID                   `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Title         string                      `json:"title" db:"title" gorm:"type:varchar(255);not null;index"`
	Description   string                      `json:"description" db:"description" gorm:"type:text;not null"`
	Problem       string                      `json:"problem" db:"problem" gorm:"type:text;not null"`
	Process       string                      `json:"process" db:"process" gorm:"type:text;not null"`
	Impact        string                      `json:"impact" db:"impact" gorm:"type:text;not null"`
	Results       string                      `json:"results" db:"results" gorm:"type:text;not null"`
	Slug          string                      `json:"project_slug" db:"project_slug" gorm:"column:project_slug;type:varchar(255);not null;uniqueIndex:idx_projects_slug"`
	Technologies  datatypes.JSONSlice[string] `json:"technologies" db:"technologies" gorm:"type:jsonb;not null;default:'[]'"`
	Skills        datatypes.JSONSlice[string] `json:"skills" db:"skills" gorm:"type:jsonb;not null;default:'[]'"`
	Category      *string                     `json:"category" db:"category" gorm:"type:varchar(100)"`
	Status        *string                     `json:"status" db:"status" gorm:"type:varchar(100)"`
	StartDate     *time.Time                  `json:"start_date" db:"start_date" gorm:"type:timestamptz"`
	EndDate       *time.Time                  `json:"end_date" db:"end_date" gorm:"type:timestamptz"`
	LiveDemoURL   *string                     `json:"live_demo_url" db:"live_demo_url" gorm:"type:varchar(500)"`
	GithubURL     *string                     `json:"github_url" db:"github_url" gorm:"type:varchar(500)"`
	ProjectImage  *string                     `json:"project_image" db:"project_image" gorm:"type:varchar(500)"`
	GalleryImages datatypes.JSONSlice[string] `json:"gallery_images" db:"gallery_images" gorm:"type:jsonb;not null;default:'[]'"`
	DisplayOrder  int                         `json:"display_order" db:"display_order" gorm:"type:integer;not null;default:0;index"`
	ViewCount     int                         `json:"view_count" db:"view_count" gorm:"type:integer;not null;default:0"`
	IsPublished   bool                        `json:"is_published" db:"is_published" gorm:"not null;default:false;index"`
	IsFeatured    bool                        `json:"is_featured" db:"is_featured" gorm:"not null;default:false"`
	IsDeleted     bool                        `json:"-" db:"is_deleted" gorm:"not null;default:false;index"`
	CreatedAt     time.Time                   `json:"created_at" db:"created_at" gorm:"type:timestamptz;not null;autoCreateTime"`
	UpdatedAt     time.Time                   `json:"updated_at" db:"updated_at" gorm:"type:timestamptz;not null;autoUpdateTime"`
}

// ProjectPatch lists the project fields an edit may change. Soft deletion and
// the view counter have dedicated operations.
type ProjectPatch struct {
	Title         *string    `json:"title,omitempty"`
	Description   *string    `json:"description,omitempty"`
	Problem       *string    `json:"problem,omitempty"`
	Process       *string    `json:"process,omitempty"`
	Impact        *string    `json:"impact,omitempty"`
	Results       *string    `json:"results,omitempty"`
	Slug          *string    `json:"project_slug,omitempty"`
	Technologies  *[]string  `json:"technologies,omitempty"`
	Skills        *[]string  `json:"skills,omitempty"`
	Category      *string    `json:"category,omitempty"`
	Status        *string    `json:"status,omitempty"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	LiveDemoURL   *string    `json:"live_demo_url,omitempty"`
	GithubURL     *string    `json:"github_url,omitempty"`
	ProjectImage  *string    `json:"project_image,omitempty"`
	GalleryImages *[]string  `json:"gallery_images,omitempty"`
	DisplayOrder  *int       `json:"display_order,omitempty"`
	IsPublished   *bool      `json:"is_published,omitempty"`
	IsFeatured    *bool      `json:"is_featured,omitempty"`
}

// ToUpdates returns the column/value pairs present in the patch
func (p ProjectPatch) ToUpdates() map[string]any {
	updates := make(map[string]any)
	setString := func(column string, v *string) {
		if v != nil {
			updates[column] = *v
		}
	}
	setList := func(column string, v *[]string) {
		if v != nil {
			updates[column] = datatypes.NewJSONSlice(nonNil(*v))
		}
	}

	setString("title", p.Title)
	setString("description", p.Description)
	setString("problem", p.Problem)
	setString("process", p.Process)
	setString("impact", p.Impact)
	setString("results", p.Results)
	setString("project_slug", p.Slug)
	setList("technologies", p.Technologies)
	setList("skills", p.Skills)
	setString("category", p.Category)
	setString("status", p.Status)
	setString("live_demo_url", p.LiveDemoURL)
	setString("github_url", p.GithubURL)
	setString("project_image", p.ProjectImage)
	setList("gallery_images", p.GalleryImages)
	if p.StartDate != nil {
		updates["start_date"] = *p.StartDate
	}
	if p.EndDate != nil {
		updates["end_date"] = *p.EndDate
	}
	if p.DisplayOrder != nil {
		updates["display_order"] = *p.DisplayOrder
	}
	if p.IsPublished != nil {
		updates["is_published"] = *p.IsPublished
	}
	if p.IsFeatured != nil {
		updates["is_featured"] = *p.IsFeatured
	}
	return updates
}

// Apply copies the patch onto an in-memory project
func (p ProjectPatch) Apply(pr *Project) {
	copyString := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	copyOptional := func(dst **string, v *string) {
		if v != nil {
			s := *v
			*dst = &s
		}
	}

	copyString(&pr.Title, p.Title)
	copyString(&pr.Description, p.Description)
	copyString(&pr.Problem, p.Problem)
	copyString(&pr.Process, p.Process)
	copyString(&pr.Impact, p.Impact)
	copyString(&pr.Results, p.Results)
	copyString(&pr.Slug, p.Slug)
	copyOptional(&pr.Category, p.Category)
	copyOptional(&pr.Status, p.Status)
	copyOptional(&pr.LiveDemoURL, p.LiveDemoURL)
	copyOptional(&pr.GithubURL, p.GithubURL)
	copyOptional(&pr.ProjectImage, p.ProjectImage)
	if p.Technologies != nil {
		pr.Technologies = datatypes.NewJSONSlice(nonNil(*p.Technologies))
	}
	if p.Skills != nil {
		pr.Skills = datatypes.NewJSONSlice(nonNil(*p.Skills))
	}
	if p.GalleryImages != nil {
		pr.GalleryImages = datatypes.NewJSONSlice(nonNil(*p.GalleryImages))
	}
	if p.StartDate != nil {
		t := *p.StartDate
		pr.StartDate = &t
	}
	if p.EndDate != nil {
		t := *p.EndDate
		pr.EndDate = &t
	}
	if p.DisplayOrder != nil {
		pr.DisplayOrder = *p.DisplayOrder
	}
	if p.IsPublished != nil {
		pr.IsPublished = *p.IsPublished
	}
	if p.IsFeatured != nil {
		pr.IsFeatured = *p.IsFeatured
	}
}

// ProjectDisplay is the public shape of a published project
type ProjectDisplay struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Problem       string    `json:"problem"`
	Process       string    `json:"process"`
	Impact        string    `json:"impact"`
	Results       string    `json:"results"`
	Technologies  []string  `json:"technologies"`
	Skills        []string  `json:"skills"`
	LiveDemoURL   *string   `json:"live_demo_url"`
	GithubURL     *string   `json:"github_url"`
	ProjectImage  *string   `json:"project_image"`
	GalleryImages []string  `json:"gallery_images"`
	Slug          string    `json:"project_slug"`
	IsFeatured    bool      `json:"is_featured"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Display returns the public shape of the project
func (p *Project) Display() ProjectDisplay {
	return ProjectDisplay{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		Problem:       p.Problem,
		Process:       p.Process,
		Impact:        p.Impact,
		Results:       p.Results,
		Technologies:  nonNil(p.Technologies),
		Skills:        nonNil(p.Skills),
		LiveDemoURL:   p.LiveDemoURL,
		GithubURL:     p.GithubURL,
		ProjectImage:  p.ProjectImage,
		GalleryImages: nonNil(p.GalleryImages),
		Slug:          p.Slug,
		IsFeatured:    p.IsFeatured,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// HasTechnology reports whether tech is listed on the project
func (p *Project) HasTechnology(tech string) bool {
	for _, t := range p.Technologies {
		if t == tech {
			return true
		}
	}
	return false
}

// ProjectFilter narrows project listings. Deleted projects are always excluded.
type ProjectFilter struct {
	PublishedOnly bool
	FeaturedOnly  bool
	Technology    string
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
