package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
)

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	projects  *services.ProjectService
}

func newProjectHandler(projects *services.ProjectService, envelope string) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger, envelope),
		logger:    logger,
		projects:  projects,
	}
}

// CreateProjectRequest is the body of a project creation
type CreateProjectRequest struct {
	Title         string     `json:"title" example:"Portfolio site"`
	Description   string     `json:"description"`
	Problem       string     `json:"problem"`
	Process       string     `json:"process"`
	Impact        string     `json:"impact"`
	Results       string     `json:"results"`
	Slug          string     `json:"project_slug" example:"portfolio-site"`
	Technologies  []string   `json:"technologies,omitempty" example:"Go,Postgres"`
	Skills        []string   `json:"skills,omitempty"`
	Category      *string    `json:"category,omitempty"`
	Status        *string    `json:"status,omitempty"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	LiveDemoURL   *string    `json:"live_demo_url,omitempty"`
	GithubURL     *string    `json:"github_url,omitempty"`
	ProjectImage  *string    `json:"project_image,omitempty"`
	GalleryImages []string   `json:"gallery_images,omitempty"`
	DisplayOrder  int        `json:"display_order,omitempty"`
	IsPublished   bool       `json:"is_published,omitempty"`
	IsFeatured    bool       `json:"is_featured,omitempty"`
}

// listProjects returns one page of non-deleted projects
// @Summary List projects
// @Tags Projects
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(10)
// @Param published_only query bool false "Only published projects" default(true)
// @Success 200 {object} ListResponse[models.Project] "Projects"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid pagination"
// @Router /projects [get]
func (h projectHandler) listProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, pageSize, err := pageParams(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		publishedOnly, err := boolParam(r, "published_only", true)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		result, err := h.projects.List(r.Context(), page, pageSize, publishedOnly)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.Respond(w, http.StatusOK, "Projects retrieved successfully", newListResponse(result))
	}
}

// createProject creates a new project
// @Summary Create project
// @Description Creates a project. A featured project must also be published.
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body CreateProjectRequest true "Project data"
// @Success 201 {object} models.Project "Created project"
// @Failure 400 {object} ErrorResponse "Bad Request - Validation failed or slug taken"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateProjectRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := requireFields(
			requiredField{"title", req.Title != ""},
			requiredField{"description", req.Description != ""},
			requiredField{"problem", req.Problem != ""},
			requiredField{"process", req.Process != ""},
			requiredField{"impact", req.Impact != ""},
			requiredField{"results", req.Results != ""},
			requiredField{"project_slug", req.Slug != ""},
		); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.Create(r.Context(), services.CreateProjectInput{
			Title:         req.Title,
			Description:   req.Description,
			Problem:       req.Problem,
			Process:       req.Process,
			Impact:        req.Impact,
			Results:       req.Results,
			Slug:          req.Slug,
			Technologies:  req.Technologies,
			Skills:        req.Skills,
			Category:      req.Category,
			Status:        req.Status,
			StartDate:     req.StartDate,
			EndDate:       req.EndDate,
			LiveDemoURL:   req.LiveDemoURL,
			GithubURL:     req.GithubURL,
			ProjectImage:  req.ProjectImage,
			GalleryImages: req.GalleryImages,
			DisplayOrder:  req.DisplayOrder,
			IsPublished:   req.IsPublished,
			IsFeatured:    req.IsFeatured,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.Respond(w, http.StatusCreated, "Project created successfully", project)
	}
}

// getProject retrieves a project by ID, soft deleted ones included
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} models.Project "Project details"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /projects/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := pathID(r, "projectID", "project")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.Get(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.respondProject(w, project, "Project retrieved successfully")
	}
}

// getProjectBySlug retrieves a non-deleted project by slug
// @Summary Get project by slug
// @Tags Projects
// @Produce json
// @Param slug path string true "Project slug"
// @Success 200 {object} models.Project "Project details"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /projects/slug/{slug} [get]
func (h projectHandler) getProjectBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := h.projects.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.respondProject(w, project, "Project retrieved successfully")
	}
}

// updateProject changes project fields. PUT requires every narrative field
// and the slug; PATCH accepts any subset.
// @Summary Update project
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param project body models.ProjectPatch true "Fields to change"
// @Success 200 {object} models.Project "Updated project"
// @Failure 400 {object} ErrorResponse "Bad Request - Validation failed or slug taken"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /projects/{projectID} [put]
// @Router /projects/{projectID} [patch]
func (h projectHandler) updateProject(full bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := pathID(r, "projectID", "project")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var patch models.ProjectPatch
		if err := decodeJSON(w, r, &patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if full {
			if err := requireFields(
				requiredField{"title", patch.Title != nil},
				requiredField{"description", patch.Description != nil},
				requiredField{"problem", patch.Problem != nil},
				requiredField{"process", patch.Process != nil},
				requiredField{"impact", patch.Impact != nil},
				requiredField{"results", patch.Results != nil},
				requiredField{"project_slug", patch.Slug != nil},
			); err != nil {
				h.responder.WriteError(w, err)
				return
			}
		}

		project, err := h.projects.Update(r.Context(), projectID, patch)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.respondProject(w, project, "Project updated successfully")
	}
}

// deleteProject soft deletes a project, or removes it with hard=true
// @Summary Delete project
// @Tags Projects
// @Param projectID path string true "Project ID" format(uuid)
// @Param hard query bool false "Remove permanently" default(false)
// @Success 204 "Deleted"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /projects/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := pathID(r, "projectID", "project")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		hard, err := boolParam(r, "hard", false)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		remove := h.projects.SoftDelete
		if hard {
			remove = h.projects.HardDelete
		}
		deleted, err := remove(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if !deleted {
			h.responder.WriteError(w, errs.NewNotFound("Project"))
			return
		}
		h.responder.Respond(w, http.StatusNoContent, "", nil)
	}
}

// projectTransition is one of the publish/feature operations of the project service
type projectTransition func(ctx context.Context, id uuid.UUID) (*models.Project, error)

// toggleProject applies a publish/feature transition
// @Summary Publish, unpublish, feature or unfeature a project
// @Description Unpublishing clears the featured flag; featuring requires a published project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} models.Project "Updated project"
// @Failure 400 {object} ErrorResponse "Bad Request - Project not published"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /projects/{projectID}/publish [post]
// @Router /projects/{projectID}/unpublish [post]
// @Router /projects/{projectID}/feature [post]
// @Router /projects/{projectID}/unfeature [post]
func (h projectHandler) toggleProject(transition projectTransition, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := pathID(r, "projectID", "project")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := transition(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.respondProject(w, project, message)
	}
}

// getProjectDisplay returns the public shape of a published project
// @Summary Project display
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} models.ProjectDisplay "Public project"
// @Failure 404 {object} ErrorResponse "Not Found - Project missing, unpublished or deleted"
// @Router /projects/{projectID}/display [get]
func (h projectHandler) getProjectDisplay() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := pathID(r, "projectID", "project")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		display, err := h.projects.Display(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if display == nil {
			h.responder.WriteError(w, errs.NewNotFound("Project"))
			return
		}
		h.responder.Respond(w, http.StatusOK, "Project retrieved successfully", display)
	}
}

// recordProjectView increments the view counter
// @Summary Record project view
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} MessageResponse "View recorded"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /projects/{projectID}/view [post]
func (h projectHandler) recordProjectView() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := pathID(r, "projectID", "project")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		recorded, err := h.projects.RecordView(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if !recorded {
			h.responder.WriteError(w, errs.NewNotFound("Project"))
			return
		}
		const msg = "View recorded"
		h.responder.Respond(w, http.StatusOK, msg, MessageResponse{Message: msg})
	}
}

// listPublishedProjects returns the public shape of every published project
// @Summary Published projects
// @Tags Projects
// @Produce json
// @Success 200 {array} models.ProjectDisplay "Published projects"
// @Router /projects/published [get]
func (h projectHandler) listPublishedProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projects.PublishedDisplay(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.Respond(w, http.StatusOK, "Published projects retrieved successfully", projects)
	}
}

// listFeaturedProjects returns the public shape of every featured project
// @Summary Featured projects
// @Tags Projects
// @Produce json
// @Success 200 {array} models.ProjectDisplay "Featured projects"
// @Router /projects/featured [get]
func (h projectHandler) listFeaturedProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projects.FeaturedDisplay(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.Respond(w, http.StatusOK, "Featured projects retrieved successfully", projects)
	}
}

// listProjectsByTechnology returns published projects tagged with a technology
// @Summary Projects by technology
// @Tags Projects
// @Produce json
// @Param technology path string true "Technology name"
// @Success 200 {object} SearchResponse[models.Project] "Projects"
// @Failure 400 {object} ErrorResponse "Bad Request - Empty technology"
// @Router /projects/technology/{technology} [get]
func (h projectHandler) listProjectsByTechnology() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projects.ListByTechnology(r.Context(), chi.URLParam(r, "technology"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.Respond(w, http.StatusOK, "Projects retrieved successfully", newSearchResponse(projects))
	}
}

// searchProjects matches title, description and problem
// @Summary Search projects
// @Tags Projects
// @Produce json
// @Param query query string true "At least two characters"
// @Param technology query string false "Restrict to a technology"
// @Param published_only query bool false "Only published projects" default(false)
// @Success 200 {object} SearchResponse[models.Project] "Matches"
// @Failure 400 {object} ErrorResponse "Bad Request - Query missing or too short"
// @Router /projects/search [get]
func (h projectHandler) searchProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		publishedOnly, err := boolParam(r, "published_only", false)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		q := r.URL.Query()
		projects, err := h.projects.Search(r.Context(), q.Get("query"), q.Get("technology"), publishedOnly)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.Respond(w, http.StatusOK, "Search completed successfully", newSearchResponse(projects))
	}
}

// projectStatistics counts non-deleted, published and featured projects
// @Summary Project statistics
// @Tags Projects
// @Produce json
// @Success 200 {object} services.ProjectStatistics "Counts"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /projects/statistics [get]
func (h projectHandler) projectStatistics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.projects.Statistics(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.Respond(w, http.StatusOK, "Statistics retrieved successfully", stats)
	}
}

func (h projectHandler) respondProject(w http.ResponseWriter, project *models.Project, message string) {
	if project == nil {
		h.responder.WriteError(w, errs.NewNotFound("Project"))
		return
	}
	h.responder.Respond(w, http.StatusOK, message, project)
}
