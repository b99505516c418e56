package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes registers every resource route. Only /accounts/me requires a token.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		accounts := handlers.accountHandler
		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", accounts.listAccounts())
			r.Post("/", accounts.register())
			r.Post("/session", accounts.createSession())
			r.With(authMiddleware.authenticate).Get("/me", accounts.getCurrentAccount())
			r.Get("/search", accounts.searchAccounts())
			r.Get("/statistics", accounts.accountStatistics())

			r.Route("/{accountID}", func(r chi.Router) {
				r.Get("/", accounts.getAccount())
				r.Put("/", accounts.updateAccount(true))
				r.Patch("/", accounts.updateAccount(false))
				r.Delete("/", accounts.deleteAccount())
				r.Post("/password", accounts.changePassword())
				r.Post("/activate", accounts.setActive(true))
				r.Post("/deactivate", accounts.setActive(false))
			})
		})

		contacts := handlers.contactHandler
		r.Route("/contacts", func(r chi.Router) {
			r.Get("/", contacts.listContacts())
			r.Post("/", contacts.submitContact())
			r.Get("/search", contacts.searchContacts())
			r.Get("/statistics", contacts.contactStatistics())

			r.Route("/{contactID}", func(r chi.Router) {
				r.Get("/", contacts.getContact())
				r.Patch("/", contacts.updateContactStatus())
				r.Delete("/", contacts.deleteContact())
			})
		})

		projects := handlers.projectHandler
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projects.listProjects())
			r.Post("/", projects.createProject())
			r.Get("/published", projects.listPublishedProjects())
			r.Get("/featured", projects.listFeaturedProjects())
			r.Get("/search", projects.searchProjects())
			r.Get("/statistics", projects.projectStatistics())
			r.Get("/slug/{slug}", projects.getProjectBySlug())
			r.Get("/technology/{technology}", projects.listProjectsByTechnology())

			r.Route("/{projectID}", func(r chi.Router) {
				r.Get("/", projects.getProject())
				r.Put("/", projects.updateProject(true))
				r.Patch("/", projects.updateProject(false))
				r.Delete("/", projects.deleteProject())
				r.Post("/publish", projects.toggleProject(projects.projects.Publish, "Project published successfully"))
				r.Post("/unpublish", projects.toggleProject(projects.projects.Unpublish, "Project unpublished successfully"))
				r.Post("/feature", projects.toggleProject(projects.projects.Feature, "Project featured successfully"))
				r.Post("/unfeature", projects.toggleProject(projects.projects.Unfeature, "Project unfeatured successfully"))
				r.Get("/display", projects.getProjectDisplay())
				r.Post("/view", projects.recordProjectView())
			})
		})
	})
}
