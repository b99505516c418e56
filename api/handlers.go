package api

import (
	"github.com/rpupo63/portfolio-backend/services"
)

// Services are the dependencies the HTTP layer calls into. Tokens may be nil,
// in which case sign in returns no access token and /accounts/me is rejected.
type Services struct {
	Accounts *services.AccountService
	Contacts *services.ContactService
	Projects *services.ProjectService
	Tokens   *services.TokenIssuer
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(svcs Services, envelope string) *routeHandlers {
	return &routeHandlers{
		accountHandler: newAccountHandler(svcs.Accounts, svcs.Tokens, envelope),
		contactHandler: newContactHandler(svcs.Contacts, envelope),
		projectHandler: newProjectHandler(svcs.Projects, envelope),
	}
}
