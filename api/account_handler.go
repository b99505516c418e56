package api

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
)

type accountHandler struct {
	responder Responder
	logger    zerolog.Logger
	accounts  *services.AccountService
	tokens    *services.TokenIssuer
}

func newAccountHandler(accounts *services.AccountService, tokens *services.TokenIssuer, envelope string) accountHandler {
	logger := log.With().Str("handlerName", "accountHandler").Logger()

	return accountHandler{
		responder: NewResponder(logger, envelope),
		logger:    logger,
		accounts:  accounts,
		tokens:    tokens,
	}
}

// RegisterRequest is the body of an account registration
type RegisterRequest struct {
	Username        string `json:"username" example:"ada"`
	Email           string `json:"email" example:"ada@example.com"`
	Password        string `json:"password" example:"Password1"`
	PasswordConfirm string `json:"password_confirm" example:"Password1"`
	FirstName       string `json:"first_name" example:"Ada"`
	LastName        string `json:"last_name" example:"Lovelace"`
}

// SessionRequest is the body of a sign in
type SessionRequest struct {
	Username string `json:"username" example:"ada"`
	Password string `json:"password" example:"Password1"`
}

// SessionResponse is the signed in account, plus an access token when token
// signing is configured
type SessionResponse struct {
	*models.Account
	*services.Session
}

// ChangePasswordRequest is the body of a password change
type ChangePasswordRequest struct {
	OldPassword        string `json:"old_password"`
	NewPassword        string `json:"new_password"`
	NewPasswordConfirm string `json:"new_password_confirm"`
}

// register creates an account
// @Summary Register account
// @Description Creates an account after validating the password rules and username/email uniqueness
// @Tags Accounts
// @Accept json
// @Produce json
// @Param account body RegisterRequest true "Registration data"
// @Success 201 {object} models.Account "Created account"
// @Failure 400 {object} ErrorResponse "Bad Request - Validation failed or username/email taken"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /accounts [post]
func (h accountHandler) register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := requireFields(
			requiredField{"username", req.Username != ""},
			requiredField{"email", req.Email != ""},
			requiredField{"password", req.Password != ""},
			requiredField{"password_confirm", req.PasswordConfirm != ""},
		); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.Password != req.PasswordConfirm {
			h.responder.WriteError(w, errs.NewBadRequestErrorWithField("Passwords do not match", "password_confirm", ""))
			return
		}

		account, err := h.accounts.Register(r.Context(), services.RegisterInput{
			Username:  req.Username,
			Email:     req.Email,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.Respond(w, http.StatusCreated, "User registered successfully", account)
	}
}

// createSession authenticates an account
// @Summary Sign in
// @Description Verifies username and password. Every failure yields the same 401.
// @Tags Accounts
// @Accept json
// @Produce json
// @Param credentials body SessionRequest true "Credentials"
// @Success 200 {object} SessionResponse "Authenticated account"
// @Failure 400 {object} ErrorResponse "Bad Request - Missing fields"
// @Failure 401 {object} ErrorResponse "Unauthorized - Invalid credentials"
// @Router /accounts/session [post]
func (h accountHandler) createSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SessionRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := requireFields(
			requiredField{"username", req.Username != ""},
			requiredField{"password", req.Password != ""},
		); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		account, err := h.accounts.Authenticate(r.Context(), req.Username, req.Password)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		response := SessionResponse{Account: account}
		if h.tokens != nil {
			session, err := h.tokens.Issue(account.ID, account.Username, account.IsStaff)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			response.Session = session
		}
		h.responder.Respond(w, http.StatusOK, "Authentication successful", response)
	}
}

// getCurrentAccount returns the account the bearer token was issued for
// @Summary Current account
// @Tags Accounts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Account "Current account"
// @Failure 401 {object} ErrorResponse "Unauthorized - Missing or invalid token"
// @Failure 404 {object} ErrorResponse "Not Found - Account no longer exists"
// @Router /accounts/me [get]
func (h accountHandler) getCurrentAccount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, err := ctxGetAccountID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewMissingTokenError())
			return
		}

		account, err := h.accounts.Get(r.Context(), accountID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if account == nil {
			h.responder.WriteError(w, errs.NewNotFound("User"))
			return
		}
		h.responder.Respond(w, http.StatusOK, "User retrieved successfully", account)
	}
}

// getAccount retrieves an account by ID
// @Summary Get account
// @Tags Accounts
// @Produce json
// @Param accountID path string true "Account ID" format(uuid)
// @Success 200 {object} models.Account "Account details"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid accountID"
// @Failure 404 {object} ErrorResponse "Not Found - Account not found"
// @Router /accounts/{accountID} [get]
func (h accountHandler) getAccount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, err := pathID(r, "accountID", "user")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		account, err := h.accounts.Get(r.Context(), accountID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if account == nil {
			h.responder.WriteError(w, errs.NewNotFound("User"))
			return
		}
		h.responder.Respond(w, http.StatusOK, "User retrieved successfully", account)
	}
}

// updateAccount changes profile fields. PUT requires email, first_name and
// last_name; PATCH accepts any subset.
// @Summary Update account
// @Tags Accounts
// @Accept json
// @Produce json
// @Param accountID path string true "Account ID" format(uuid)
// @Param account body models.AccountPatch true "Fields to change"
// @Success 200 {object} models.Account "Updated account"
// @Failure 400 {object} ErrorResponse "Bad Request - Validation failed or email taken"
// @Failure 404 {object} ErrorResponse "Not Found - Account not found"
// @Router /accounts/{accountID} [put]
// @Router /accounts/{accountID} [patch]
func (h accountHandler) updateAccount(full bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, err := pathID(r, "accountID", "user")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var patch models.AccountPatch
		if err := decodeJSON(w, r, &patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if full {
			if err := requireFields(
				requiredField{"email", patch.Email != nil},
				requiredField{"first_name", patch.FirstName != nil},
				requiredField{"last_name", patch.LastName != nil},
			); err != nil {
				h.responder.WriteError(w, err)
				return
			}
		}

		account, err := h.accounts.Update(r.Context(), accountID, patch)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if account == nil {
			h.responder.WriteError(w, errs.NewNotFound("User"))
			return
		}
		h.responder.Respond(w, http.StatusOK, "User updated successfully", account)
	}
}

// deleteAccount removes an account
// @Summary Delete account
// @Tags Accounts
// @Param accountID path string true "Account ID" format(uuid)
// @Success 204 "Deleted"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid accountID"
// @Failure 404 {object} ErrorResponse "Not Found - Account not found"
// @Router /accounts/{accountID} [delete]
func (h accountHandler) deleteAccount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, err := pathID(r, "accountID", "user")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		deleted, err := h.accounts.Delete(r.Context(), accountID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if !deleted {
			h.responder.WriteError(w, errs.NewNotFound("User"))
			return
		}
		h.responder.Respond(w, http.StatusNoContent, "", nil)
	}
}

// listAccounts returns one page of accounts, newest first
// @Summary List accounts
// @Tags Accounts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(10)
// @Success 200 {object} ListResponse[models.Account] "Accounts"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid pagination"
// @Router /accounts [get]
func (h accountHandler) listAccounts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, pageSize, err := pageParams(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		result, err := h.accounts.List(r.Context(), page, pageSize)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.Respond(w, http.StatusOK, "Users retrieved successfully", newListResponse(result))
	}
}

// changePassword replaces the password after checking the current one
// @Summary Change password
// @Tags Accounts
// @Accept json
// @Produce json
// @Param accountID path string true "Account ID" format(uuid)
// @Param passwords body ChangePasswordRequest true "Old and new password"
// @Success 200 {object} MessageResponse "Password changed"
// @Failure 400 {object} ErrorResponse "Bad Request - Wrong old password or weak new password"
// @Router /accounts/{accountID}/password [post]
func (h accountHandler) changePassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, err := pathID(r, "accountID", "user")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req ChangePasswordRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := requireFields(
			requiredField{"old_password", req.OldPassword != ""},
			requiredField{"new_password", req.NewPassword != ""},
			requiredField{"new_password_confirm", req.NewPasswordConfirm != ""},
		); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.NewPassword != req.NewPasswordConfirm {
			h.responder.WriteError(w, errs.NewBadRequestErrorWithField("Passwords do not match", "new_password_confirm", ""))
			return
		}

		if err := h.accounts.ChangePassword(r.Context(), accountID, req.OldPassword, req.NewPassword); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		const msg = "Password changed successfully"
		h.responder.Respond(w, http.StatusOK, msg, MessageResponse{Message: msg})
	}
}

// setActive activates or deactivates an account
// @Summary Activate or deactivate account
// @Tags Accounts
// @Produce json
// @Param accountID path string true "Account ID" format(uuid)
// @Success 200 {object} models.Account "Updated account"
// @Failure 404 {object} ErrorResponse "Not Found - Account not found"
// @Router /accounts/{accountID}/activate [post]
// @Router /accounts/{accountID}/deactivate [post]
func (h accountHandler) setActive(active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, err := pathID(r, "accountID", "user")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		update := h.accounts.Deactivate
		message := "User deactivated successfully"
		if active {
			update = h.accounts.Activate
			message = "User activated successfully"
		}
		account, err := update(r.Context(), accountID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if account == nil {
			h.responder.WriteError(w, errs.NewNotFound("User"))
			return
		}
		h.responder.Respond(w, http.StatusOK, message, account)
	}
}

// searchAccounts matches username, email and names
// @Summary Search accounts
// @Tags Accounts
// @Produce json
// @Param query query string true "At least two characters"
// @Success 200 {object} SearchResponse[models.Account] "Matches"
// @Failure 400 {object} ErrorResponse "Bad Request - Query missing or too short"
// @Router /accounts/search [get]
func (h accountHandler) searchAccounts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accounts, err := h.accounts.Search(r.Context(), strings.TrimSpace(r.URL.Query().Get("query")))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.Respond(w, http.StatusOK, "Search completed successfully", newSearchResponse(accounts))
	}
}

// accountStatistics counts all, active and staff accounts
// @Summary Account statistics
// @Tags Accounts
// @Produce json
// @Success 200 {object} services.AccountStatistics "Counts"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /accounts/statistics [get]
func (h accountHandler) accountStatistics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.accounts.Statistics(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.Respond(w, http.StatusOK, "Statistics retrieved successfully", stats)
	}
}
