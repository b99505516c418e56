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

type contactHandler struct {
	responder Responder
	logger    zerolog.Logger
	contacts  *services.ContactService
}

func newContactHandler(contacts *services.ContactService, envelope string) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder: NewResponder(logger, envelope),
		logger:    logger,
		contacts:  contacts,
	}
}

// ContactRequest is the body of a contact form submission
type ContactRequest struct {
	FullName               string  `json:"full_name" example:"Ada Lovelace"`
	Email                  string  `json:"email" example:"ada@example.com"`
	Subject                string  `json:"subject" example:"Project inquiry"`
	Message                string  `json:"message" example:"I would like to discuss a project."`
	PhoneNumber            *string `json:"phone_number,omitempty"`
	PreferredContactMethod *string `json:"preferred_contact_method,omitempty"`
	Organization           *string `json:"organization,omitempty"`
	FileAttached           *string `json:"file_attached,omitempty"`
}

// ContactDetail is a contact with its decoded user agent
type ContactDetail struct {
	*models.Contact
	UserAgentParsed map[string]any `json:"user_agent_parsed"`
}

// StatusRequest is the body of a contact status change
type StatusRequest struct {
	Status *string `json:"status" example:"contacted"`
}

// submitContact stores a contact form submission
// @Summary Submit contact form
// @Description Validates and stores a submission, recording client IP and user agent, then notifies the owner
// @Tags Contacts
// @Accept json
// @Produce json
// @Param contact body ContactRequest true "Submission"
// @Success 201 {object} models.Contact "Stored submission"
// @Failure 400 {object} ErrorResponse "Bad Request - Validation failed"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /contacts [post]
func (h contactHandler) submitContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ContactRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := requireFields(
			requiredField{"full_name", req.FullName != ""},
			requiredField{"email", req.Email != ""},
			requiredField{"subject", req.Subject != ""},
			requiredField{"message", req.Message != ""},
		); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		in := services.SubmitInput{
			FullName:               req.FullName,
			Email:                  req.Email,
			Subject:                req.Subject,
			Message:                req.Message,
			PhoneNumber:            req.PhoneNumber,
			PreferredContactMethod: req.PreferredContactMethod,
			Organization:           req.Organization,
			FileAttached:           req.FileAttached,
		}
		if ip := clientIP(r); ip != "" {
			in.IPAddress = &ip
		}
		if ua := r.UserAgent(); ua != "" {
			in.UserAgent = &ua
		}

		contact, err := h.contacts.Submit(r.Context(), in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.Respond(w, http.StatusCreated, "Contact submitted successfully", contact)
	}
}

// listContacts returns one page of submissions, newest first
// @Summary List contacts
// @Tags Contacts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(10)
// @Param status query string false "new, contacted or closed"
// @Param preferred_contact_method query string false "Preferred contact method"
// @Param email query string false "Submitter email"
// @Success 200 {object} ListResponse[models.Contact] "Contacts"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid pagination or status"
// @Router /contacts [get]
func (h contactHandler) listContacts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, pageSize, err := pageParams(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		q := r.URL.Query()
		filter := models.ContactFilter{
			Status:                 models.ContactStatus(strings.TrimSpace(q.Get("status"))),
			Email:                  strings.TrimSpace(q.Get("email")),
			PreferredContactMethod: strings.TrimSpace(q.Get("preferred_contact_method")),
		}
		result, err := h.contacts.ListFiltered(r.Context(), page, pageSize, filter)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.Respond(w, http.StatusOK, "Contacts retrieved successfully", newListResponse(result))
	}
}

// getContact retrieves a submission with its decoded user agent
// @Summary Get contact
// @Tags Contacts
// @Produce json
// @Param contactID path string true "Contact ID" format(uuid)
// @Success 200 {object} ContactDetail "Submission"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid contactID"
// @Failure 404 {object} ErrorResponse "Not Found - Contact not found"
// @Router /contacts/{contactID} [get]
func (h contactHandler) getContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contactID, err := pathID(r, "contactID", "contact")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		contact, err := h.contacts.Get(r.Context(), contactID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if contact == nil {
			h.responder.WriteError(w, errs.NewNotFound("Contact"))
			return
		}
		h.responder.Respond(w, http.StatusOK, "Contact retrieved successfully", ContactDetail{
			Contact:         contact,
			UserAgentParsed: contact.ParsedUserAgent(),
		})
	}
}

// updateContactStatus moves a submission to a new status
// @Summary Update contact status
// @Tags Contacts
// @Accept json
// @Produce json
// @Param contactID path string true "Contact ID" format(uuid)
// @Param status body StatusRequest true "New status"
// @Success 200 {object} models.Contact "Updated submission"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid status"
// @Failure 404 {object} ErrorResponse "Not Found - Contact not found"
// @Router /contacts/{contactID} [patch]
func (h contactHandler) updateContactStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contactID, err := pathID(r, "contactID", "contact")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req StatusRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := requireFields(requiredField{"status", req.Status != nil}); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		contact, err := h.contacts.UpdateStatus(r.Context(), contactID, *req.Status)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if contact == nil {
			h.responder.WriteError(w, errs.NewNotFound("Contact"))
			return
		}
		h.responder.Respond(w, http.StatusOK, "Contact status updated successfully", contact)
	}
}

// deleteContact removes a submission
// @Summary Delete contact
// @Tags Contacts
// @Param contactID path string true "Contact ID" format(uuid)
// @Success 204 "Deleted"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid contactID"
// @Failure 404 {object} ErrorResponse "Not Found - Contact not found"
// @Router /contacts/{contactID} [delete]
func (h contactHandler) deleteContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contactID, err := pathID(r, "contactID", "contact")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		deleted, err := h.contacts.Delete(r.Context(), contactID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if !deleted {
			h.responder.WriteError(w, errs.NewNotFound("Contact"))
			return
		}
		h.responder.Respond(w, http.StatusNoContent, "", nil)
	}
}

// searchContacts matches name, email and subject
// @Summary Search contacts
// @Tags Contacts
// @Produce json
// @Param query query string true "At least two characters"
// @Param status query string false "Restrict to a status"
// @Success 200 {object} SearchResponse[models.Contact] "Matches"
// @Failure 400 {object} ErrorResponse "Bad Request - Query too short or invalid status"
// @Router /contacts/search [get]
func (h contactHandler) searchContacts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		contacts, err := h.contacts.Search(r.Context(), q.Get("query"), strings.TrimSpace(q.Get("status")))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.Respond(w, http.StatusOK, "Search completed successfully", newSearchResponse(contacts))
	}
}

// contactStatistics counts submissions per status
// @Summary Contact statistics
// @Tags Contacts
// @Produce json
// @Success 200 {object} services.ContactStatistics "Counts"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /contacts/statistics [get]
func (h contactHandler) contactStatistics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.contacts.Statistics(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.Respond(w, http.StatusOK, "Statistics retrieved successfully", stats)
	}
}
