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

const (
	maxContactMethodLength = 30
	maxOrganizationLength  = 100
	maxIPAddressLength     = 60
	notifyTimeout          = 20 * time.Second
)

// ContactRepository defines the storage operations the contact service needs
type ContactRepository interface {
	Create(ctx context.Context, contact *models.Contact) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Contact, error)
	List(ctx context.Context, filter models.ContactFilter) ([]*models.Contact, error)
	Paginate(ctx context.Context, filter models.ContactFilter, page, pageSize int) ([]*models.Contact, error)
	Count(ctx context.Context, filter models.ContactFilter) (int64, error)
	Search(ctx context.Context, query string, filter models.ContactFilter) ([]*models.Contact, error)
	Update(ctx context.Context, id uuid.UUID, patch models.ContactPatch) (*models.Contact, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

var _ ContactRepository = (*database.ContactRepo)(nil)

type ContactStatistics struct {
	Total     int64 `json:"total"`
	New       int64 `json:"new"`
	Contacted int64 `json:"contacted"`
	Closed    int64 `json:"closed"`
}

type ContactService struct {
	repo     ContactRepository
	notifier *NotificationDispatcher
	logger   zerolog.Logger
}

// NewContactService accepts a nil notifier when no notification channel is configured
func NewContactService(repo ContactRepository, notifier *NotificationDispatcher) *ContactService {
	return &ContactService{
		repo:     repo,
		notifier: notifier,
		logger:   log.With().Str("service", "contactService").Logger(),
	}
}

// SubmitInput carries a public contact form submission plus request metadata
type SubmitInput struct {
	FullName               string
	Email                  string
	Subject                string
	Message                string
	PhoneNumber            *string
	PreferredContactMethod *string
	Organization           *string
	FileAttached           *string
	IPAddress              *string
	UserAgent              *string
}

// Submit sanitizes and then validates a submission, stores it with status
// new and notifies the owner. Notification failures are logged only.
func (s *ContactService) Submit(ctx context.Context, in SubmitInput) (*models.Contact, error) {
	contact := &models.Contact{
		FullName:               SanitizeText(in.FullName),
		Email:                  SanitizeEmail(in.Email),
		Subject:                SanitizeText(in.Subject),
		Message:                SanitizeText(in.Message),
		PhoneNumber:            sanitizeOptional(in.PhoneNumber, SanitizePhone),
		PreferredContactMethod: sanitizeOptional(in.PreferredContactMethod, SanitizeText),
		Organization:           sanitizeOptional(in.Organization, SanitizeText),
		FileAttached:           sanitizeOptional(in.FileAttached, strings.TrimSpace),
		IPAddress:              in.IPAddress,
		UserAgent:              in.UserAgent,
		Status:                 models.ContactStatusNew,
	}
	if err := validateContact(contact); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, err
	}
	s.logger.Info().Str("id", contact.ID.String()).Msg("contact submitted")

	if s.notifier.Enabled() {
		notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()
		if err := s.notifier.Dispatch(notifyCtx, contact); err != nil {
			s.logger.Warn().Err(err).Str("id", contact.ID.String()).Msg("contact notification incomplete")
		}
	}
	return contact, nil
}

// validateContact checks a sanitized contact against the length rules and
// column widths
func validateContact(c *models.Contact) error {
	if err := validateLength("full_name", "Full name", c.FullName, minFullNameLength, maxFullNameLength); err != nil {
		return err
	}
	if length(c.Email) > maxContactEmailLength {
		return invalid("email", "Email must not exceed %d characters", maxContactEmailLength)
	}
	if err := ValidateEmail(c.Email); err != nil {
		return err
	}
	if err := validateLength("subject", "Subject", c.Subject, minSubjectLength, maxSubjectLength); err != nil {
		return err
	}
	if err := validateLength("message", "Message", c.Message, minMessageLength, maxMessageLength); err != nil {
		return err
	}
	optional := []struct {
		field, label string
		value        *string
		max          int
	}{
		{"phone_number", "Phone number", c.PhoneNumber, maxPhoneLength},
		{"preferred_contact_method", "Preferred contact method", c.PreferredContactMethod, maxContactMethodLength},
		{"organization", "Organization", c.Organization, maxOrganizationLength},
		{"file_attached", "File reference", c.FileAttached, maxReferenceLength},
		{"ip_address", "IP address", c.IPAddress, maxIPAddressLength},
	}
	for _, o := range optional {
		if err := validateMaxLength(o.field, o.label, o.value, o.max); err != nil {
			return err
		}
	}
	return nil
}

// ParseStatus accepts only new, contacted and closed
func ParseStatus(status string) (models.ContactStatus, error) {
	s := models.ContactStatus(status)
	if !s.Valid() {
		return "", invalid("status", "Invalid status. Must be one of: new, contacted, closed")
	}
	return s, nil
}

func (s *ContactService) Get(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ContactService) ListAll(ctx context.Context) ([]*models.Contact, error) {
	return s.repo.List(ctx, models.ContactFilter{})
}

func (s *ContactService) ListByStatus(ctx context.Context, status string) ([]*models.Contact, error) {
	st, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, models.ContactFilter{Status: st})
}

func (s *ContactService) ListByEmail(ctx context.Context, email string) ([]*models.Contact, error) {
	return s.repo.List(ctx, models.ContactFilter{Email: SanitizeEmail(email)})
}

// ListFiltered returns one page of contacts matching filter, newest first.
// Total counts the whole filtered set.
func (s *ContactService) ListFiltered(ctx context.Context, page, pageSize int, filter models.ContactFilter) (*Page[models.Contact], error) {
	if err := ValidatePagination(page, pageSize); err != nil {
		return nil, err
	}
	if filter.Status != "" {
		if _, err := ParseStatus(string(filter.Status)); err != nil {
			return nil, err
		}
	}
	if filter.Email != "" {
		filter.Email = SanitizeEmail(filter.Email)
	}

	items, err := s.repo.Paginate(ctx, filter, page, pageSize)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &Page[models.Contact]{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

// Search matches name, email and subject. An empty status searches every status.
func (s *ContactService) Search(ctx context.Context, query, status string) ([]*models.Contact, error) {
	q, err := ValidateSearchQuery(query)
	if err != nil {
		return nil, err
	}
	var filter models.ContactFilter
	if status != "" {
		st, err := ParseStatus(status)
		if err != nil {
			return nil, err
		}
		filter.Status = st
	}
	return s.repo.Search(ctx, q, filter)
}

// UpdateStatus moves a contact to status; it returns nil when the contact does not exist
func (s *ContactService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Contact, error) {
	st, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, models.ContactPatch{Status: &st})
}

func (s *ContactService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.Delete(ctx, id)
}

func (s *ContactService) Statistics(ctx context.Context) (*ContactStatistics, error) {
	stats := &ContactStatistics{}
	counts := []struct {
		dst    *int64
		filter models.ContactFilter
	}{
		{&stats.Total, models.ContactFilter{}},
		{&stats.New, models.ContactFilter{Status: models.ContactStatusNew}},
		{&stats.Contacted, models.ContactFilter{Status: models.ContactStatusContacted}},
		{&stats.Closed, models.ContactFilter{Status: models.ContactStatusClosed}},
	}
	for _, c := range counts {
		n, err := s.repo.Count(ctx, c.filter)
		if err != nil {
			return nil, err
		}
		*c.dst = n
	}
	return stats, nil
}
