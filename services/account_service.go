package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

// AccountRepository defines the storage operations the account service needs
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	List(ctx context.Context, filter models.AccountFilter) ([]*models.Account, error)
	Paginate(ctx context.Context, filter models.AccountFilter, page, pageSize int) ([]*models.Account, error)
	Count(ctx context.Context, filter models.AccountFilter) (int64, error)
	Search(ctx context.Context, query string) ([]*models.Account, error)
	Update(ctx context.Context, id uuid.UUID, patch models.AccountPatch) (*models.Account, error)
	SetPasswordHash(ctx context.Context, id uuid.UUID, hash string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

var _ AccountRepository = (*database.AccountRepo)(nil)

// ErrInvalidOldPassword covers both an unknown account and a wrong current password
var ErrInvalidOldPassword = &ValidationError{Field: "old_password", Message: "Invalid old password or user not found"}

// Page is one slice of a listing plus the size of the whole filtered set
type Page[T any] struct {
	Items    []*T
	Total    int64
	Page     int
	PageSize int
}

type AccountStatistics struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
	Staff  int64 `json:"staff"`
}

type AccountService struct {
	repo   AccountRepository
	hasher *PasswordHasher
	logger zerolog.Logger
}

func NewAccountService(repo AccountRepository, hasher *PasswordHasher) *AccountService {
	return &AccountService{
		repo:   repo,
		hasher: hasher,
		logger: log.With().Str("service", "accountService").Logger(),
	}
}

// RegisterInput carries the plaintext registration fields
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register validates the input, enforces unique username and email, and
// stores the account with a bcrypt hash
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.Account, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	if err := validateUsername(in.Username); err != nil {
		return nil, err
	}
	if err := validateAccountEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	if err := validateOptionalName("first_name", "First name", in.FirstName); err != nil {
		return nil, err
	}
	if err := validateOptionalName("last_name", "Last name", in.LastName); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, conflict("username", "Username '%s' already exists", username)
	}
	existing, err = s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, conflict("email", "Email '%s' already exists", email)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		Username:     username,
		Email:        email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, account); err != nil {
		if field, ok := uniqueField(err); ok {
			return nil, conflict(field, "An account with this %s already exists", field)
		}
		return nil, err
	}

	s.logger.Info().Str("id", account.ID.String()).Msg("account registered")
	return account, nil
}

// Authenticate returns the account only when it exists, is active and the
// password matches. Every failure yields ErrInvalidCredentials.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*models.Account, error) {
	account, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if account == nil {
		s.logger.Warn().Str("username", username).Msg("authentication failed: user not found")
		return nil, ErrInvalidCredentials
	}
	if !account.IsActive {
		s.logger.Warn().Str("username", username).Msg("authentication failed: user inactive")
		return nil, ErrInvalidCredentials
	}
	if !s.hasher.Matches(account.PasswordHash, password) {
		s.logger.Warn().Str("username", username).Msg("authentication failed: invalid password")
		return nil, ErrInvalidCredentials
	}

	s.logger.Info().Str("id", account.ID.String()).Msg("account authenticated")
	return account, nil
}

// ChangePassword verifies the current password before the new one is validated
func (s *AccountService) ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrInvalidOldPassword
	}
	if !s.hasher.Matches(account.PasswordHash, oldPassword) {
		s.logger.Warn().Str("id", id.String()).Msg("failed password change attempt")
		return ErrInvalidOldPassword
	}
	if err := ValidatePassword(newPassword); err != nil {
		return withField(err, "new_password")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	ok, err := s.repo.SetPasswordHash(ctx, id, hash)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidOldPassword
	}
	return nil
}

// ResetPassword replaces the password without checking the current one.
// It reports false when the account does not exist.
func (s *AccountService) ResetPassword(ctx context.Context, id uuid.UUID, newPassword string) (bool, error) {
	if err := ValidatePassword(newPassword); err != nil {
		return false, withField(err, "new_password")
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return false, err
	}
	return s.repo.SetPasswordHash(ctx, id, hash)
}

func (s *AccountService) Get(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AccountService) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	return s.repo.GetByUsername(ctx, username)
}

// Update applies a profile patch. A changed email must stay unique.
func (s *AccountService) Update(ctx context.Context, id uuid.UUID, patch models.AccountPatch) (*models.Account, error) {
	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		if err := validateAccountEmail(email); err != nil {
			return nil, err
		}
		owner, err := s.repo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if owner != nil && owner.ID != id {
			return nil, conflict("email", "Email '%s' already exists", email)
		}
		patch.Email = &email
	}
	if patch.FirstName != nil {
		if err := validateOptionalName("first_name", "First name", *patch.FirstName); err != nil {
			return nil, err
		}
		name := strings.TrimSpace(*patch.FirstName)
		patch.FirstName = &name
	}
	if patch.LastName != nil {
		if err := validateOptionalName("last_name", "Last name", *patch.LastName); err != nil {
			return nil, err
		}
		name := strings.TrimSpace(*patch.LastName)
		patch.LastName = &name
	}

	account, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if field, ok := uniqueField(err); ok {
			return nil, conflict(field, "An account with this %s already exists", field)
		}
		return nil, err
	}
	return account, nil
}

func (s *AccountService) Activate(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	active := true
	return s.repo.Update(ctx, id, models.AccountPatch{IsActive: &active})
}

func (s *AccountService) Deactivate(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	active := false
	return s.repo.Update(ctx, id, models.AccountPatch{IsActive: &active})
}

func (s *AccountService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.Delete(ctx, id)
}

// List returns one page of all accounts, newest first
func (s *AccountService) List(ctx context.Context, page, pageSize int) (*Page[models.Account], error) {
	if err := ValidatePagination(page, pageSize); err != nil {
		return nil, err
	}
	items, err := s.repo.Paginate(ctx, models.AccountFilter{}, page, pageSize)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx, models.AccountFilter{})
	if err != nil {
		return nil, err
	}
	return &Page[models.Account]{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *AccountService) ListActive(ctx context.Context) ([]*models.Account, error) {
	active := true
	return s.repo.List(ctx, models.AccountFilter{IsActive: &active})
}

func (s *AccountService) ListStaff(ctx context.Context) ([]*models.Account, error) {
	staff := true
	return s.repo.List(ctx, models.AccountFilter{IsStaff: &staff})
}

func (s *AccountService) ListSuperusers(ctx context.Context) ([]*models.Account, error) {
	superuser := true
	return s.repo.List(ctx, models.AccountFilter{IsSuperuser: &superuser})
}

func (s *AccountService) Search(ctx context.Context, query string) ([]*models.Account, error) {
	q, err := ValidateSearchQuery(query)
	if err != nil {
		return nil, err
	}
	return s.repo.Search(ctx, q)
}

func (s *AccountService) Statistics(ctx context.Context) (*AccountStatistics, error) {
	active, staff := true, true
	total, err := s.repo.Count(ctx, models.AccountFilter{})
	if err != nil {
		return nil, err
	}
	activeCount, err := s.repo.Count(ctx, models.AccountFilter{IsActive: &active})
	if err != nil {
		return nil, err
	}
	staffCount, err := s.repo.Count(ctx, models.AccountFilter{IsStaff: &staff})
	if err != nil {
		return nil, err
	}
	return &AccountStatistics{Total: total, Active: activeCount, Staff: staffCount}, nil
}

// uniqueField reports whether err is a storage unique violation and which column it hit
func uniqueField(err error) (string, bool) {
	if !errs.IsUniqueConstraintViolationError(err) {
		return "", false
	}
	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) && apiErr.Field != "" {
		return apiErr.Field, true
	}
	return "value", true
}

func withField(err error, field string) error {
	var v *ValidationError
	if errors.As(err, &v) {
		return &ValidationError{Field: field, Message: v.Message}
	}
	return err
}

func validateAccountEmail(email string) error {
	if length(email) > maxAccountEmailLength {
		return invalid("email", "Email must not exceed %d characters", maxAccountEmailLength)
	}
	return ValidateEmail(email)
}
