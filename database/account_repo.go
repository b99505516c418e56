package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

const accountsTable = "accounts"

type AccountRepo struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewAccountRepo(db *gorm.DB) *AccountRepo {
	return &AccountRepo{
		db:     db,
		logger: log.With().Str("repo", "accountRepo").Logger(),
	}
}

// Create inserts the account and fills in its generated id and timestamps
func (r *AccountRepo) Create(ctx context.Context, account *models.Account) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		return writeError("create", accountsTable, "account", err)
	}
	r.logger.Info().Str("id", account.ID.String()).Msg("account created")
	return nil
}

func (r *AccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return first[models.Account](ctx, r.db, "account", "id = ?", id)
}

func (r *AccountRepo) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	return first[models.Account](ctx, r.db, "account", "username = ?", username)
}

func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return first[models.Account](ctx, r.db, "account", "email = ?", email)
}

// List returns matching accounts, newest first
func (r *AccountRepo) List(ctx context.Context, filter models.AccountFilter) ([]*models.Account, error) {
	var accounts []*models.Account
	err := r.query(ctx, filter).Order(accountOrder).Find(&accounts).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "accounts", err)
	}
	return accounts, nil
}

// Paginate returns one page of matching accounts, newest first
func (r *AccountRepo) Paginate(ctx context.Context, filter models.AccountFilter, page, pageSize int) ([]*models.Account, error) {
	var accounts []*models.Account
	err := r.query(ctx, filter).Order(accountOrder).Scopes(paginate(page, pageSize)).Find(&accounts).Error
	if err != nil {
		return nil, errs.NewDatabaseError("paginate", "accounts", err)
	}
	return accounts, nil
}

func (r *AccountRepo) Count(ctx context.Context, filter models.AccountFilter) (int64, error) {
	var count int64
	if err := r.query(ctx, filter).Count(&count).Error; err != nil {
		return 0, errs.NewDatabaseError("count", "accounts", err)
	}
	return count, nil
}

// Search matches q against username, email and names, case-insensitively
func (r *AccountRepo) Search(ctx context.Context, q string) ([]*models.Account, error) {
	pattern := likePattern(q)
	var accounts []*models.Account
	err := r.db.WithContext(ctx).
		Where("(username ILIKE ? OR email ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?)", pattern, pattern, pattern, pattern).
		Order(accountOrder).
		Find(&accounts).Error
	if err != nil {
		return nil, errs.NewDatabaseError("search", "accounts", err)
	}
	return accounts, nil
}

// Update applies the patch and returns the reloaded account, or nil if absent
func (r *AccountRepo) Update(ctx context.Context, id uuid.UUID, patch models.AccountPatch) (*models.Account, error) {
	return updateByID[models.Account](ctx, r.db, r.logger, accountsTable, "account", id, patch.ToUpdates())
}

// SetPasswordHash stores a new hash and reports whether the account exists
func (r *AccountRepo) SetPasswordHash(ctx context.Context, id uuid.UUID, hash string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Account{}).Where("id = ?", id).Update("password_hash", hash)
	if res.Error != nil {
		return false, errs.NewDatabaseError("update password for", "account", res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	r.logger.Info().Str("id", id.String()).Msg("account password changed")
	return true, nil
}

func (r *AccountRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return deleteByID[models.Account](ctx, r.db, r.logger, "account", id)
}

func (r *AccountRepo) query(ctx context.Context, filter models.AccountFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Account{})
	if filter.IsActive != nil {
		q = q.Where("is_active = ?", *filter.IsActive)
	}
	if filter.IsStaff != nil {
		q = q.Where("is_staff = ?", *filter.IsStaff)
	}
	if filter.IsSuperuser != nil {
		q = q.Where("is_superuser = ?", *filter.IsSuperuser)
	}
	return q
}
