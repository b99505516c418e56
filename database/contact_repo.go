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

const contactsTable = "contacts"

type ContactRepo struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewContactRepo(db *gorm.DB) *ContactRepo {
	return &ContactRepo{
		db:     db,
		logger: log.With().Str("repo", "contactRepo").Logger(),
	}
}

func (r *ContactRepo) Create(ctx context.Context, contact *models.Contact) error {
	if err := r.db.WithContext(ctx).Create(contact).Error; err != nil {
		return writeError("create", contactsTable, "contact", err)
	}
	r.logger.Info().Str("id", contact.ID.String()).Msg("contact created")
	return nil
}

func (r *ContactRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	return first[models.Contact](ctx, r.db, "contact", "id = ?", id)
}

// List returns matching contacts, newest first
func (r *ContactRepo) List(ctx context.Context, filter models.ContactFilter) ([]*models.Contact, error) {
	var contacts []*models.Contact
	if err := r.query(ctx, filter).Order(contactOrder).Find(&contacts).Error; err != nil {
		return nil, errs.NewDatabaseError("list", "contacts", err)
	}
	return contacts, nil
}

func (r *ContactRepo) Paginate(ctx context.Context, filter models.ContactFilter, page, pageSize int) ([]*models.Contact, error) {
	var contacts []*models.Contact
	err := r.query(ctx, filter).Order(contactOrder).Scopes(paginate(page, pageSize)).Find(&contacts).Error
	if err != nil {
		return nil, errs.NewDatabaseError("paginate", "contacts", err)
	}
	return contacts, nil
}

func (r *ContactRepo) Count(ctx context.Context, filter models.ContactFilter) (int64, error) {
	var count int64
	if err := r.query(ctx, filter).Count(&count).Error; err != nil {
		return 0, errs.NewDatabaseError("count", "contacts", err)
	}
	return count, nil
}

// Search matches q against name, email and subject within the filtered set
func (r *ContactRepo) Search(ctx context.Context, q string, filter models.ContactFilter) ([]*models.Contact, error) {
	pattern := likePattern(q)
	var contacts []*models.Contact
	err := r.query(ctx, filter).
		Where("(full_name ILIKE ? OR email ILIKE ? OR subject ILIKE ?)", pattern, pattern, pattern).
		Order(contactOrder).
		Find(&contacts).Error
	if err != nil {
		return nil, errs.NewDatabaseError("search", "contacts", err)
	}
	return contacts, nil
}

func (r *ContactRepo) Update(ctx context.Context, id uuid.UUID, patch models.ContactPatch) (*models.Contact, error) {
	return updateByID[models.Contact](ctx, r.db, r.logger, contactsTable, "contact", id, patch.ToUpdates())
}

func (r *ContactRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return deleteByID[models.Contact](ctx, r.db, r.logger, "contact", id)
}

func (r *ContactRepo) query(ctx context.Context, filter models.ContactFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Contact{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Email != "" {
		q = q.Where("email = ?", filter.Email)
	}
	if filter.PreferredContactMethod != "" {
		q = q.Where("preferred_contact_method = ?", filter.PreferredContactMethod)
	}
	if filter.CreatedFrom != nil {
		q = q.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		q = q.Where("created_at <= ?", *filter.CreatedTo)
	}
	return q
}
