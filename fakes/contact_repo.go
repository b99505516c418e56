package fakes

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-backend/models"
)

type ContactRepo struct {
	mu       sync.Mutex
	contacts map[uuid.UUID]models.Contact
	clock    *clock

	// Err, when set, is returned by every operation
	Err error
}

func NewContactRepo() *ContactRepo {
	return &ContactRepo{contacts: make(map[uuid.UUID]models.Contact), clock: newClock()}
}

func (r *ContactRepo) Create(_ context.Context, contact *models.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if contact.ID == uuid.Nil {
		contact.ID = uuid.New()
	}
	if contact.Status == "" {
		contact.Status = models.ContactStatusNew
	}
	now := r.clock.next()
	contact.CreatedAt = now
	contact.UpdatedAt = now
	r.contacts[contact.ID] = *contact
	return nil
}

func (r *ContactRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	if c, ok := r.contacts[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (r *ContactRepo) List(_ context.Context, filter models.ContactFilter) ([]*models.Contact, error) {
	return r.filtered(filter, nil)
}

func (r *ContactRepo) Paginate(_ context.Context, filter models.ContactFilter, pageNum, pageSize int) ([]*models.Contact, error) {
	all, err := r.filtered(filter, nil)
	if err != nil {
		return nil, err
	}
	return page(all, pageNum, pageSize), nil
}

func (r *ContactRepo) Count(_ context.Context, filter models.ContactFilter) (int64, error) {
	all, err := r.filtered(filter, nil)
	return int64(len(all)), err
}

func (r *ContactRepo) Search(_ context.Context, q string, filter models.ContactFilter) ([]*models.Contact, error) {
	return r.filtered(filter, func(c models.Contact) bool {
		return containsFold(c.FullName, q) || containsFold(c.Email, q) || containsFold(c.Subject, q)
	})
}

func (r *ContactRepo) Update(_ context.Context, id uuid.UUID, patch models.ContactPatch) (*models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	c, ok := r.contacts[id]
	if !ok {
		return nil, nil
	}
	patch.Apply(&c)
	c.UpdatedAt = r.clock.next()
	r.contacts[id] = c
	return &c, nil
}

func (r *ContactRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}
	if _, ok := r.contacts[id]; !ok {
		return false, nil
	}
	delete(r.contacts, id)
	return true, nil
}

func (r *ContactRepo) filtered(filter models.ContactFilter, match func(models.Contact) bool) ([]*models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := []*models.Contact{}
	for _, c := range r.contacts {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.Email != "" && c.Email != filter.Email {
			continue
		}
		if filter.PreferredContactMethod != "" && (c.PreferredContactMethod == nil || *c.PreferredContactMethod != filter.PreferredContactMethod) {
			continue
		}
		if filter.CreatedFrom != nil && c.CreatedAt.Before(*filter.CreatedFrom) {
			continue
		}
		if filter.CreatedTo != nil && c.CreatedAt.After(*filter.CreatedTo) {
			continue
		}
		if match != nil && !match(c) {
			continue
		}
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}
