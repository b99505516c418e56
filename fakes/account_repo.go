package fakes

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

type AccountRepo struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]models.Account
	clock    *clock

	// Err, when set, is returned by every operation
	Err error
	// HideFromLookups makes GetByUsername and GetByEmail miss, as if a
	// concurrent insert landed after the lookup
	HideFromLookups bool
}

func NewAccountRepo() *AccountRepo {
	return &AccountRepo{accounts: make(map[uuid.UUID]models.Account), clock: newClock()}
}

func (r *AccountRepo) Create(_ context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, a := range r.accounts {
		if a.Username == account.Username {
			return errs.NewUniqueConstraintViolationError("account", "username", nil)
		}
		if a.Email == account.Email {
			return errs.NewUniqueConstraintViolationError("account", "email", nil)
		}
	}
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	now := r.clock.next()
	account.DateJoined = now
	account.UpdatedAt = now
	r.accounts[account.ID] = *account
	return nil
}

func (r *AccountRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	if a, ok := r.accounts[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (r *AccountRepo) GetByUsername(_ context.Context, username string) (*models.Account, error) {
	return r.find(func(a models.Account) bool { return a.Username == username })
}

func (r *AccountRepo) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	return r.find(func(a models.Account) bool { return a.Email == email })
}

func (r *AccountRepo) List(_ context.Context, filter models.AccountFilter) ([]*models.Account, error) {
	return r.filtered(filter, nil)
}

func (r *AccountRepo) Paginate(_ context.Context, filter models.AccountFilter, pageNum, pageSize int) ([]*models.Account, error) {
	all, err := r.filtered(filter, nil)
	if err != nil {
		return nil, err
	}
	return page(all, pageNum, pageSize), nil
}

func (r *AccountRepo) Count(_ context.Context, filter models.AccountFilter) (int64, error) {
	all, err := r.filtered(filter, nil)
	return int64(len(all)), err
}

func (r *AccountRepo) Search(_ context.Context, q string) ([]*models.Account, error) {
	return r.filtered(models.AccountFilter{}, func(a models.Account) bool {
		return containsFold(a.Username, q) || containsFold(a.Email, q) ||
			containsFold(a.FirstName, q) || containsFold(a.LastName, q)
	})
}

func (r *AccountRepo) Update(_ context.Context, id uuid.UUID, patch models.AccountPatch) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	a, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	if patch.Email != nil {
		for otherID, other := range r.accounts {
			if otherID != id && other.Email == *patch.Email {
				return nil, errs.NewUniqueConstraintViolationError("account", "email", nil)
			}
		}
	}
	patch.Apply(&a)
	a.UpdatedAt = r.clock.next()
	r.accounts[id] = a
	return &a, nil
}

func (r *AccountRepo) SetPasswordHash(_ context.Context, id uuid.UUID, hash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}
	a, ok := r.accounts[id]
	if !ok {
		return false, nil
	}
	a.PasswordHash = hash
	r.accounts[id] = a
	return true, nil
}

func (r *AccountRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}
	if _, ok := r.accounts[id]; !ok {
		return false, nil
	}
	delete(r.accounts, id)
	return true, nil
}

func (r *AccountRepo) find(match func(models.Account) bool) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	if r.HideFromLookups {
		return nil, nil
	}
	for _, a := range r.accounts {
		if match(a) {
			return &a, nil
		}
	}
	return nil, nil
}

// filtered returns matching accounts newest first
func (r *AccountRepo) filtered(filter models.AccountFilter, match func(models.Account) bool) ([]*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := []*models.Account{}
	for _, a := range r.accounts {
		if filter.IsActive != nil && a.IsActive != *filter.IsActive {
			continue
		}
		if filter.IsStaff != nil && a.IsStaff != *filter.IsStaff {
			continue
		}
		if filter.IsSuperuser != nil && a.IsSuperuser != *filter.IsSuperuser {
			continue
		}
		if match != nil && !match(a) {
			continue
		}
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DateJoined.Equal(out[j].DateJoined) {
			return out[i].DateJoined.After(out[j].DateJoined)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}
