package models

import (
	"time"

	"github.com/google/uuid"
)

// Account represents a registered user of the site
type Account struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Username     string    `json:"username" db:"username" gorm:"type:varchar(100);not null;uniqueIndex:idx_accounts_username"`
	Email        string    `json:"email" db:"email" gorm:"type:varchar(254);not null;uniqueIndex:idx_accounts_email"`
	FirstName    string    `json:"first_name" db:"first_name" gorm:"type:varchar(100);not null;default:''"`
	LastName     string    `json:"last_name" db:"last_name" gorm:"type:varchar(100);not null;default:''"`
	PasswordHash string    `json:"-" db:"password_hash" gorm:"type:text;not null"`
	IsActive     bool      `json:"is_active" db:"is_active" gorm:"not null;default:true;index"`
	IsStaff      bool      `json:"is_staff" db:"is_staff" gorm:"not null;default:false"`
	IsSuperuser  bool      `json:"is_superuser" db:"is_superuser" gorm:"not null;default:false"`
	DateJoined   time.Time `json:"date_joined" db:"date_joined" gorm:"type:timestamptz;not null;autoCreateTime;index"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at" gorm:"type:timestamptz;not null;autoUpdateTime"`
}

// AccountPatch lists the account fields that a profile update may change.
// Password and identifier changes are not representable here.
type AccountPatch struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
	IsStaff   *bool   `json:"is_staff,omitempty"`
}

// IsEmpty reports whether the patch carries no fields
func (p AccountPatch) IsEmpty() bool {
	return len(p.ToUpdates()) == 0
}

// ToUpdates returns the column/value pairs present in the patch
func (p AccountPatch) ToUpdates() map[string]any {
	updates := make(map[string]any)
	if p.Email != nil {
		updates["email"] = *p.Email
	}
	if p.FirstName != nil {
		updates["first_name"] = *p.FirstName
	}
	if p.LastName != nil {
		updates["last_name"] = *p.LastName
	}
	if p.IsActive != nil {
		updates["is_active"] = *p.IsActive
	}
	if p.IsStaff != nil {
		updates["is_staff"] = *p.IsStaff
	}
	return updates
}

// Apply copies the patch onto an in-memory account
func (p AccountPatch) Apply(a *Account) {
	if p.Email != nil {
		a.Email = *p.Email
	}
	if p.FirstName != nil {
		a.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		a.LastName = *p.LastName
	}
	if p.IsActive != nil {
		a.IsActive = *p.IsActive
	}
	if p.IsStaff != nil {
		a.IsStaff = *p.IsStaff
	}
}

// AccountFilter narrows account listings. Nil fields do not filter.
type AccountFilter struct {
	IsActive    *bool
	IsStaff     *bool
	IsSuperuser *bool
}
