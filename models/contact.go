package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ContactStatus is the follow-up state of a contact submission
type ContactStatus string

const (
	ContactStatusNew       ContactStatus = "new"
	ContactStatusContacted ContactStatus = "contacted"
	ContactStatusClosed    ContactStatus = "closed"
)

// ContactStatuses lists every valid status in workflow order
var ContactStatuses = []ContactStatus{ContactStatusNew, ContactStatusContacted, ContactStatusClosed}

// Valid reports whether s is one of the known statuses
func (s ContactStatus) Valid() bool {
	for _, status := range ContactStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Contact represents a message submitted through the public contact form
type Contact struct {
	ID                     uuid.UUID     `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	FullName               string        `json:"full_name" db:"full_name" gorm:"type:varchar(100);not null"`
	Email                  string        `json:"email" db:"email" gorm:"type:varchar(100);not null;index"`
	PhoneNumber            *string       `json:"phone_number" db:"phone_number" gorm:"type:varchar(100);index"`
	Subject                string        `json:"subject" db:"subject" gorm:"type:varchar(100);not null"`
	Message                string        `json:"message" db:"message" gorm:"type:text;not null"`
	FileAttached           *string       `json:"file_attached" db:"file_attached" gorm:"type:varchar(500)"`
	PreferredContactMethod *string       `json:"preferred_contact_method" db:"preferred_contact_method" gorm:"type:varchar(30)"`
	IPAddress              *string       `json:"ip_address" db:"ip_address" gorm:"type:varchar(60)"`
	UserAgent              *string       `json:"user_agent" db:"user_agent" gorm:"type:text"`
	Organization           *string       `json:"organization" db:"organization" gorm:"type:varchar(100)"`
	Status                 ContactStatus `json:"status" db:"status" gorm:"type:varchar(10);not null;default:'new';index"`
	CreatedAt              time.Time     `json:"created_at" db:"created_at" gorm:"type:timestamptz;not null;autoCreateTime;index"`
	UpdatedAt              time.Time     `json:"updated_at" db:"updated_at" gorm:"type:timestamptz;not null;autoUpdateTime"`
}

// ParsedUserAgent decodes the stored user agent payload. Empty or invalid
// payloads yield an empty map.
func (c *Contact) ParsedUserAgent() map[string]any {
	parsed := map[string]any{}
	if c.UserAgent == nil || *c.UserAgent == "" {
		return parsed
	}
	if err := json.Unmarshal([]byte(*c.UserAgent), &parsed); err != nil || parsed == nil {
		return map[string]any{}
	}
	return parsed
}

// ContactPatch lists the contact fields that may change after submission
type ContactPatch struct {
	Status *ContactStatus `json:"status,omitempty"`
}

// ToUpdates returns the column/value pairs present in the patch
func (p ContactPatch) ToUpdates() map[string]any {
	updates := make(map[string]any)
	if p.Status != nil {
		updates["status"] = *p.Status
	}
	return updates
}

// Apply copies the patch onto an in-memory contact
func (p ContactPatch) Apply(c *Contact) {
	if p.Status != nil {
		c.Status = *p.Status
	}
}

// ContactFilter narrows contact listings. Empty fields do not filter.
type ContactFilter struct {
	Status                 ContactStatus
	Email                  string
	PreferredContactMethod string
	CreatedFrom            *time.Time
	CreatedTo              *time.Time
}
