package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-backend/fakes"
	"github.com/rpupo63/portfolio-backend/models"
)

type recordingNotifier struct {
	name string
	err  error

	mu   sync.Mutex
	seen []uuid.UUID
}

func (n *recordingNotifier) Name() string { return n.name }

func (n *recordingNotifier) Notify(_ context.Context, c *models.Contact) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seen = append(n.seen, c.ID)
	return n.err
}

func validSubmission() SubmitInput {
	return SubmitInput{
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
		Subject:  "Hello there",
		Message:  "I would like to talk about a project.",
	}
}

func ptr[T any](v T) *T { return &v }

func TestSubmitContact(t *testing.T) {
	repo := fakes.NewContactRepo()
	email := &recordingNotifier{name: "email"}
	svc := NewContactService(repo, NewNotificationDispatcher(email))

	in := validSubmission()
	in.FullName = "  Ada\x00 Lovelace  "
	in.Email = "  Ada@Example.COM "
	in.PhoneNumber = ptr("+1 (555) 123-4567 ext")
	in.Organization = ptr("")

	contact, err := svc.Submit(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", contact.FullName)
	assert.Equal(t, "ada@example.com", contact.Email)
	require.NotNil(t, contact.PhoneNumber)
	assert.Equal(t, "+1 (555) 123-4567", *contact.PhoneNumber)
	assert.Nil(t, contact.Organization)
	assert.Equal(t, models.ContactStatusNew, contact.Status)
	assert.Equal(t, []uuid.UUID{contact.ID}, email.seen)

	stored, err := repo.GetByID(context.Background(), contact.ID)
	require.NoError(t, err)
	assert.Equal(t, contact.Email, stored.Email)
}

func TestSubmitContactSurvivesNotifierFailure(t *testing.T) {
	failing := &recordingNotifier{name: "sms", err: errors.New("twilio down")}
	svc := NewContactService(fakes.NewContactRepo(), NewNotificationDispatcher(failing))

	contact, err := svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	assert.NotNil(t, contact)
	assert.Len(t, failing.seen, 1)
}

func TestSubmitContactValidation(t *testing.T) {
	svc := NewContactService(fakes.NewContactRepo(), nil)
	tests := []struct {
		name  string
		edit  func(*SubmitInput)
		field string
	}{
		{"short name", func(in *SubmitInput) { in.FullName = " A " }, "full_name"},
		{"bad email", func(in *SubmitInput) { in.Email = "ada@" }, "email"},
		{"short subject", func(in *SubmitInput) { in.Subject = "Hi" }, "subject"},
		{"short message", func(in *SubmitInput) { in.Message = "Too short" }, "message"},
		{"long method", func(in *SubmitInput) { in.PreferredContactMethod = ptr(strings.Repeat("x", 31)) }, "preferred_contact_method"},
		{"subject short once sanitized", func(in *SubmitInput) { in.Subject = "ab\x01\x02\x03" }, "subject"},
		{"message padded with control characters", func(in *SubmitInput) { in.Message = "Hi\x00\x00\x00\x00\x00\x00\x00\x00\x00" }, "message"},
		{"long email", func(in *SubmitInput) { in.Email = strings.Repeat("a", 90) + "@example.com" }, "email"},
		{"long phone", func(in *SubmitInput) { in.PhoneNumber = ptr(strings.Repeat("1", 101)) }, "phone_number"},
		{"long file reference", func(in *SubmitInput) { in.FileAttached = ptr("https://files.example.com/" + strings.Repeat("f", 480)) }, "file_attached"},
		{"long ip address", func(in *SubmitInput) { in.IPAddress = ptr(strings.Repeat("1", 61)) }, "ip_address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validSubmission()
			tt.edit(&in)
			_, err := svc.Submit(context.Background(), in)
			var v *ValidationError
			require.True(t, errors.As(err, &v))
			assert.Equal(t, tt.field, v.Field)
		})
	}

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestContactStatus(t *testing.T) {
	svc := NewContactService(fakes.NewContactRepo(), nil)
	ctx := context.Background()
	contact, err := svc.Submit(ctx, validSubmission())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, contact.ID, "archived")
	var v *ValidationError
	require.True(t, errors.As(err, &v))
	assert.Equal(t, "Invalid status. Must be one of: new, contacted, closed", v.Message)

	updated, err := svc.UpdateStatus(ctx, contact.ID, "contacted")
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusContacted, updated.Status)

	missing, err := svc.UpdateStatus(ctx, uuid.New(), "closed")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = svc.ListByStatus(ctx, "bogus")
	assert.ErrorIs(t, err, ErrValidation)

	contacted, err := svc.ListByStatus(ctx, "contacted")
	require.NoError(t, err)
	assert.Len(t, contacted, 1)

	stats, err := svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, &ContactStatistics{Total: 1, Contacted: 1}, stats)
}

func TestListFilteredContacts(t *testing.T) {
	svc := NewContactService(fakes.NewContactRepo(), nil)
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		in := validSubmission()
		if i%3 == 0 {
			in.Email = "grace@example.com"
		}
		_, err := svc.Submit(ctx, in)
		require.NoError(t, err)
	}

	page, err := svc.ListFiltered(ctx, 1, 5, models.ContactFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(12), page.Total)
	assert.Len(t, page.Items, 5)
	assert.True(t, page.Items[0].CreatedAt.After(page.Items[1].CreatedAt))

	last, err := svc.ListFiltered(ctx, 3, 5, models.ContactFilter{})
	require.NoError(t, err)
	assert.Len(t, last.Items, 2)

	beyond, err := svc.ListFiltered(ctx, 9, 5, models.ContactFilter{})
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)

	grace, err := svc.ListFiltered(ctx, 1, 10, models.ContactFilter{Email: " Grace@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), grace.Total)

	_, err = svc.ListFiltered(ctx, 1, 10, models.ContactFilter{Status: "pending"})
	assert.ErrorIs(t, err, ErrValidation)

	byEmail, err := svc.ListByEmail(ctx, "grace@example.com")
	require.NoError(t, err)
	assert.Len(t, byEmail, 4)
}

func TestSearchContacts(t *testing.T) {
	svc := NewContactService(fakes.NewContactRepo(), nil)
	ctx := context.Background()
	in := validSubmission()
	in.Subject = "Consulting request"
	_, err := svc.Submit(ctx, in)
	require.NoError(t, err)

	_, err = svc.Search(ctx, "c", "")
	assert.ErrorIs(t, err, ErrValidation)

	found, err := svc.Search(ctx, "co", "")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = svc.Search(ctx, "consult", "closed")
	require.NoError(t, err)
	assert.Empty(t, found)

	_, err = svc.Search(ctx, "consult", "weird")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteContact(t *testing.T) {
	svc := NewContactService(fakes.NewContactRepo(), nil)
	ctx := context.Background()
	contact, err := svc.Submit(ctx, validSubmission())
	require.NoError(t, err)

	ok, err := svc.Delete(ctx, contact.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Delete(ctx, contact.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := svc.Get(ctx, contact.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
