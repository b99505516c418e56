package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rpupo63/portfolio-backend/fakes"
	"github.com/rpupo63/portfolio-backend/models"
)

var (
	_ AccountRepository = (*fakes.AccountRepo)(nil)
	_ ContactRepository = (*fakes.ContactRepo)(nil)
	_ ProjectRepository = (*fakes.ProjectRepo)(nil)
)

func newAccountService(t *testing.T) (*AccountService, *fakes.AccountRepo) {
	t.Helper()
	repo := fakes.NewAccountRepo()
	return NewAccountService(repo, NewPasswordHasher(bcrypt.MinCost)), repo
}

func register(t *testing.T, svc *AccountService, username, email string) *models.Account {
	t.Helper()
	account, err := svc.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    email,
		Password: "Password1",
	})
	require.NoError(t, err)
	return account
}

func TestRegister(t *testing.T) {
	svc, repo := newAccountService(t)
	ctx := context.Background()

	account := register(t, svc, "ada", "ada@example.com")
	assert.NotEqual(t, uuid.Nil, account.ID)
	assert.True(t, account.IsActive)
	assert.NotEqual(t, "Password1", account.PasswordHash)

	stored, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, NewPasswordHasher(bcrypt.MinCost).Matches(stored.PasswordHash, "Password1"))
}

func TestRegisterConflicts(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()
	register(t, svc, "ada", "ada@example.com")

	_, err := svc.Register(ctx, RegisterInput{Username: "ada", Email: "ada2@example.com", Password: "Password1"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Register(ctx, RegisterInput{Username: "grace", Email: "ada@example.com", Password: "Password1"})
	assert.ErrorIs(t, err, ErrConflict)

	var c *ConflictError
	require.True(t, errors.As(err, &c))
	assert.Equal(t, "email", c.Field)
}

func TestRegisterStorageConflictIsReclassified(t *testing.T) {
	svc, repo := newAccountService(t)
	register(t, svc, "ada", "ada@example.com")

	repo.HideFromLookups = true
	_, err := svc.Register(context.Background(), RegisterInput{Username: "ada", Email: "ada@example.com", Password: "Password1"})

	assert.ErrorIs(t, err, ErrConflict)
	var c *ConflictError
	require.True(t, errors.As(err, &c))
	assert.Equal(t, "username", c.Field)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAccountService(t)
	tests := []struct {
		name  string
		in    RegisterInput
		field string
	}{
		{"short username", RegisterInput{Username: " ab ", Email: "ab@example.com", Password: "Password1"}, "username"},
		{"bad email", RegisterInput{Username: "abc", Email: "a@b", Password: "Password1"}, "email"},
		{"weak password", RegisterInput{Username: "abc", Email: "abc@example.com", Password: "password1"}, "password"},
		{"long first name", RegisterInput{Username: "abc", Email: "abc@example.com", Password: "Password1", FirstName: strings.Repeat("n", 101)}, "first_name"},
		{"long username", RegisterInput{Username: strings.Repeat("u", 101), Email: "abc@example.com", Password: "Password1"}, "username"},
		{"long email", RegisterInput{Username: "abc", Email: strings.Repeat("e", 243) + "@example.com", Password: "Password1"}, "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.in)
			var v *ValidationError
			require.True(t, errors.As(err, &v))
			assert.Equal(t, tt.field, v.Field)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestRegisterBoundsUseTrimmedValues(t *testing.T) {
	svc, _ := newAccountService(t)
	username := strings.Repeat("u", 100)

	account, err := svc.Register(context.Background(), RegisterInput{
		Username:  "  " + username + "  ",
		Email:     "ada@example.com",
		Password:  "Password1",
		FirstName: " " + strings.Repeat("n", 100) + " ",
	})
	require.NoError(t, err)
	assert.Equal(t, username, account.Username)
	assert.Equal(t, strings.Repeat("n", 100), account.FirstName)
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()
	account := register(t, svc, "ada", "ada@example.com")

	got, err := svc.Authenticate(ctx, "ada", "Password1")
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)

	got, err = svc.Authenticate(ctx, "ghost", "X")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	got, err = svc.Authenticate(ctx, "ada", "Wrong1234")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Deactivate(ctx, account.ID)
	require.NoError(t, err)
	got, err = svc.Authenticate(ctx, "ada", "Password1")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLongPasswordRoundTrip(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()
	long := "Password1" + strings.Repeat("a", 91)
	require.NoError(t, ValidatePassword(long))

	account, err := svc.Register(ctx, RegisterInput{Username: "ada", Email: "ada@example.com", Password: long})
	require.NoError(t, err)

	got, err := svc.Authenticate(ctx, "ada", long)
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)

	_, err = svc.Authenticate(ctx, "ada", long[:72])
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	longer := "Password2" + strings.Repeat("b", 119)
	require.NoError(t, svc.ChangePassword(ctx, account.ID, long, longer))
	ok, err := svc.ResetPassword(ctx, account.ID, long)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()
	account := register(t, svc, "ada", "ada@example.com")

	// old password is checked before the new one is validated
	err := svc.ChangePassword(ctx, account.ID, "Wrong1234", "weak")
	assert.ErrorIs(t, err, ErrInvalidOldPassword)

	err = svc.ChangePassword(ctx, uuid.New(), "Password1", "Password2")
	assert.ErrorIs(t, err, ErrInvalidOldPassword)

	err = svc.ChangePassword(ctx, account.ID, "Password1", "weak")
	var v *ValidationError
	require.True(t, errors.As(err, &v))
	assert.Equal(t, "new_password", v.Field)

	require.NoError(t, svc.ChangePassword(ctx, account.ID, "Password1", "Password2"))
	_, err = svc.Authenticate(ctx, "ada", "Password2")
	assert.NoError(t, err)
	_, err = svc.Authenticate(ctx, "ada", "Password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResetPassword(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()
	account := register(t, svc, "ada", "ada@example.com")

	ok, err := svc.ResetPassword(ctx, account.ID, "Newpass99")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.ResetPassword(ctx, uuid.New(), "Newpass99")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.ResetPassword(ctx, account.ID, "short")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateAccount(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()
	ada := register(t, svc, "ada", "ada@example.com")
	register(t, svc, "grace", "grace@example.com")

	taken := "grace@example.com"
	_, err := svc.Update(ctx, ada.ID, models.AccountPatch{Email: &taken})
	assert.ErrorIs(t, err, ErrConflict)

	bad := "not-an-email"
	_, err = svc.Update(ctx, ada.ID, models.AccountPatch{Email: &bad})
	assert.ErrorIs(t, err, ErrValidation)

	long := strings.Repeat("e", 243) + "@example.com"
	_, err = svc.Update(ctx, ada.ID, models.AccountPatch{Email: &long})
	assert.ErrorIs(t, err, ErrValidation)

	padded := "  Augusta  "
	trimmed, err := svc.Update(ctx, ada.ID, models.AccountPatch{LastName: &padded})
	require.NoError(t, err)
	assert.Equal(t, "Augusta", trimmed.LastName)

	same := "ada@example.com"
	name := "Ada"
	updated, err := svc.Update(ctx, ada.ID, models.AccountPatch{Email: &same, FirstName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.FirstName)

	missing, err := svc.Update(ctx, uuid.New(), models.AccountPatch{FirstName: &name})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListAccountsPagination(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()
	for i := 0; i < 25; i++ {
		register(t, svc, "user"+string(rune('a'+i))+"xx", "user"+string(rune('a'+i))+"@example.com")
	}

	p1, err := svc.List(ctx, 1, 10)
	require.NoError(t, err)
	p2, err := svc.List(ctx, 2, 10)
	require.NoError(t, err)
	both, err := svc.List(ctx, 1, 20)
	require.NoError(t, err)

	assert.Equal(t, int64(25), p1.Total)
	assert.Equal(t, append(p1.Items, p2.Items...), both.Items)

	_, err = svc.List(ctx, 0, 10)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.List(ctx, 1, 101)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAccountSearchAndStatistics(t *testing.T) {
	svc, repo := newAccountService(t)
	ctx := context.Background()
	ada := register(t, svc, "ada", "ada@example.com")
	register(t, svc, "grace", "grace@example.com")

	staff := true
	_, err := repo.Update(ctx, ada.ID, models.AccountPatch{IsStaff: &staff})
	require.NoError(t, err)
	_, err = svc.Deactivate(ctx, ada.ID)
	require.NoError(t, err)

	_, err = svc.Search(ctx, "a")
	assert.ErrorIs(t, err, ErrValidation)

	found, err := svc.Search(ctx, "GR")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "grace", found[0].Username)

	none, err := svc.Search(ctx, "zz")
	require.NoError(t, err)
	assert.Empty(t, none)

	stats, err := svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, &AccountStatistics{Total: 2, Active: 1, Staff: 1}, stats)

	staffList, err := svc.ListStaff(ctx)
	require.NoError(t, err)
	assert.Len(t, staffList, 1)
	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)
	supers, err := svc.ListSuperusers(ctx)
	require.NoError(t, err)
	assert.Empty(t, supers)
}

func TestAccountRepositoryFaultPropagates(t *testing.T) {
	svc, repo := newAccountService(t)
	fault := errors.New("connection refused")
	repo.Err = fault

	_, err := svc.Register(context.Background(), RegisterInput{Username: "ada", Email: "ada@example.com", Password: "Password1"})
	assert.ErrorIs(t, err, fault)
	assert.NotErrorIs(t, err, ErrConflict)
}
