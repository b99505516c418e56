package api

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

type keyType string

const accountIDKey keyType = "accountID"

// ctxWithAccountID adds the authenticated account ID to the context
func ctxWithAccountID(ctx context.Context, accountID uuid.UUID) context.Context {
	return context.WithValue(ctx, accountIDKey, accountID)
}

// ctxGetAccountID retrieves the authenticated account ID from the context
func ctxGetAccountID(ctx context.Context) (uuid.UUID, error) {
	id, ok := ctx.Value(accountIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, errors.New("account ID not found in context")
	}
	return id, nil
}
