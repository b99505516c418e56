package api

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-backend/models"
)

type countingNotifier struct{ calls int }

func (n *countingNotifier) Name() string { return "counting" }

func (n *countingNotifier) Notify(context.Context, *models.Contact) error {
	n.calls++
	return nil
}

func contactBody() map[string]any {
	return map[string]any{
		"full_name": "Ada Lovelace",
		"email":     "ada@example.com",
		"subject":   "Project inquiry",
		"message":   "I would like to discuss a project with you.",
	}
}

func TestSubmitContactEndpoint(t *testing.T) {
	notifier := &countingNotifier{}
	env := newTestEnv(t, nil, notifier)

	rec := env.do(t, http.MethodPost, "/contacts", contactBody(),
		"X-Forwarded-For", "203.0.113.7, 10.0.0.1",
		"User-Agent", "curl/8.0")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "ada@example.com", body["email"])
	assert.Equal(t, "new", body["status"])
	assert.Equal(t, "203.0.113.7", body["ip_address"])
	assert.Equal(t, "curl/8.0", body["user_agent"])
	assert.Equal(t, 1, notifier.calls)

	rec = env.do(t, http.MethodPost, "/contacts", contactBody(),
		"X-Forwarded-For", strings.Repeat("spoofed", 20)+", 10.0.0.1")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "192.0.2.1", decodeBody(t, rec)["ip_address"])

	short := contactBody()
	short["subject"] = "Hey"
	rec = env.do(t, http.MethodPost, "/contacts", short)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "subject", decodeBody(t, rec)["field"])

	missing := contactBody()
	delete(missing, "message")
	rec = env.do(t, http.MethodPost, "/contacts", missing)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "message", decodeBody(t, rec)["field"])
}

func TestContactDetailEndpoints(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(t, http.MethodPost, "/contacts", contactBody(), "User-Agent", "not json")
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeBody(t, rec)["id"].(string)

	rec = env.do(t, http.MethodGet, "/contacts/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{}, decodeBody(t, rec)["user_agent_parsed"])

	rec = env.do(t, http.MethodGet, "/contacts/bad-id", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid contact ID format", decodeBody(t, rec)["error"])

	rec = env.do(t, http.MethodPatch, "/contacts/"+id, map[string]any{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid status. Must be one of: new, contacted, closed", decodeBody(t, rec)["error"])

	rec = env.do(t, http.MethodPatch, "/contacts/"+id, map[string]any{"status": "closed"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "closed", decodeBody(t, rec)["status"])

	rec = env.do(t, http.MethodPatch, "/contacts/"+uuid.NewString(), map[string]any{"status": "closed"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/contacts/statistics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"total": 1.0, "new": 0.0, "contacted": 0.0, "closed": 1.0}, decodeBody(t, rec))

	rec = env.do(t, http.MethodDelete, "/contacts/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(t, http.MethodGet, "/contacts/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Contact not found", decodeBody(t, rec)["error"])
}

func TestListAndSearchContactsEndpoints(t *testing.T) {
	env := newTestEnv(t, nil)
	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/contacts", contactBody()).Code)
	}

	rec := env.do(t, http.MethodGet, "/contacts?page_size=2&status=new", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.EqualValues(t, 3, body["count"])
	assert.Len(t, body["results"], 2)

	rec = env.do(t, http.MethodGet, "/contacts?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/contacts/search?query=p", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/contacts/search?query=zz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"count": 0.0, "results": []any{}}, decodeBody(t, rec))

	rec = env.do(t, http.MethodGet, "/contacts/search?query=inquiry&status=new", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 3, decodeBody(t, rec)["count"])
}
