package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rpupo63/portfolio-backend/fakes"
	"github.com/rpupo63/portfolio-backend/services"
)

type testEnv struct {
	router   http.Handler
	accounts *fakes.AccountRepo
	contacts *fakes.ContactRepo
	projects *fakes.ProjectRepo
}

func newTestEnv(t *testing.T, cfg map[string]string, notifiers ...services.Notifier) *testEnv {
	t.Helper()
	tokens, err := services.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	env := &testEnv{
		accounts: fakes.NewAccountRepo(),
		contacts: fakes.NewContactRepo(),
		projects: fakes.NewProjectRepo(),
	}
	env.router = newRouter(Services{
		Accounts: services.NewAccountService(env.accounts, services.NewPasswordHasher(bcrypt.MinCost)),
		Contacts: services.NewContactService(env.contacts, services.NewNotificationDispatcher(notifiers...)),
		Projects: services.NewProjectService(env.projects),
		Tokens:   tokens,
	}, withConfig(cfg))
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
