package api

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projectBody(slug string) map[string]any {
	return map[string]any{
		"title":        "Portfolio site",
		"description":  "A personal portfolio with a Go backend.",
		"problem":      "Showcasing work was scattered across sites.",
		"process":      "Designed the API first, then the frontend.",
		"impact":       "One place to share everything I build.",
		"results":      "Shipped",
		"project_slug": slug,
		"technologies": []string{"Go", "Postgres"},
	}
}

func createProject(t *testing.T, env *testEnv, body map[string]any) string {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/projects", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody(t, rec)["id"].(string)
}

func TestCreateProjectEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)
	createProject(t, env, projectBody("portfolio-site"))

	rec := env.do(t, http.MethodPost, "/projects", projectBody("portfolio-site"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "project_slug", decodeBody(t, rec)["field"])

	featured := projectBody("featured-draft")
	featured["is_featured"] = true
	rec = env.do(t, http.MethodPost, "/projects", featured)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "is_featured", decodeBody(t, rec)["field"])

	incomplete := projectBody("incomplete")
	delete(incomplete, "impact")
	rec = env.do(t, http.MethodPost, "/projects", incomplete)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "impact", decodeBody(t, rec)["field"])
}

func TestProjectLifecycleEndpoints(t *testing.T) {
	env := newTestEnv(t, nil)
	id := createProject(t, env, projectBody("lifecycle"))
	base := "/projects/" + id

	rec := env.do(t, http.MethodPost, base+"/feature", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, base+"/display", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, base+"/publish", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodPost, base+"/feature", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["is_featured"])

	rec = env.do(t, http.MethodGet, "/projects/featured", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"project_slug":"lifecycle"`)

	rec = env.do(t, http.MethodGet, base+"/display", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, decodeBody(t, rec), "view_count")

	rec = env.do(t, http.MethodPost, base+"/view", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, base, nil)
	assert.EqualValues(t, 1, decodeBody(t, rec)["view_count"])

	rec = env.do(t, http.MethodPost, base+"/unpublish", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["is_published"])
	assert.Equal(t, false, body["is_featured"])

	rec = env.do(t, http.MethodPatch, base, map[string]any{"title": "Renamed site"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Renamed site", decodeBody(t, rec)["title"])

	rec = env.do(t, http.MethodPut, base, map[string]any{"title": "Renamed again"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/projects/"+uuid.NewString()+"/publish", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Project not found", decodeBody(t, rec)["error"])
}

func TestProjectDeleteEndpoints(t *testing.T) {
	env := newTestEnv(t, nil)
	body := projectBody("to-delete")
	body["is_published"] = true
	id := createProject(t, env, body)

	rec := env.do(t, http.MethodDelete, "/projects/"+id, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/projects/"+id, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/projects/slug/to-delete", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.do(t, http.MethodGet, "/projects?published_only=false", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, decodeBody(t, rec)["count"])

	rec = env.do(t, http.MethodDelete, "/projects/"+id+"?hard=true", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(t, http.MethodGet, "/projects/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/projects/"+id+"?hard=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = env.do(t, http.MethodDelete, "/projects/nope", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProjectListingEndpoints(t *testing.T) {
	env := newTestEnv(t, nil)
	published := projectBody("published-one")
	published["is_published"] = true
	createProject(t, env, published)
	createProject(t, env, projectBody("draft-one"))

	rec := env.do(t, http.MethodGet, "/projects", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decodeBody(t, rec)["count"])

	rec = env.do(t, http.MethodGet, "/projects?published_only=false", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, decodeBody(t, rec)["count"])

	rec = env.do(t, http.MethodGet, "/projects/slug/draft-one", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/projects/technology/Go", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decodeBody(t, rec)["count"])

	rec = env.do(t, http.MethodGet, "/projects/search?query=P", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = env.do(t, http.MethodGet, "/projects/search?query=portfolio", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, decodeBody(t, rec)["count"])
	rec = env.do(t, http.MethodGet, "/projects/search?query=portfolio&published_only=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decodeBody(t, rec)["count"])

	rec = env.do(t, http.MethodGet, "/projects/statistics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"total": 2.0, "published": 1.0, "featured": 0.0}, decodeBody(t, rec))
}
