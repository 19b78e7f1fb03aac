package users

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NCATS-Gamma/ginhashids/internal/hashids"
	"github.com/NCATS-Gamma/ginhashids/internal/routing"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func performRequest(r http.Handler, method, path string, body *string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == nil {
		req, _ = http.NewRequest(method, path, nil)
	} else {
		req, _ = http.NewRequest(method, path, strings.NewReader(*body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type testApp struct {
	router  *gin.Engine
	routes  *routing.Router
	hashids *hashids.Hashids
	store   *Store
}

// newTestApp serves John (1) and Jane (2) with the salt "secret!".
func newTestApp(t *testing.T) testApp {
	t.Helper()
	salt := "secret!"
	h, err := hashids.New(hashids.Config{Salt: &salt})
	require.NoError(t, err)

	store, err := OpenStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.LoadSampleData())

	r, routes, err := SetupRouter(store, h, []string{"http://lvh.me"})
	require.NoError(t, err)
	return testApp{router: r, routes: routes, hashids: h, store: store}
}

func (a testApp) hash(t *testing.T, ids ...int) string {
	t.Helper()
	hash, err := a.hashids.Encode(ids...)
	require.NoError(t, err)
	return hash
}

func TestScenario(t *testing.T) {
	app := newTestApp(t)

	john, err := app.store.GetUser(1)
	require.NoError(t, err)
	jane, err := app.store.GetUser(2)
	require.NoError(t, err)
	h1 := app.hashids.MustPublicID(&john)
	h2 := app.hashids.MustPublicID(&jane)
	assert.NotEqual(t, h1, h2)

	w := performRequest(app.router, "GET", "/users/"+h1, nil)
	if !assert.Equal(t, http.StatusOK, w.Code) {
		return
	}
	var user map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, map[string]string{"id": h1, "name": "John", "url": "/users/" + h1}, user)

	url, err := app.routes.URLFor("read_user", map[string]any{"user_id": 1})
	require.NoError(t, err)
	assert.Equal(t, "/users/"+h1, url)

	w = performRequest(app.router, "GET", "/users/not-a-real-hashid", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReadUsers(t *testing.T) {
	app := newTestApp(t)

	w := performRequest(app.router, "GET", "/users", nil)
	if !assert.Equal(t, http.StatusOK, w.Code) {
		return
	}
	var users []map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 2)
	assert.Equal(t, app.hash(t, 1), users[0]["id"])
	assert.Equal(t, "John", users[0]["name"])
	assert.Equal(t, app.hash(t, 2), users[1]["id"])
	assert.Equal(t, "Jane", users[1]["name"])
	// The primary key is never exposed
	assert.NotContains(t, w.Body.String(), `"ID"`)
}

func TestCreateUser(t *testing.T) {
	app := newTestApp(t)

	body := `{"name": "Jim"}`
	w := performRequest(app.router, "POST", "/users", &body)
	if !assert.Equal(t, http.StatusCreated, w.Code) {
		return
	}
	var user map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, app.hash(t, 3), user["id"])
	assert.Equal(t, "Jim", user["name"])

	w = performRequest(app.router, "GET", user["url"], nil)
	assert.Equal(t, http.StatusOK, w.Code)

	body = `{"nickname": "Jim"}`
	w = performRequest(app.router, "POST", "/users", &body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateUser(t *testing.T) {
	app := newTestApp(t)
	h1 := app.hash(t, 1)

	body := `{"name": "Johnny"}`
	w := performRequest(app.router, "PUT", "/users/"+h1, &body)
	if !assert.Equal(t, http.StatusNoContent, w.Code) {
		return
	}
	assert.Equal(t, "/users/"+h1, w.Header().Get("Content-Location"))

	user, err := app.store.GetUser(1)
	require.NoError(t, err)
	assert.Equal(t, "Johnny", user.Name)

	// Missing name keeps the current one
	body = `{}`
	w = performRequest(app.router, "PUT", "/users/"+h1, &body)
	assert.Equal(t, http.StatusNoContent, w.Code)
	user, err = app.store.GetUser(1)
	require.NoError(t, err)
	assert.Equal(t, "Johnny", user.Name)

	w = performRequest(app.router, "PUT", "/users/"+app.hash(t, 99), &body)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteUser(t *testing.T) {
	app := newTestApp(t)
	h2 := app.hash(t, 2)

	w := performRequest(app.router, "DELETE", "/users/"+h2, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = performRequest(app.router, "GET", "/users/"+h2, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(app.router, "DELETE", "/users/"+h2, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCompositeIDs(t *testing.T) {
	app := newTestApp(t)

	// A composite hashid does not address a single user
	w := performRequest(app.router, "GET", "/users/"+app.hash(t, 1, 2), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	url, err := app.routes.URLFor("read_pair", map[string]any{"user_ids": []int{2, 1}})
	require.NoError(t, err)
	w = performRequest(app.router, "GET", url, nil)
	if !assert.Equal(t, http.StatusOK, w.Code) {
		return
	}
	var pair []map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pair))
	require.Len(t, pair, 2)
	assert.Equal(t, "Jane", pair[0]["name"])
	assert.Equal(t, "John", pair[1]["name"])

	w = performRequest(app.router, "GET", "/pairs/"+app.hash(t, 1), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetupRouterTwiceOnOneHolder(t *testing.T) {
	app := newTestApp(t)
	_, _, err := SetupRouter(app.store, app.hashids, nil)
	assert.NoError(t, err)
}
