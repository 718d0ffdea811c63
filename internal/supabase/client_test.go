package supabase

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beanthere/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(Config{URL: srv.URL + "/", APIKey: "anon-key"})
	require.NoError(t, err)
	return c
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(Config{APIKey: "k"})
	assert.Error(t, err)
	_, err = New(Config{URL: "http://x"})
	assert.Error(t, err)
}

func TestQueryBuilder_Select(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/dev_reviews", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "*", q.Get("select"))
		assert.Equal(t, "eq.cafe_1", q.Get("cafe_id"))
		assert.Equal(t, "created_at.desc", q.Get("order"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"id":"r1"}]`))
	})

	ctx := WithAccessToken(context.Background(), "user-token")
	resp, err := c.From("dev_reviews").Select("*").Eq("cafe_id", "cafe_1").Order("created_at", false).Execute(ctx)
	require.NoError(t, err)

	var rows []struct {
		ID string `json:"id"`
	}
	require.NoError(t, resp.JSON(&rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "r1", rows[0].ID)
}

func TestQueryBuilder_WritesUseRepresentation(t *testing.T) {
	tests := []struct {
		name       string
		run        func(c *Client) error
		wantMethod string
		wantPrefer string
		wantQuery  string
	}{
		{
			name:       "insert",
			run:        func(c *Client) error { _, err := c.From("t").Insert(context.Background(), map[string]any{"a": 1}); return err },
			wantMethod: http.MethodPost,
			wantPrefer: "return=representation",
		},
		{
			name:       "upsert",
			run:        func(c *Client) error { _, err := c.From("t").Upsert(context.Background(), map[string]any{"a": 1}, "uid"); return err },
			wantMethod: http.MethodPost,
			wantPrefer: "resolution=merge-duplicates,return=representation",
			wantQuery:  "on_conflict=uid",
		},
		{
			name:       "update",
			run:        func(c *Client) error { _, err := c.From("t").Eq("id", "x").Update(context.Background(), map[string]any{"a": 1}); return err },
			wantMethod: http.MethodPatch,
			wantPrefer: "return=representation",
			wantQuery:  "id=eq.x",
		},
		{
			name:       "delete",
			run:        func(c *Client) error { _, err := c.From("t").Eq("id", "x").Delete(context.Background()); return err },
			wantMethod: http.MethodDelete,
			wantPrefer: "return=representation",
			wantQuery:  "id=eq.x",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.wantMethod, r.Method)
				assert.Equal(t, tt.wantPrefer, r.Header.Get("Prefer"))
				assert.Equal(t, tt.wantQuery, r.URL.RawQuery)
				assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))
				_, _ = w.Write([]byte(`[]`))
			})
			require.NoError(t, tt.run(c))
		})
	}
}

func TestParseError_MapsToDomain(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		message  string
	}{
		{
			name:     "missing table",
			status:   http.StatusNotFound,
			body:     `{"code":"PGRST205","message":"Could not find the table 'public.dev_reviews' in the schema cache"}`,
			sentinel: domain.ErrBackendUnavailable,
		},
		{
			name:     "undefined relation",
			status:   http.StatusNotFound,
			body:     `{"code":"42P01","message":"relation \"dev_reviews\" does not exist"}`,
			sentinel: domain.ErrBackendUnavailable,
		},
		{
			name:     "service unavailable",
			status:   http.StatusServiceUnavailable,
			body:     `upstream connect error`,
			sentinel: domain.ErrBackendUnavailable,
			message:  "upstream connect error",
		},
		{
			name:     "duplicate",
			status:   http.StatusConflict,
			body:     `{"code":"23505","message":"duplicate key value violates unique constraint"}`,
			sentinel: domain.ErrConflict,
		},
		{
			name:     "single no rows",
			status:   http.StatusNotAcceptable,
			body:     `{"code":"PGRST116","message":"JSON object requested, multiple (or no) rows returned"}`,
			sentinel: domain.ErrNotFound,
		},
		{
			name:     "gotrue numeric code",
			status:   http.StatusBadRequest,
			body:     `{"code":400,"error_code":"invalid_credentials","msg":"Invalid login credentials"}`,
			sentinel: nil,
			message:  "Invalid login credentials",
		},
		{
			name:     "gotrue oauth style",
			status:   http.StatusUnauthorized,
			body:     `{"error":"invalid_grant","error_description":"Email not confirmed"}`,
			sentinel: domain.ErrUnauthorized,
			message:  "Email not confirmed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseError([]byte(tt.body), tt.status)
			var sbErr *Error
			require.True(t, errors.As(err, &sbErr))
			if tt.sentinel != nil {
				assert.True(t, errors.Is(err, tt.sentinel))
			}
			if tt.message != "" {
				assert.Equal(t, tt.message, sbErr.Message)
			}
			assert.Equal(t, tt.status, sbErr.Status)
		})
	}
}

func TestClient_TransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	c, err := New(Config{URL: srv.URL, APIKey: "k"})
	require.NoError(t, err)

	_, err = c.From("t").Execute(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsBackendUnavailable(err))
}

func TestAuth_SignUpWithConfirmation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"email":"a@b.co"`)
		_, _ = w.Write([]byte(`{"id":"u1","email":"a@b.co","created_at":"2024-05-01T12:00:00Z","email_confirmed_at":null}`))
	})

	resp, err := c.Auth().SignUp(context.Background(), "a@b.co", "secret1", nil)
	require.NoError(t, err)
	require.NotNil(t, resp.User)
	assert.Equal(t, "u1", resp.User.ID)
	assert.Empty(t, resp.AccessToken)
	assert.Nil(t, resp.User.EmailConfirmedAt)
}

func TestAuth_SignInWithPassword(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		_, _ = w.Write([]byte(`{"access_token":"at","refresh_token":"rt","expires_in":3600,"user":{"id":"u1","email":"a@b.co"}}`))
	})

	resp, err := c.Auth().SignInWithPassword(context.Background(), "a@b.co", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "at", resp.AccessToken)
	assert.Equal(t, "u1", resp.User.ID)
}

func TestAuth_SignOutSendsUserToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/logout", r.URL.Path)
		assert.Equal(t, "Bearer at", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, c.Auth().SignOut(context.Background(), "at"))
}

func TestStorage_PublicURLRoundTrip(t *testing.T) {
	c, err := New(Config{URL: "https://proj.supabase.co", APIKey: "k"})
	require.NoError(t, err)
	bucket := c.Storage().From("avatars")

	u := bucket.PublicURL("profile-pictures/u1/1.jpg")
	assert.Equal(t, "https://proj.supabase.co/storage/v1/object/public/avatars/profile-pictures/u1/1.jpg", u)

	path, ok := bucket.PathFromPublicURL(u + "?t=1")
	assert.True(t, ok)
	assert.Equal(t, "profile-pictures/u1/1.jpg", path)

	_, ok = bucket.PathFromPublicURL("https://lh3.googleusercontent.com/a/photo.jpg")
	assert.False(t, ok)
}

func TestStorage_Delete(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/storage/v1/object/avatars", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"prefixes":["a/b.jpg"]}`, string(body))
		_, _ = w.Write([]byte(`[]`))
	})
	require.NoError(t, c.Storage().From("avatars").Delete(context.Background(), []string{"a/b.jpg"}))
}
