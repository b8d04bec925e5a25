package supabase_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/privat-admin-api/internal/domain/entity"
	"github.com/jhoicas/privat-admin-api/internal/infrastructure/supabase"
)

const serviceKey = "service-role-test"

func TestListPage_ParseaUsuariosYMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/admin/users", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "1000", r.URL.Query().Get("per_page"))
		assert.Equal(t, serviceKey, r.Header.Get("apikey"))
		assert.Equal(t, "Bearer "+serviceKey, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"users":[
			{"id":"u1","email":"a@b.it","created_at":"2025-06-01T10:00:00.123456Z","last_sign_in_at":"2025-06-02T10:00:00Z",
			 "banned_until":"none","user_metadata":{"role":"service_provider","credits":40,"jobLeadsPaid":[{"jobId":"j1"}]},
			 "app_metadata":{"provider":"email"}},
			{"id":"u2","created_at":"2025-06-01T10:00:00Z","user_metadata":null,"app_metadata":{"role":"admin"}}
		],"aud":"authenticated"}`))
	}))
	defer srv.Close()

	c := supabase.NewAdminClient(srv.URL, serviceKey, time.Second)
	list, err := c.ListPage(context.Background(), 2, 1000)
	require.NoError(t, err)
	require.Len(t, list, 2)

	u1 := list[0]
	assert.Equal(t, "a@b.it", u1.Email)
	require.NotNil(t, u1.LastSignInAt)
	assert.Nil(t, u1.BannedUntil)
	p := entity.ParseProfile(u1.UserMetadata)
	assert.Equal(t, int64(40), p.Credits)
	assert.Equal(t, []entity.JobRef{{JobID: "j1"}}, p.JobLeadsPaid)

	assert.NotNil(t, list[1].UserMetadata)
	assert.Equal(t, entity.RoleAdmin, list[1].Role())
}

func TestGetByID_NoEncontradoDevuelveNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":404,"error_code":"user_not_found","msg":"User not found"}`))
	}))
	defer srv.Close()

	ident, err := supabase.NewAdminClient(srv.URL, serviceKey, time.Second).GetByID(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, ident)
}

func TestUpdateUserMetadata_EnviaBolsaCompleta(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/auth/v1/admin/users/u1", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &got))
		_, _ = w.Write([]byte(`{"id":"u1"}`))
	}))
	defer srv.Close()

	meta := entity.Metadata{"status": "blocked", "businessName": "Rossi", "credits": int64(5)}
	require.NoError(t, supabase.NewAdminClient(srv.URL, serviceKey, time.Second).UpdateUserMetadata(context.Background(), "u1", meta))
	assert.Equal(t, map[string]any{"status": "blocked", "businessName": "Rossi", "credits": float64(5)}, got["user_metadata"])
}

func TestErroresDelServidor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"msg":"database error"}`))
	}))
	defer srv.Close()
	c := supabase.NewAdminClient(srv.URL, serviceKey, time.Second)

	_, err := c.GetByID(context.Background(), "u1")
	require.Error(t, err)
	var se *supabase.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Status)
	assert.Equal(t, "database error", se.Message)

	assert.Error(t, c.Delete(context.Background(), "u1"))
}

func TestSinConfiguracion(t *testing.T) {
	_, err := supabase.NewAdminClient("", "", 0).ListPage(context.Background(), 1, 10)
	assert.Error(t, err)
}

func TestListPage_PaginasHastaVacia(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page > 1 {
			_, _ = w.Write([]byte(`{"users":[]}`))
			return
		}
		_, _ = w.Write([]byte(`{"users":[{"id":"u1","created_at":"2025-06-01T10:00:00Z"}]}`))
	}))
	defer srv.Close()
	c := supabase.NewAdminClient(srv.URL, serviceKey, time.Second)

	first, err := c.ListPage(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Len(t, first, 1)
	second, err := c.ListPage(context.Background(), 2, 1)
	require.NoError(t, err)
	assert.Empty(t, second)
}
