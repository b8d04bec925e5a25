package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jhoicas/privat-admin-api/internal/domain/entity"
	"github.com/jhoicas/privat-admin-api/internal/domain/repository"
	"github.com/jhoicas/privat-admin-api/pkg/metrics"
)

// Verificar en tiempo de compilación que AdminClient implementa IdentityRepository.
var _ repository.IdentityRepository = (*AdminClient)(nil)

// AdminClient adaptador del API admin de Supabase Auth (GoTrue) sobre net/http.
// Requiere la service role key; nunca debe exponerse al navegador.
type AdminClient struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewAdminClient baseURL es la URL del proyecto (https://<ref>.supabase.co).
func NewAdminClient(baseURL, serviceKey string, timeout time.Duration) *AdminClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &AdminClient{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ── Estructuras internas del protocolo GoTrue ────────────────────────────────

type authUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	CreatedAt    time.Time      `json:"created_at"`
	LastSignInAt *string        `json:"last_sign_in_at"`
	ConfirmedAt  *string        `json:"confirmed_at"`
	BannedUntil  *string        `json:"banned_until"`
	UserMetadata map[string]any `json:"user_metadata"`
	AppMetadata  map[string]any `json:"app_metadata"`
}

type listUsersResponse struct {
	Users []authUser `json:"users"`
}

type errorResponse struct {
	Code    any    `json:"code"`
	Message string `json:"msg"`
	Error   string `json:"error"`
	Detail  string `json:"error_description"`
}

type updateUserRequest struct {
	UserMetadata map[string]any `json:"user_metadata"`
}

// StatusError respuesta no exitosa del API.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("supabase: HTTP %d: %s", e.Status, e.Message)
}

// ── Implementación del puerto ────────────────────────────────────────────────

// ListPage GET /auth/v1/admin/users?page=&per_page= (page 1-based).
func (c *AdminClient) ListPage(ctx context.Context, page, perPage int) ([]*entity.Identity, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	var out listUsersResponse
	if err := c.do(ctx, "list_users", http.MethodGet, "/auth/v1/admin/users?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	list := make([]*entity.Identity, 0, len(out.Users))
	for i := range out.Users {
		list = append(list, toIdentity(&out.Users[i]))
	}
	return list, nil
}

// GetByID GET /auth/v1/admin/users/{id}; 404 => (nil, nil).
func (c *AdminClient) GetByID(ctx context.Context, id string) (*entity.Identity, error) {
	var u authUser
	err := c.do(ctx, "get_user", http.MethodGet, "/auth/v1/admin/users/"+url.PathEscape(id), nil, &u)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return toIdentity(&u), nil
}

// UpdateUserMetadata PUT /auth/v1/admin/users/{id} con la bolsa completa.
func (c *AdminClient) UpdateUserMetadata(ctx context.Context, id string, metadata entity.Metadata) error {
	body := updateUserRequest{UserMetadata: map[string]any(metadata)}
	return c.do(ctx, "update_user", http.MethodPut, "/auth/v1/admin/users/"+url.PathEscape(id), body, nil)
}

// Delete DELETE /auth/v1/admin/users/{id}.
func (c *AdminClient) Delete(ctx context.Context, id string) error {
	return c.do(ctx, "delete_user", http.MethodDelete, "/auth/v1/admin/users/"+url.PathEscape(id), nil, nil)
}

func (c *AdminClient) do(ctx context.Context, op, method, path string, in, out any) error {
	if c.baseURL == "" || c.serviceKey == "" {
		return fmt.Errorf("supabase: SUPABASE_URL o SUPABASE_SERVICE_ROLE_KEY no configurados")
	}
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("supabase: serializar request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("supabase: crear HTTP request: %w", err)
	}
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.UpstreamDuration.WithLabelValues("supabase", op).Observe(time.Since(started).Seconds())
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("supabase: timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("supabase: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	// Una página de 1000 usuarios con metadata completa puede pesar varios MB.
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return fmt.Errorf("supabase: leer respuesta: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := string(raw)
		var er errorResponse
		if json.Unmarshal(raw, &er) == nil {
			for _, m := range []string{er.Message, er.Detail, er.Error} {
				if m != "" {
					msg = m
					break
				}
			}
		}
		return &StatusError{Status: resp.StatusCode, Message: msg}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("supabase: parsear respuesta: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	se, ok := err.(*StatusError)
	return ok && se.Status == http.StatusNotFound
}

func toIdentity(u *authUser) *entity.Identity {
	meta := entity.Metadata(u.UserMetadata)
	if meta == nil {
		meta = entity.Metadata{}
	}
	return &entity.Identity{
		ID:           u.ID,
		Email:        u.Email,
		Phone:        u.Phone,
		CreatedAt:    u.CreatedAt,
		LastSignInAt: parseTime(u.LastSignInAt),
		ConfirmedAt:  parseTime(u.ConfirmedAt),
		BannedUntil:  parseTime(u.BannedUntil),
		UserMetadata: meta,
		AppMetadata:  entity.Metadata(u.AppMetadata),
	}
}

// parseTime GoTrue devuelve null, "" o "none" cuando no hay fecha.
func parseTime(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, *s)
	if err != nil {
		return nil
	}
	return &t
}
