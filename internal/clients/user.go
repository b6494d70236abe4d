package clients

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/jcmicro/order-service/internal/domain"
)

// UserClient ходит в справочник пользователей за снапшотами.
type UserClient struct {
	base string
	hc   *http.Client
}

// NewUserClient создаёт клиент справочника пользователей.
// httpClient можно не передавать — будет взят клиент с таймаутом по умолчанию.
func NewUserClient(baseURL string, httpClient *http.Client) (*UserClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("user directory base URL is required")
	}
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	return &UserClient{base: baseURL, hc: httpClient}, nil
}

type userResponse struct {
	ID    json.Number `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
}

// GetUser возвращает снапшот пользователя или ErrNotFound.
func (c *UserClient) GetUser(ctx context.Context, id string) (domain.UserSnapshot, error) {
	var wire userResponse
	endpoint := c.base + "/users/" + url.PathEscape(id)
	if err := do(ctx, c.hc, http.MethodGet, endpoint, &wire); err != nil {
		return domain.UserSnapshot{}, err
	}

	return domain.UserSnapshot{
		ID:    wire.ID.String(),
		Name:  wire.Name,
		Email: wire.Email,
	}, nil
}
