package clients

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jcmicro/order-service/internal/domain"
)

// ProductClient ходит в каталог товаров: чтение карточки и списание остатка.
type ProductClient struct {
	base string
	hc   *http.Client
}

// NewProductClient создаёт клиент каталога товаров.
func NewProductClient(baseURL string, httpClient *http.Client) (*ProductClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("product catalog base URL is required")
	}
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	return &ProductClient{base: baseURL, hc: httpClient}, nil
}

type productResponse struct {
	ID          json.Number `json:"id"`
	Name        string      `json:"name"`
	Price       float64     `json:"price"`
	Description string      `json:"description"`
	Stock       int         `json:"stock"`
}

// GetProduct возвращает снапшот товара или ErrNotFound.
func (c *ProductClient) GetProduct(ctx context.Context, id string) (domain.ProductSnapshot, error) {
	var wire productResponse
	endpoint := c.base + "/products/" + url.PathEscape(id)
	if err := do(ctx, c.hc, http.MethodGet, endpoint, &wire); err != nil {
		return domain.ProductSnapshot{}, err
	}

	return domain.ProductSnapshot{
		ID:          wire.ID.String(),
		Name:        wire.Name,
		Price:       wire.Price,
		Description: wire.Description,
		Stock:       wire.Stock,
	}, nil
}

// DecrementStock списывает qty единиц остатка у товара в каталоге.
func (c *ProductClient) DecrementStock(ctx context.Context, id string, qty int) error {
	endpoint := c.base + "/products/" + url.PathEscape(id) + "/decrement-stock?quantity=" + strconv.Itoa(qty)
	return do(ctx, c.hc, http.MethodPost, endpoint, nil)
}
