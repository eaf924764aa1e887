// Package client fornece um cliente Go para a API do catálogo e carrinho.
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Product representa um produto retornado pela API
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CartItem representa um item de carrinho retornado pela API
type CartItem struct {
	ID        string    `json:"id"`
	CartID    string    `json:"cart_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Product   *Product  `json:"product,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Cart representa um carrinho retornado pela API, com o total derivado
type Cart struct {
	ID        string     `json:"id"`
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CreateProductRequest representa a requisição para criar um produto
type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
}

// UpdateProductRequest representa a requisição de atualização parcial
type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
}

// AddItemRequest representa a requisição para adicionar um item ao carrinho
type AddItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// APIError representa um corpo de erro retornado pela API
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// Client é o cliente HTTP da API do catálogo e carrinho
type Client struct {
	http *resty.Client
}

// New cria uma nova instância de Client apontando para baseURL
func New(baseURL string) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &Client{http: httpClient}
}

// ListProducts retorna todos os produtos do catálogo
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&products).
		SetError(&APIError{}).
		Get("/products")
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return products, nil
}

// GetProduct busca um produto pelo ID
func (c *Client) GetProduct(ctx context.Context, productID string) (*Product, error) {
	var product Product
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&product).
		SetError(&APIError{}).
		Get("/products/" + productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &product, nil
}

// CreateProduct cria um novo produto
func (c *Client) CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error) {
	var product Product
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&product).
		SetError(&APIError{}).
		Post("/products")
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &product, nil
}

// UpdateProduct atualiza os campos enviados de um produto
func (c *Client) UpdateProduct(ctx context.Context, productID string, req UpdateProductRequest) (*Product, error) {
	var product Product
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&product).
		SetError(&APIError{}).
		Put("/products/" + productID)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &product, nil
}

// DeleteProduct remove um produto do catálogo
func (c *Client) DeleteProduct(ctx context.Context, productID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetError(&APIError{}).
		Delete("/products/" + productID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

// CreateCart cria um novo carrinho vazio
func (c *Client) CreateCart(ctx context.Context) (*Cart, error) {
	var cart Cart
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&cart).
		SetError(&APIError{}).
		Post("/cart")
	if err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &cart, nil
}

// GetCart busca um carrinho com seus itens
func (c *Client) GetCart(ctx context.Context, cartID string) (*Cart, error) {
	var cart Cart
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&cart).
		SetError(&APIError{}).
		Get("/cart/" + cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &cart, nil
}

// AddItem adiciona um produto ao carrinho
func (c *Client) AddItem(ctx context.Context, cartID string, req AddItemRequest) (*Cart, error) {
	var cart Cart
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&cart).
		SetError(&APIError{}).
		Post("/cart/" + cartID + "/items")
	if err != nil {
		return nil, fmt.Errorf("failed to add item: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &cart, nil
}

// RemoveItem remove um item do carrinho
func (c *Client) RemoveItem(ctx context.Context, cartID, itemID string) (*Cart, error) {
	var cart Cart
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&cart).
		SetError(&APIError{}).
		Delete("/cart/" + cartID + "/items/" + itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove item: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &cart, nil
}

func apiError(resp *resty.Response) error {
	if apiErr, ok := resp.Error().(*APIError); ok && apiErr.Message != "" {
		apiErr.StatusCode = resp.StatusCode()
		return apiErr
	}
	return &APIError{StatusCode: resp.StatusCode(), Message: resp.String()}
}
