package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CreateProductRequest representa a requisição para criar um produto
type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"gte=0"`
	Stock       int     `json:"stock" binding:"gte=0"`
}

// UpdateProductRequest representa a requisição para atualizar um produto.
// Apenas os campos enviados são alterados.
type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Stock       *int     `json:"stock" binding:"omitempty,gte=0"`
}

// AddItemRequest representa a requisição para adicionar um item ao carrinho
type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// CartResponse representa um carrinho com o total derivado na leitura
type CartResponse struct {
	*Cart
	Total float64 `json:"total"`
}

func newCartResponse(cart *Cart) CartResponse {
	return CartResponse{Cart: cart, Total: cart.Total()}
}

// CatalogUseCaseInterface define a interface para o use case do catálogo
type CatalogUseCaseInterface interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, productID string) (*Product, error)
	CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error)
	UpdateProduct(ctx context.Context, productID string, req UpdateProductRequest) (*Product, error)
	DeleteProduct(ctx context.Context, productID string) error
}

// CartUseCaseInterface define a interface para o use case do carrinho
type CartUseCaseInterface interface {
	CreateCart(ctx context.Context) (*Cart, error)
	GetCart(ctx context.Context, cartID string) (*Cart, error)
	AddItem(ctx context.Context, cartID string, req AddItemRequest) (*Cart, error)
	RemoveItem(ctx context.Context, cartID, itemID string) (*Cart, error)
}

// ProductHandler contém os handlers HTTP do catálogo
type ProductHandler struct {
	useCase CatalogUseCaseInterface
	tracer  trace.Tracer
}

// NewProductHandler cria uma nova instância de ProductHandler
func NewProductHandler(useCase CatalogUseCaseInterface, tracer trace.Tracer) *ProductHandler {
	return &ProductHandler{
		useCase: useCase,
		tracer:  tracer,
	}
}

// ListProducts retorna todos os produtos do catálogo
func (h *ProductHandler) ListProducts(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "list_products")
	defer span.End()

	products, err := h.useCase.ListProducts(ctx)
	if err != nil {
		respondError(c, span, err)
		return
	}

	span.SetAttributes(attribute.Int("product_count", len(products)))
	c.JSON(http.StatusOK, products)
}

// GetProduct busca um produto pelo ID
func (h *ProductHandler) GetProduct(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "get_product")
	defer span.End()

	productID := c.Param("id")
	span.SetAttributes(attribute.String("product_id", productID))

	product, err := h.useCase.GetProduct(ctx, productID)
	if err != nil {
		respondError(c, span, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// CreateProduct cria um novo produto
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "create_product")
	defer span.End()

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	span.SetAttributes(
		attribute.String("product_name", req.Name),
		attribute.Float64("price", req.Price),
		attribute.Int("stock", req.Stock),
	)

	product, err := h.useCase.CreateProduct(ctx, req)
	if err != nil {
		respondError(c, span, err)
		return
	}

	span.SetAttributes(attribute.String("product_id", product.ID))
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct atualiza os campos enviados de um produto
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "update_product")
	defer span.End()

	productID := c.Param("id")
	span.SetAttributes(attribute.String("product_id", productID))

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.useCase.UpdateProduct(ctx, productID, req)
	if err != nil {
		respondError(c, span, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct remove um produto do catálogo
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "delete_product")
	defer span.End()

	productID := c.Param("id")
	span.SetAttributes(attribute.String("product_id", productID))

	if err := h.useCase.DeleteProduct(ctx, productID); err != nil {
		respondError(c, span, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CartHandler contém os handlers HTTP do carrinho
type CartHandler struct {
	useCase CartUseCaseInterface
	tracer  trace.Tracer
}

// NewCartHandler cria uma nova instância de CartHandler
func NewCartHandler(useCase CartUseCaseInterface, tracer trace.Tracer) *CartHandler {
	return &CartHandler{
		useCase: useCase,
		tracer:  tracer,
	}
}

// CreateCart cria um novo carrinho vazio
func (h *CartHandler) CreateCart(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "create_cart")
	defer span.End()

	cart, err := h.useCase.CreateCart(ctx)
	if err != nil {
		respondError(c, span, err)
		return
	}

	span.SetAttributes(attribute.String("cart_id", cart.ID))
	c.JSON(http.StatusCreated, newCartResponse(cart))
}

// GetCart busca um carrinho com seus itens
func (h *CartHandler) GetCart(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "get_cart")
	defer span.End()

	cartID := c.Param("id")
	span.SetAttributes(attribute.String("cart_id", cartID))

	cart, err := h.useCase.GetCart(ctx, cartID)
	if err != nil {
		respondError(c, span, err)
		return
	}

	c.JSON(http.StatusOK, newCartResponse(cart))
}

// AddItem adiciona um produto ao carrinho, baixando o estoque
func (h *CartHandler) AddItem(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "add_cart_item")
	defer span.End()

	cartID := c.Param("id")

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	span.SetAttributes(
		attribute.String("cart_id", cartID),
		attribute.String("product_id", req.ProductID),
		attribute.Int("quantity", req.Quantity),
	)

	cart, err := h.useCase.AddItem(ctx, cartID, req)
	if err != nil {
		respondError(c, span, err)
		return
	}

	c.JSON(http.StatusOK, newCartResponse(cart))
}

// RemoveItem remove um item do carrinho
func (h *CartHandler) RemoveItem(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "remove_cart_item")
	defer span.End()

	cartID := c.Param("id")
	itemID := c.Param("itemId")
	span.SetAttributes(
		attribute.String("cart_id", cartID),
		attribute.String("item_id", itemID),
	)

	cart, err := h.useCase.RemoveItem(ctx, cartID, itemID)
	if err != nil {
		respondError(c, span, err)
		return
	}

	c.JSON(http.StatusOK, newCartResponse(cart))
}

// HealthCheck verifica a saúde do serviço
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "catalog-cart",
	})
}

// respondError mapeia os erros de negócio para o status HTTP correspondente
func respondError(c *gin.Context, span trace.Span, err error) {
	span.RecordError(err)

	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrProductNameTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrProductNotFound), errors.Is(err, ErrCartNotFound), errors.Is(err, ErrCartItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
