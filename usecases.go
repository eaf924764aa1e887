package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrProductNotFound   = errors.New("product not found")
	ErrProductNameTaken  = errors.New("product name already exists")
	ErrCartNotFound      = errors.New("cart not found")
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// isUUID informa se o valor tem formato de UUID. IDs fora do formato nunca
// existem no banco, então viram not found sem chegar à consulta — o driver
// rejeitaria o parâmetro na coluna uuid.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// CatalogUseCase contém a lógica de negócio do catálogo de produtos
type CatalogUseCase struct {
	repository Repository
}

// NewCatalogUseCase cria uma nova instância de CatalogUseCase
func NewCatalogUseCase(repository Repository) *CatalogUseCase {
	return &CatalogUseCase{
		repository: repository,
	}
}

// ListProducts retorna todos os produtos do catálogo
func (uc *CatalogUseCase) ListProducts(ctx context.Context) ([]Product, error) {
	return uc.repository.ListProducts(ctx)
}

// GetProduct busca um produto pelo ID
func (uc *CatalogUseCase) GetProduct(ctx context.Context, productID string) (*Product, error) {
	if !isUUID(productID) {
		return nil, ErrProductNotFound
	}

	product, err := uc.repository.GetProduct(ctx, productID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// CreateProduct cria um novo produto no catálogo
func (uc *CatalogUseCase) CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || req.Price < 0 || req.Stock < 0 {
		return nil, ErrInvalidInput
	}

	// Nome de produto é único no catálogo
	taken, err := uc.repository.ProductNameExists(ctx, name, "")
	if err != nil {
		return nil, fmt.Errorf("failed to check product name: %w", err)
	}
	if taken {
		return nil, ErrProductNameTaken
	}

	product := NewProduct(uuid.New().String(), name, req.Description, req.Price, req.Stock)
	if err := uc.repository.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	log.Printf("✅ Product created: %s (%s)", product.Name, product.ID)
	return product, nil
}

// UpdateProduct atualiza apenas os campos enviados na requisição.
// O ID do produto nunca muda. A leitura e a gravação acontecem na mesma
// transação, com lock pessimista, para que a edição não reescreva um estoque
// baixado por um AddItem concorrente.
func (uc *CatalogUseCase) UpdateProduct(ctx context.Context, productID string, req UpdateProductRequest) (*Product, error) {
	if !isUUID(productID) {
		return nil, ErrProductNotFound
	}

	// 1. Validações que não dependem do estado atual do produto
	var name *string
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			return nil, ErrInvalidInput
		}
		taken, err := uc.repository.ProductNameExists(ctx, trimmed, productID)
		if err != nil {
			return nil, fmt.Errorf("failed to check product name: %w", err)
		}
		if taken {
			return nil, ErrProductNameTaken
		}
		name = &trimmed
	}
	if req.Price != nil && *req.Price < 0 {
		return nil, ErrInvalidInput
	}
	if req.Stock != nil && *req.Stock < 0 {
		return nil, ErrInvalidInput
	}

	// 2. Inicia a transação
	tx, err := uc.repository.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// 3. Obtém o produto com LOCK PESSIMISTA (SELECT FOR UPDATE)
	product, err := uc.repository.GetProductForUpdate(ctx, tx, productID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product with lock: %w", err)
	}

	// 4. Aplica somente os campos enviados
	if name != nil {
		product.Name = *name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	// 5. Grava e comita
	if err := uc.repository.UpdateProduct(ctx, tx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit product update: %w", err)
	}

	log.Printf("✅ Product updated: %s", product.ID)
	return product, nil
}

// DeleteProduct remove um produto do catálogo
func (uc *CatalogUseCase) DeleteProduct(ctx context.Context, productID string) error {
	if !isUUID(productID) {
		return ErrProductNotFound
	}

	deleted, err := uc.repository.DeleteProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !deleted {
		return ErrProductNotFound
	}

	log.Printf("🗑️  Product deleted: %s", productID)
	return nil
}

// CartUseCase contém a lógica de negócio do carrinho de compras
type CartUseCase struct {
	repository Repository

	// restockOnRemove define se remover um item devolve a quantidade ao estoque
	restockOnRemove bool
}

// NewCartUseCase cria uma nova instância de CartUseCase
func NewCartUseCase(repository Repository, restockOnRemove bool) *CartUseCase {
	return &CartUseCase{
		repository:      repository,
		restockOnRemove: restockOnRemove,
	}
}

// CreateCart cria um novo carrinho vazio
func (uc *CartUseCase) CreateCart(ctx context.Context) (*Cart, error) {
	cart := NewCart(uuid.New().String())
	if err := uc.repository.CreateCart(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	log.Printf("🛒 Cart created: %s", cart.ID)
	return cart, nil
}

// GetCart busca um carrinho com seus itens e o snapshot de cada produto
func (uc *CartUseCase) GetCart(ctx context.Context, cartID string) (*Cart, error) {
	if !isUUID(cartID) {
		return nil, ErrCartNotFound
	}

	cart, err := uc.repository.GetCart(ctx, cartID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	items, err := uc.repository.ListCartItems(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	cart.Items = items

	return cart, nil
}

// AddItem adiciona um produto ao carrinho, baixando o estoque na mesma
// transação. O produto é obtido com lock pessimista para que duas adições
// concorrentes não ultrapassem o estoque disponível.
func (uc *CartUseCase) AddItem(ctx context.Context, cartID string, req AddItemRequest) (*Cart, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidInput
	}
	if !isUUID(cartID) {
		return nil, ErrCartNotFound
	}
	if !isUUID(req.ProductID) {
		return nil, ErrProductNotFound
	}

	// 1. Carrinho precisa existir
	if _, err := uc.repository.GetCart(ctx, cartID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	// 2. Inicia a transação
	tx, err := uc.repository.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// 3. Obtém o produto com LOCK PESSIMISTA (SELECT FOR UPDATE)
	product, err := uc.repository.GetProductForUpdate(ctx, tx, req.ProductID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product with lock: %w", err)
	}

	// 4. Regra de Negócio: verifica estoque
	if product.Stock < req.Quantity {
		log.Printf("❌ ADD ITEM FAILED: insufficient stock | ProductID=%s Stock=%d Requested=%d",
			product.ID, product.Stock, req.Quantity)
		return nil, ErrInsufficientStock
	}

	// 5. Mescla com item existente do mesmo produto, ou insere um novo
	existing, err := uc.repository.GetCartItemByProduct(ctx, tx, cartID, req.ProductID)
	switch {
	case err == nil:
		err = uc.repository.UpdateCartItemQuantity(ctx, tx, existing.ID, existing.Quantity+req.Quantity)
		if err != nil {
			return nil, err
		}
	case errors.Is(err, pgx.ErrNoRows):
		item := NewCartItem(uuid.New().String(), cartID, req.ProductID, req.Quantity)
		if err := uc.repository.InsertCartItem(ctx, tx, item); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}

	// 6. Baixa o estoque e registra o movimento
	if err := uc.repository.UpdateProductStock(ctx, tx, product.ID, product.Stock-req.Quantity); err != nil {
		return nil, err
	}
	movement := NewStockMovement(uuid.New().String(), product.ID, cartID, req.Quantity, MovementTypeDecreased)
	if err := uc.repository.RecordStockMovement(ctx, tx, movement); err != nil {
		return nil, err
	}

	// 7. Commit da transação
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit add item: %w", err)
	}

	log.Printf("✅ [ADD ITEM] CartID=%s ProductID=%s Quantity=%d", cartID, req.ProductID, req.Quantity)
	return uc.GetCart(ctx, cartID)
}

// RemoveItem remove um item do carrinho. Devolver a quantidade ao estoque é
// uma decisão de política, controlada por restockOnRemove.
func (uc *CartUseCase) RemoveItem(ctx context.Context, cartID, itemID string) (*Cart, error) {
	if !isUUID(cartID) {
		return nil, ErrCartNotFound
	}
	if !isUUID(itemID) {
		return nil, ErrCartItemNotFound
	}

	// 1. Carrinho precisa existir
	if _, err := uc.repository.GetCart(ctx, cartID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	// 2. Inicia a transação
	tx, err := uc.repository.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// 3. Item precisa existir dentro deste carrinho
	item, err := uc.repository.GetCartItem(ctx, tx, cartID, itemID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCartItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}

	// 4. Política de restock: devolve a quantidade ao estoque do produto
	if uc.restockOnRemove {
		product, err := uc.repository.GetProductForUpdate(ctx, tx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to get product with lock: %w", err)
		}
		if err := uc.repository.UpdateProductStock(ctx, tx, product.ID, product.Stock+item.Quantity); err != nil {
			return nil, err
		}
		movement := NewStockMovement(uuid.New().String(), product.ID, cartID, item.Quantity, MovementTypeIncreased)
		if err := uc.repository.RecordStockMovement(ctx, tx, movement); err != nil {
			return nil, err
		}
	}

	// 5. Remove o item e comita
	if err := uc.repository.DeleteCartItem(ctx, tx, itemID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit remove item: %w", err)
	}

	log.Printf("🗑️  [REMOVE ITEM] CartID=%s ItemID=%s restock=%t", cartID, itemID, uc.restockOnRemove)
	return uc.GetCart(ctx, cartID)
}
