package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository define a interface para operações de banco de dados do catálogo e do carrinho
type Repository interface {
	// ListProducts retorna todos os produtos do catálogo
	ListProducts(ctx context.Context) ([]Product, error)

	// GetProduct busca um produto pelo ID
	GetProduct(ctx context.Context, productID string) (*Product, error)

	// ProductNameExists verifica se já existe outro produto com o mesmo nome;
	// excludeID vazio significa nenhum produto a excluir da comparação
	ProductNameExists(ctx context.Context, name string, excludeID string) (bool, error)

	// CreateProduct cria um novo produto no banco de dados
	CreateProduct(ctx context.Context, product *Product) error

	// UpdateProduct grava os campos mutáveis de um produto dentro da transação
	UpdateProduct(ctx context.Context, tx Tx, product *Product) error

	// DeleteProduct remove um produto; retorna false se o produto não existia
	DeleteProduct(ctx context.Context, productID string) (bool, error)

	// CreateCart cria um novo carrinho vazio
	CreateCart(ctx context.Context, cart *Cart) error

	// GetCart busca um carrinho pelo ID, sem os itens
	GetCart(ctx context.Context, cartID string) (*Cart, error)

	// ListCartItems retorna os itens de um carrinho em ordem de inserção,
	// cada um com o snapshot do produto referenciado
	ListCartItems(ctx context.Context, cartID string) ([]CartItem, error)

	// BeginTx inicia uma nova transação
	BeginTx(ctx context.Context) (Tx, error)

	// GetProductForUpdate obtém o produto com lock pessimista (FOR UPDATE)
	GetProductForUpdate(ctx context.Context, tx Tx, productID string) (*Product, error)

	// GetCartItemByProduct busca o item do carrinho para um produto, com lock
	GetCartItemByProduct(ctx context.Context, tx Tx, cartID, productID string) (*CartItem, error)

	// GetCartItem busca um item do carrinho pelo ID, com lock
	GetCartItem(ctx context.Context, tx Tx, cartID, itemID string) (*CartItem, error)

	// InsertCartItem insere um novo item no carrinho
	InsertCartItem(ctx context.Context, tx Tx, item *CartItem) error

	// UpdateCartItemQuantity atualiza a quantidade de um item existente
	UpdateCartItemQuantity(ctx context.Context, tx Tx, itemID string, quantity int) error

	// DeleteCartItem remove um item do carrinho
	DeleteCartItem(ctx context.Context, tx Tx, itemID string) error

	// UpdateProductStock grava o novo estoque de um produto
	UpdateProductStock(ctx context.Context, tx Tx, productID string, stock int) error

	// RecordStockMovement insere o registro de movimentação de estoque
	RecordStockMovement(ctx context.Context, tx Tx, movement *StockMovement) error
}

// Tx interface para transações
type Tx interface {
	Commit() error
	Rollback() error
}

// PostgresTx implementa Tx usando pgx
type PostgresTx struct {
	tx pgx.Tx
}

func (t *PostgresTx) Commit() error {
	return t.tx.Commit(context.Background())
}

func (t *PostgresTx) Rollback() error {
	return t.tx.Rollback(context.Background())
}

// PostgresRepository implementa Repository usando PostgreSQL
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository cria uma nova instância de PostgresRepository
func NewPostgresRepository(db *pgxpool.Pool) Repository {
	return &PostgresRepository{
		db: db,
	}
}

// ListProducts retorna todos os produtos do catálogo
func (r *PostgresRepository) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, description, price, stock, created_at, updated_at
		FROM products
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetProduct busca um produto pelo ID
func (r *PostgresRepository) GetProduct(ctx context.Context, productID string) (*Product, error) {
	var p Product
	err := r.db.QueryRow(ctx, `
		SELECT id, name, description, price, stock, created_at, updated_at
		FROM products WHERE id = $1
	`, productID).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ProductNameExists verifica se já existe outro produto com o mesmo nome
func (r *PostgresRepository) ProductNameExists(ctx context.Context, name string, excludeID string) (bool, error) {
	query, args := productNameExistsQuery(name, excludeID)

	var exists bool
	err := r.db.QueryRow(ctx, query, args...).Scan(&exists)
	return exists, err
}

// productNameExistsQuery monta a consulta de unicidade de nome. Um excludeID
// vazio não pode ser passado como parâmetro da coluna uuid, então a exclusão
// só entra na consulta quando há um ID de verdade.
func productNameExistsQuery(name, excludeID string) (string, []any) {
	if excludeID == "" {
		return `SELECT EXISTS(SELECT 1 FROM products WHERE name = $1)`, []any{name}
	}
	return `SELECT EXISTS(SELECT 1 FROM products WHERE name = $1 AND id != $2)`, []any{name, excludeID}
}

// CreateProduct cria um novo produto no banco de dados
func (r *PostgresRepository) CreateProduct(ctx context.Context, product *Product) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO products (id, name, description, price, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, product.ID, product.Name, product.Description, product.Price, product.Stock, product.CreatedAt, product.UpdatedAt)
	return err
}

// UpdateProduct grava os campos mutáveis de um produto dentro da transação
func (r *PostgresRepository) UpdateProduct(ctx context.Context, tx Tx, product *Product) error {
	pgTx := tx.(*PostgresTx).tx

	_, err := pgTx.Exec(ctx, `
		UPDATE products
		SET name = $1, description = $2, price = $3, stock = $4, updated_at = NOW()
		WHERE id = $5
	`, product.Name, product.Description, product.Price, product.Stock, product.ID)
	return err
}

// DeleteProduct remove um produto; retorna false se o produto não existia
func (r *PostgresRepository) DeleteProduct(ctx context.Context, productID string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		return false, fmt.Errorf("failed to delete product: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// CreateCart cria um novo carrinho vazio
func (r *PostgresRepository) CreateCart(ctx context.Context, cart *Cart) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO carts (id, created_at, updated_at)
		VALUES ($1, $2, $3)
	`, cart.ID, cart.CreatedAt, cart.UpdatedAt)
	return err
}

// GetCart busca um carrinho pelo ID, sem os itens
func (r *PostgresRepository) GetCart(ctx context.Context, cartID string) (*Cart, error) {
	var cart Cart
	err := r.db.QueryRow(ctx, `
		SELECT id, created_at, updated_at
		FROM carts WHERE id = $1
	`, cartID).Scan(&cart.ID, &cart.CreatedAt, &cart.UpdatedAt)

	if err != nil {
		return nil, err
	}
	cart.Items = []CartItem{}
	return &cart, nil
}

// ListCartItems retorna os itens de um carrinho em ordem de inserção
func (r *PostgresRepository) ListCartItems(ctx context.Context, cartID string) ([]CartItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, ci.created_at, ci.updated_at,
		       p.id, p.name, p.description, p.price, p.stock, p.created_at, p.updated_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at
	`, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	items := []CartItem{}
	for rows.Next() {
		var item CartItem
		var p Product
		err := rows.Scan(
			&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
			&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		item.Product = &p
		items = append(items, item)
	}
	return items, rows.Err()
}

// BeginTx inicia uma nova transação
func (r *PostgresRepository) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &PostgresTx{tx: tx}, nil
}

// GetProductForUpdate obtém o produto com lock pessimista (FOR UPDATE)
func (r *PostgresRepository) GetProductForUpdate(ctx context.Context, tx Tx, productID string) (*Product, error) {
	pgTx := tx.(*PostgresTx).tx

	query := `
		SELECT id, name, description, price, stock, created_at, updated_at
		FROM products
		WHERE id = $1
		FOR UPDATE
	`

	var p Product
	err := pgTx.QueryRow(ctx, query, productID).Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Stock,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return &p, nil
}

// GetCartItemByProduct busca o item do carrinho para um produto, com lock
func (r *PostgresRepository) GetCartItemByProduct(ctx context.Context, tx Tx, cartID, productID string) (*CartItem, error) {
	pgTx := tx.(*PostgresTx).tx

	query := `
		SELECT id, cart_id, product_id, quantity, created_at, updated_at
		FROM cart_items
		WHERE cart_id = $1 AND product_id = $2
		FOR UPDATE
	`

	var item CartItem
	err := pgTx.QueryRow(ctx, query, cartID, productID).Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return &item, nil
}

// GetCartItem busca um item do carrinho pelo ID, com lock
func (r *PostgresRepository) GetCartItem(ctx context.Context, tx Tx, cartID, itemID string) (*CartItem, error) {
	pgTx := tx.(*PostgresTx).tx

	query := `
		SELECT id, cart_id, product_id, quantity, created_at, updated_at
		FROM cart_items
		WHERE id = $1 AND cart_id = $2
		FOR UPDATE
	`

	var item CartItem
	err := pgTx.QueryRow(ctx, query, itemID, cartID).Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return &item, nil
}

// InsertCartItem insere um novo item no carrinho
func (r *PostgresRepository) InsertCartItem(ctx context.Context, tx Tx, item *CartItem) error {
	pgTx := tx.(*PostgresTx).tx

	_, err := pgTx.Exec(ctx, `
		INSERT INTO cart_items (id, cart_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, item.ID, item.CartID, item.ProductID, item.Quantity, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert cart item: %w", err)
	}
	return nil
}

// UpdateCartItemQuantity atualiza a quantidade de um item existente
func (r *PostgresRepository) UpdateCartItemQuantity(ctx context.Context, tx Tx, itemID string, quantity int) error {
	pgTx := tx.(*PostgresTx).tx

	_, err := pgTx.Exec(ctx, `
		UPDATE cart_items
		SET quantity = $1, updated_at = NOW()
		WHERE id = $2
	`, quantity, itemID)
	if err != nil {
		return fmt.Errorf("failed to update cart item quantity: %w", err)
	}
	return nil
}

// DeleteCartItem remove um item do carrinho
func (r *PostgresRepository) DeleteCartItem(ctx context.Context, tx Tx, itemID string) error {
	pgTx := tx.(*PostgresTx).tx

	_, err := pgTx.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	return nil
}

// UpdateProductStock grava o novo estoque de um produto
func (r *PostgresRepository) UpdateProductStock(ctx context.Context, tx Tx, productID string, stock int) error {
	pgTx := tx.(*PostgresTx).tx

	_, err := pgTx.Exec(ctx, `
		UPDATE products
		SET stock = $1, updated_at = NOW()
		WHERE id = $2
	`, stock, productID)
	if err != nil {
		return fmt.Errorf("failed to update product stock: %w", err)
	}
	return nil
}

// RecordStockMovement insere o registro de movimentação de estoque
func (r *PostgresRepository) RecordStockMovement(ctx context.Context, tx Tx, movement *StockMovement) error {
	pgTx := tx.(*PostgresTx).tx

	_, err := pgTx.Exec(ctx, `
		INSERT INTO stock_movements (id, product_id, cart_id, change_quantity, movement_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, movement.ID, movement.ProductID, movement.CartID, movement.ChangeQuantity, movement.MovementType, movement.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert movement record: %w", err)
	}
	return nil
}
