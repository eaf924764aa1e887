package main

import (
	"time"
)

// Product representa um produto do catálogo
type Product struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	Stock       int       `json:"stock" db:"stock"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// NewProduct cria uma nova instância de Product
func NewProduct(id, name, description string, price float64, stock int) *Product {
	return &Product{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       price,
		Stock:       stock,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

// Cart representa um carrinho de compras
type Cart struct {
	ID        string     `json:"id" db:"id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// NewCart cria uma nova instância de Cart, sem itens
func NewCart(id string) *Cart {
	return &Cart{
		ID:        id,
		Items:     []CartItem{},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// Total calcula o valor total do carrinho (preço x quantidade de cada item).
// O total nunca é persistido, sempre derivado na leitura.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		if item.Product != nil {
			total += item.Product.Price * float64(item.Quantity)
		}
	}
	return total
}

// IsEmpty informa se o carrinho está sem itens
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// CartItem representa um item (produto + quantidade) dentro de um carrinho
type CartItem struct {
	ID        string    `json:"id" db:"id"`
	CartID    string    `json:"cart_id" db:"cart_id"`
	ProductID string    `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Product   *Product  `json:"product,omitempty"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewCartItem cria uma nova instância de CartItem
func NewCartItem(id, cartID, productID string, quantity int) *CartItem {
	return &CartItem{
		ID:        id,
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// StockMovement representa uma movimentação de estoque de um produto
type StockMovement struct {
	ID             string    `json:"id" db:"id"`
	ProductID      string    `json:"product_id" db:"product_id"`
	CartID         string    `json:"cart_id" db:"cart_id"`
	ChangeQuantity int       `json:"change_quantity" db:"change_quantity"`
	MovementType   string    `json:"movement_type" db:"movement_type"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// NewStockMovement cria uma nova instância de StockMovement
func NewStockMovement(id, productID, cartID string, changeQuantity int, movementType string) *StockMovement {
	return &StockMovement{
		ID:             id,
		ProductID:      productID,
		CartID:         cartID,
		ChangeQuantity: changeQuantity,
		MovementType:   movementType,
		CreatedAt:      time.Now(),
	}
}

// MovementType representa os tipos de movimentação de estoque
const (
	MovementTypeDecreased = "decreased"
	MovementTypeIncreased = "increased"
)
