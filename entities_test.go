package main

import (
	"testing"
	"time"
)

func TestNewProduct(t *testing.T) {
	// Arrange
	id := "prod-123"
	name := "Widget"
	description := "A small widget"
	price := 9.99
	stock := 5

	// Act
	product := NewProduct(id, name, description, price, stock)

	// Assert
	if product.ID != id {
		t.Errorf("Expected ID %s, got %s", id, product.ID)
	}
	if product.Name != name {
		t.Errorf("Expected Name %s, got %s", name, product.Name)
	}
	if product.Description != description {
		t.Errorf("Expected Description %s, got %s", description, product.Description)
	}
	if product.Price != price {
		t.Errorf("Expected Price %f, got %f", price, product.Price)
	}
	if product.Stock != stock {
		t.Errorf("Expected Stock %d, got %d", stock, product.Stock)
	}
	if product.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}
	if product.UpdatedAt.IsZero() {
		t.Error("Expected UpdatedAt to be set")
	}

	now := time.Now()
	if product.CreatedAt.After(now) || product.CreatedAt.Before(now.Add(-time.Second)) {
		t.Error("CreatedAt is not within expected time range")
	}
}

func TestNewCart(t *testing.T) {
	// Act
	cart := NewCart("cart-123")

	// Assert
	if cart.ID != "cart-123" {
		t.Errorf("Expected ID cart-123, got %s", cart.ID)
	}
	if cart.Items == nil {
		t.Error("Expected Items to be initialized")
	}
	if !cart.IsEmpty() {
		t.Error("Expected new cart to be empty")
	}
	if cart.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}
}

func TestCartTotal(t *testing.T) {
	// Arrange
	widget := NewProduct("p1", "Widget", "", 9.99, 5)
	gadget := NewProduct("p2", "Gadget", "", 2.50, 10)

	cart := NewCart("cart-123")
	cart.Items = []CartItem{
		{ID: "i1", CartID: cart.ID, ProductID: widget.ID, Quantity: 2, Product: widget},
		{ID: "i2", CartID: cart.ID, ProductID: gadget.ID, Quantity: 4, Product: gadget},
	}

	// Act
	total := cart.Total()

	// Assert
	expected := 9.99*2 + 2.50*4
	if total != expected {
		t.Errorf("Expected total %f, got %f", expected, total)
	}
}

func TestCartTotal_Empty(t *testing.T) {
	cart := NewCart("cart-123")

	if cart.Total() != 0 {
		t.Errorf("Expected total 0 for empty cart, got %f", cart.Total())
	}
}

func TestNewCartItem(t *testing.T) {
	// Act
	item := NewCartItem("item-1", "cart-1", "prod-1", 3)

	// Assert
	if item.ID != "item-1" {
		t.Errorf("Expected ID item-1, got %s", item.ID)
	}
	if item.CartID != "cart-1" {
		t.Errorf("Expected CartID cart-1, got %s", item.CartID)
	}
	if item.ProductID != "prod-1" {
		t.Errorf("Expected ProductID prod-1, got %s", item.ProductID)
	}
	if item.Quantity != 3 {
		t.Errorf("Expected Quantity 3, got %d", item.Quantity)
	}
	if item.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}
}

func TestMovementTypes(t *testing.T) {
	// Test that constants are defined correctly
	if MovementTypeDecreased != "decreased" {
		t.Errorf("Expected MovementTypeDecreased to be 'decreased', got %s", MovementTypeDecreased)
	}
	if MovementTypeIncreased != "increased" {
		t.Errorf("Expected MovementTypeIncreased to be 'increased', got %s", MovementTypeIncreased)
	}
}
