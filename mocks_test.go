package main

import (
	"context"
	"sort"

	"github.com/jackc/pgx/v5"
)

// fakeTx implementa Tx para os testes; as operações do fake são aplicadas
// imediatamente, então Commit/Rollback apenas registram o desfecho.
type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit() error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback() error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

// fakeRepository implementa Repository em memória para os testes de use case
type fakeRepository struct {
	products  map[string]*Product
	carts     map[string]*Cart
	items     map[string]*CartItem
	movements []*StockMovement

	lastTx *fakeTx

	// onBeginTx, quando definido, roda no início de BeginTx; permite
	// intercalar uma escrita concorrente entre a validação e o lock
	onBeginTx func()
}

var _ Repository = (*fakeRepository)(nil)

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		products: map[string]*Product{},
		carts:    map[string]*Cart{},
		items:    map[string]*CartItem{},
	}
}

func (f *fakeRepository) ListProducts(ctx context.Context) ([]Product, error) {
	products := []Product{}
	for _, p := range f.products {
		products = append(products, *p)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.Before(products[j].CreatedAt)
	})
	return products, nil
}

func (f *fakeRepository) GetProduct(ctx context.Context, productID string) (*Product, error) {
	p, ok := f.products[productID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepository) ProductNameExists(ctx context.Context, name string, excludeID string) (bool, error) {
	for _, p := range f.products {
		if p.Name == name && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepository) CreateProduct(ctx context.Context, product *Product) error {
	cp := *product
	f.products[product.ID] = &cp
	return nil
}

func (f *fakeRepository) UpdateProduct(ctx context.Context, tx Tx, product *Product) error {
	cp := *product
	f.products[product.ID] = &cp
	return nil
}

func (f *fakeRepository) DeleteProduct(ctx context.Context, productID string) (bool, error) {
	if _, ok := f.products[productID]; !ok {
		return false, nil
	}
	delete(f.products, productID)
	for id, item := range f.items {
		if item.ProductID == productID {
			delete(f.items, id)
		}
	}
	return true, nil
}

func (f *fakeRepository) CreateCart(ctx context.Context, cart *Cart) error {
	cp := *cart
	f.carts[cart.ID] = &cp
	return nil
}

func (f *fakeRepository) GetCart(ctx context.Context, cartID string) (*Cart, error) {
	c, ok := f.carts[cartID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *c
	cp.Items = []CartItem{}
	return &cp, nil
}

func (f *fakeRepository) ListCartItems(ctx context.Context, cartID string) ([]CartItem, error) {
	items := []CartItem{}
	for _, item := range f.items {
		if item.CartID != cartID {
			continue
		}
		cp := *item
		if p, ok := f.products[item.ProductID]; ok {
			snapshot := *p
			cp.Product = &snapshot
		}
		items = append(items, cp)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (f *fakeRepository) BeginTx(ctx context.Context) (Tx, error) {
	if f.onBeginTx != nil {
		f.onBeginTx()
	}
	f.lastTx = &fakeTx{}
	return f.lastTx, nil
}

func (f *fakeRepository) GetProductForUpdate(ctx context.Context, tx Tx, productID string) (*Product, error) {
	return f.GetProduct(ctx, productID)
}

func (f *fakeRepository) GetCartItemByProduct(ctx context.Context, tx Tx, cartID, productID string) (*CartItem, error) {
	for _, item := range f.items {
		if item.CartID == cartID && item.ProductID == productID {
			cp := *item
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeRepository) GetCartItem(ctx context.Context, tx Tx, cartID, itemID string) (*CartItem, error) {
	item, ok := f.items[itemID]
	if !ok || item.CartID != cartID {
		return nil, pgx.ErrNoRows
	}
	cp := *item
	return &cp, nil
}

func (f *fakeRepository) InsertCartItem(ctx context.Context, tx Tx, item *CartItem) error {
	cp := *item
	f.items[item.ID] = &cp
	return nil
}

func (f *fakeRepository) UpdateCartItemQuantity(ctx context.Context, tx Tx, itemID string, quantity int) error {
	if item, ok := f.items[itemID]; ok {
		item.Quantity = quantity
	}
	return nil
}

func (f *fakeRepository) DeleteCartItem(ctx context.Context, tx Tx, itemID string) error {
	delete(f.items, itemID)
	return nil
}

func (f *fakeRepository) UpdateProductStock(ctx context.Context, tx Tx, productID string, stock int) error {
	if p, ok := f.products[productID]; ok {
		p.Stock = stock
	}
	return nil
}

func (f *fakeRepository) RecordStockMovement(ctx context.Context, tx Tx, movement *StockMovement) error {
	cp := *movement
	f.movements = append(f.movements, &cp)
	return nil
}
