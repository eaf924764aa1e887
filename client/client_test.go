package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/products", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]Product{
			{ID: "p1", Name: "Widget", Price: 9.99, Stock: 5},
		})
	}))
	defer srv.Close()

	api := New(srv.URL)
	products, err := api.ListProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Widget", products[0].Name)
	assert.Equal(t, 9.99, products[0].Price)
}

func TestGetProduct_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "product not found"})
	}))
	defer srv.Close()

	api := New(srv.URL)
	_, err := api.GetProduct(context.Background(), "missing")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "product not found", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "404")
}

func TestAddItem_SendsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/cart/c1/items", r.URL.Path)

		var req AddItemRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "p1", req.ProductID)
		assert.Equal(t, 2, req.Quantity)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Cart{ID: "c1", Total: 19.98})
	}))
	defer srv.Close()

	api := New(srv.URL)
	cart, err := api.AddItem(context.Background(), "c1", AddItemRequest{ProductID: "p1", Quantity: 2})

	require.NoError(t, err)
	assert.Equal(t, "c1", cart.ID)
	assert.InDelta(t, 19.98, cart.Total, 1e-9)
}

func TestDeleteProduct_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	api := New(srv.URL)
	assert.NoError(t, api.DeleteProduct(context.Background(), "p1"))
}
