package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/upilabs/go-payment-match-backend/internal/domain"
	"github.com/upilabs/go-payment-match-backend/internal/repo"
	"github.com/upilabs/go-payment-match-backend/internal/services"
)

func demoProduct() *domain.Product {
	return &domain.Product{
		ItemID:    "ebook-1",
		MinPrice:  10,
		MaxPrice:  30,
		FileRefs:  "f1",
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestCreateProduct_Created(t *testing.T) {
	r, f := newTestRouter(t)
	f.products.product = demoProduct()

	w := doJSON(t, r, http.MethodPost, "/products", CreateProductRequest{
		ItemID: "ebook-1", Price: "10-30", FileRefs: "f1",
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var p domain.Product
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("json: %v", err)
	}
	if p.ItemID != "ebook-1" || p.MinPrice != 10 || p.MaxPrice != 30 {
		t.Fatalf("unexpected body: %+v", p)
	}
}

func TestCreateProduct_ErrorMapping(t *testing.T) {
	tests := map[string]struct {
		err    error
		status int
		code   string
	}{
		"bad price range": {services.ErrInvalidPriceRange, http.StatusBadRequest, ErrCodeBadRequest},
		"missing item id": {services.ErrMissingItemRef, http.StatusBadRequest, ErrCodeBadRequest},
		"duplicate":       {repo.ErrDuplicate, http.StatusConflict, ErrCodeConflict},
		"storage failure": {errors.New("disk on fire"), http.StatusInternalServerError, ErrCodeCreateFailed},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			r, f := newTestRouter(t)
			f.products.err = tc.err
			w := doJSON(t, r, http.MethodPost, "/products", CreateProductRequest{ItemID: "x", Price: "10"}, nil)
			if w.Code != tc.status {
				t.Fatalf("status=%d, want %d", w.Code, tc.status)
			}
			var er ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
				t.Fatalf("json: %v", err)
			}
			if er.Code != tc.code {
				t.Errorf("code=%q, want %q", er.Code, tc.code)
			}
		})
	}
}

func TestCreateProduct_MissingFields(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/products", map[string]string{"item_id": "ebook-1"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400 for missing price", w.Code)
	}
}

func TestGetProduct(t *testing.T) {
	r, f := newTestRouter(t)
	f.products.product = demoProduct()

	w := doJSON(t, r, http.MethodGet, "/products/ebook-1", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var p domain.Product
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("json: %v", err)
	}
	if p.ItemID != "ebook-1" {
		t.Fatalf("unexpected body: %+v", p)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	r, f := newTestRouter(t)
	f.products.err = services.ErrProductNotFound

	w := doJSON(t, r, http.MethodGet, "/products/ghost", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", w.Code)
	}
}

func TestListProducts_Pagination(t *testing.T) {
	r, f := newTestRouter(t)
	f.products.page = []domain.Product{*demoProduct()}
	f.products.total = 7

	w := doJSON(t, r, http.MethodGet, "/products?page=1&page_size=5", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var resp ListProductsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	p := resp.Pagination
	if p.Page != 1 || p.Total != 7 || p.TotalPages != 2 || !p.HasNext {
		t.Fatalf("pagination unexpected: %+v", p)
	}
	if len(resp.Products) != 1 {
		t.Fatalf("products len=%d", len(resp.Products))
	}
}
