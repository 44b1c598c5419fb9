// Product HTTP handlers.
//
// This file exposes REST endpoints for the product catalogue:
//   - POST /products        (create)
//   - GET  /products        (list, paginated)
//   - GET  /products/:id    (fetch one)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/upilabs/go-payment-match-backend/internal/domain"
	"github.com/upilabs/go-payment-match-backend/internal/repo"
	"github.com/upilabs/go-payment-match-backend/internal/services"
)

// CreateProductRequest is the JSON payload for a new catalogue entry.
type CreateProductRequest struct {
	// ItemID is the stable product identifier used in session creation.
	ItemID string `json:"item_id" binding:"required" example:"ebook-1"`
	// Price is either a fixed whole-rupee price ("250") or an inclusive
	// range ("10-30").
	Price string `json:"price" binding:"required" example:"10-30"`
	// FileRefs is opaque delivery metadata passed through to fulfilment.
	FileRefs string `json:"file_refs,omitempty"`
}

// ListProductsResponse wraps a page of products and pagination information.
type ListProductsResponse struct {
	Products   []domain.Product `json:"products"`
	Pagination Pagination       `json:"pagination"`
}

// CreateProduct godoc
// @ID          createProduct
// @Summary     Create a product
// @Description Adds a catalogue entry with a fixed price or an inclusive whole-rupee price range.
// @Tags        Products
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CreateProductRequest  true  "Create product payload"
//
// @Success     201  {object}  domain.Product
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse  "Duplicate item id"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /products [post]
func (h *Handlers) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	p, err := h.products.Create(c.Request.Context(), services.CreateProductInput{
		ItemID:    req.ItemID,
		PriceSpec: req.Price,
		FileRefs:  req.FileRefs,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPriceRange), errors.Is(err, services.ErrMissingItemRef):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, repo.ErrDuplicate):
			fail(c, http.StatusConflict, ErrCodeConflict, "item id already exists")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, p)
}

// GetProduct godoc
// @ID          getProduct
// @Summary     Fetch one product
// @Tags        Products
// @Produce     json
//
// @Param       id  path  string  true  "Product item id"  example(ebook-1)
//
// @Success     200  {object}  domain.Product
// @Failure     404  {object}  handlers.ErrorResponse  "Product not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /products/{id} [get]
func (h *Handlers) GetProduct(c *gin.Context) {
	p, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "product not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, p)
}

// ListProducts godoc
// @ID          listProducts
// @Summary     List products (paginated)
// @Tags        Products
// @Produce     json
//
// @Param       page       query  int  false "Page number"     minimum(1) default(1)
// @Param       page_size  query  int  false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListProductsResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /products [get]
func (h *Handlers) ListProducts(c *gin.Context) {
	page, pageSize := clampPagination(c)
	items, total, err := h.products.ListPage(c.Request.Context(), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListProductsResponse{
		Products:   items,
		Pagination: paginationFor(page, pageSize, total),
	})
}
