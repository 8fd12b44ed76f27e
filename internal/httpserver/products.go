package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ledger/internal/domain"
	productsvc "ledger/internal/service/product"
)

type productRequest struct {
	Name  string `json:"name" binding:"required"`
	Price int64  `json:"price" binding:"gte=0"`
}

func (h *handlers) listProducts(c *gin.Context) {
	sort, err := querySort(c, true, domain.SortByName, domain.SortByPrice)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	var f domain.ProductFilters
	if f.PriceMin, err = queryInt64(c, "priceMin"); err != nil {
		badRequest(c, err.Error())
		return
	}
	if f.PriceMax, err = queryInt64(c, "priceMax"); err != nil {
		badRequest(c, err.Error())
		return
	}

	products, err := h.deps.ProductSvc.List(c.Request.Context(), productsvc.ListOptions{Filters: f, Sort: sort})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": products, "count": len(products)})
}

func (h *handlers) createProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name required and price must not be negative")
		return
	}
	product, err := h.deps.ProductSvc.Create(c.Request.Context(), productsvc.Input(req))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *handlers) getProduct(c *gin.Context) {
	product, err := h.deps.ProductSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *handlers) updateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name required and price must not be negative")
		return
	}
	product, err := h.deps.ProductSvc.Update(c.Request.Context(), c.Param("id"), productsvc.Input(req))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *handlers) deleteProduct(c *gin.Context) {
	if err := h.deps.ProductSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
