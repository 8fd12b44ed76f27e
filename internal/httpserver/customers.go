package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ledger/internal/domain"
	customersvc "ledger/internal/service/customer"
)

type customerRequest struct {
	Name    string `json:"name" binding:"required"`
	Balance int64  `json:"balance" binding:"gte=0"`
}

type balanceRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

func (h *handlers) listCustomers(c *gin.Context) {
	sort, err := querySort(c, true, domain.SortByName, domain.SortByBalance)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	var f domain.CustomerFilters
	if f.BalanceMin, err = queryInt64(c, "balanceMin"); err != nil {
		badRequest(c, err.Error())
		return
	}
	if f.BalanceMax, err = queryInt64(c, "balanceMax"); err != nil {
		badRequest(c, err.Error())
		return
	}
	if f.DebtMin, err = queryDecimal(c, "debtMin"); err != nil {
		badRequest(c, err.Error())
		return
	}
	if f.DebtMax, err = queryDecimal(c, "debtMax"); err != nil {
		badRequest(c, err.Error())
		return
	}

	customers, err := h.deps.CustomerSvc.List(c.Request.Context(), customersvc.ListOptions{Filters: f, Sort: sort})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": customers, "count": len(customers)})
}

func (h *handlers) createCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name required and balance must not be negative")
		return
	}
	customer, err := h.deps.CustomerSvc.Create(c.Request.Context(), customersvc.Input{Name: req.Name, Balance: req.Balance})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *handlers) getCustomer(c *gin.Context) {
	customer, err := h.deps.CustomerSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *handlers) updateCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name required")
		return
	}
	customer, err := h.deps.CustomerSvc.Update(c.Request.Context(), c.Param("id"), customersvc.Input{Name: req.Name})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *handlers) deleteCustomer(c *gin.Context) {
	if err := h.deps.CustomerSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) addBalance(c *gin.Context) {
	var req balanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "amount must be positive")
		return
	}
	customer, err := h.deps.CustomerSvc.AddBalance(c.Request.Context(), c.Param("id"), req.Amount)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *handlers) withdrawBalance(c *gin.Context) {
	var req balanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "amount must be positive")
		return
	}
	customer, err := h.deps.CustomerSvc.WithdrawBalance(c.Request.Context(), c.Param("id"), req.Amount)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}
