package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ledger/internal/domain"
	queuesvc "ledger/internal/service/queue"
)

type previewRequest struct {
	QueueID string `json:"queueId"`
	queuesvc.Input
}

func (h *handlers) listQueues(c *gin.Context) {
	opts := h.deps.QueueSvc.DefaultListOptions()

	sort, err := querySort(c, false, domain.SortByDate, domain.SortByCustomerName, domain.SortByTotalPrice)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	opts.Sort = sort

	f := &opts.Filters
	f.CustomerIDs = queryList(c, "customerId")
	if f.NullCustomerShown, err = queryBool(c, "showNullCustomer", f.NullCustomerShown); err != nil {
		badRequest(c, err.Error())
		return
	}
	statuses, err := queryStatuses(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if statuses != nil {
		f.Statuses = statuses
	}
	if f.Date, err = queryDate(c, h.now()); err != nil {
		badRequest(c, err.Error())
		return
	}
	if f.TotalPriceMin, err = queryDecimal(c, "totalMin"); err != nil {
		badRequest(c, err.Error())
		return
	}
	if f.TotalPriceMax, err = queryDecimal(c, "totalMax"); err != nil {
		badRequest(c, err.Error())
		return
	}

	queues, err := h.deps.QueueSvc.List(c.Request.Context(), opts)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": queues, "count": len(queues)})
}

func (h *handlers) createQueue(c *gin.Context) {
	var in queuesvc.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid queue body")
		return
	}
	q, err := h.deps.QueueSvc.Create(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, q)
}

func (h *handlers) getQueue(c *gin.Context) {
	q, err := h.deps.QueueSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *handlers) updateQueue(c *gin.Context) {
	var in queuesvc.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid queue body")
		return
	}
	q, err := h.deps.QueueSvc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *handlers) deleteQueue(c *gin.Context) {
	if err := h.deps.QueueSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) previewQueue(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid queue body")
		return
	}
	p, err := h.deps.QueueSvc.Preview(c.Request.Context(), req.QueueID, req.Input)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
