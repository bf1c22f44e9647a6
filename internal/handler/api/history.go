package api

import (
	"errors"
	"net/http"

	resdto "theater-booking-api/internal/handler/dto/response"
	"theater-booking-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type HistoryHandler struct {
	historyQueries queries.HistoryQueries
}

func NewHistoryHandler(historyQueries queries.HistoryQueries) *HistoryHandler {
	return &HistoryHandler{historyQueries: historyQueries}
}

// @Summary Query archived bookings
// @Description Archived rows for a date range, newest first, as flat records
// @Tags archive
// @Produce json
// @Security BearerAuth
// @Param table path string true "cancelled or completed"
// @Param from query string true "Start date (YYYY-MM-DD)"
// @Param to query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} resdto.HistoryResponse
// @Failure 400 {object} resdto.Result
// @Failure 404 {object} resdto.Result
// @Router /archive/{table}/history [get]
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	table := c.Param("table")
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, resdto.Failed("from and to query parameters are required"))
		return
	}

	records, err := h.historyQueries.Archived(c.Request.Context(), table, from, to)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrUnknownTable):
			c.JSON(http.StatusNotFound, resdto.Failed("unknown archive table"))
		case errors.Is(err, queries.ErrInvalidDateRange):
			c.JSON(http.StatusBadRequest, resdto.Failed("invalid date range"))
		default:
			c.JSON(http.StatusInternalServerError, resdto.Failed("failed to query archive"))
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromRecords(records))
}
