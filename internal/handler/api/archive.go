package api

import (
	"context"
	"errors"
	"net/http"

	"theater-booking-api/internal/domain/booking"
	resdto "theater-booking-api/internal/handler/dto/response"
	"theater-booking-api/internal/infra"
	"theater-booking-api/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type ArchiveHandler struct {
	archiveCommands commands.ArchiveCommands
}

func NewArchiveHandler(archiveCommands commands.ArchiveCommands) *ArchiveHandler {
	return &ArchiveHandler{archiveCommands: archiveCommands}
}

// @Summary Archive cancelled booking
// @Description Move a cancelled booking into the archival store and delete the live document
// @Tags archive
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object true "Full booking document"
// @Success 200 {object} resdto.Result
// @Failure 400 {object} resdto.Result
// @Failure 502 {object} resdto.Result
// @Router /archive/cancelled [post]
func (h *ArchiveHandler) ArchiveCancelled(c *gin.Context) {
	h.archive(c, h.archiveCommands.ArchiveCancelled)
}

// @Summary Archive completed booking
// @Description Move a completed booking into the archival store and delete the live document
// @Tags archive
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object true "Full booking document"
// @Success 200 {object} resdto.Result
// @Failure 400 {object} resdto.Result
// @Failure 502 {object} resdto.Result
// @Router /archive/completed [post]
func (h *ArchiveHandler) ArchiveCompleted(c *gin.Context) {
	h.archive(c, h.archiveCommands.ArchiveCompleted)
}

func (h *ArchiveHandler) archive(c *gin.Context, run func(ctx context.Context, snap booking.Snapshot) error) {
	var snap booking.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		c.JSON(http.StatusBadRequest, resdto.Failed("invalid booking document"))
		return
	}

	err := run(c.Request.Context(), snap)
	if err != nil {
		switch {
		case infra.IsKind(err, infra.KindNotFound):
			c.JSON(http.StatusBadRequest, resdto.Failed("booking document has no bookingId"))
		case errors.Is(err, commands.ErrOperationalDeleteFailed):
			c.JSON(http.StatusBadGateway, resdto.Failed("booking archived but operational delete failed"))
		default:
			c.JSON(http.StatusInternalServerError, resdto.Failed("archival failed"))
		}
		return
	}

	c.JSON(http.StatusOK, resdto.OK())
}
