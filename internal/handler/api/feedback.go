package api

import (
	"net/http"
	"strconv"

	reqdto "theater-booking-api/internal/handler/dto/request"
	resdto "theater-booking-api/internal/handler/dto/response"
	"theater-booking-api/internal/infra"
	"theater-booking-api/internal/infra/archivestore"
	"theater-booking-api/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type FeedbackHandler struct {
	feedbackCommands commands.FeedbackCommands
}

func NewFeedbackHandler(feedbackCommands commands.FeedbackCommands) *FeedbackHandler {
	return &FeedbackHandler{feedbackCommands: feedbackCommands}
}

// @Summary Upsert feedback
// @Tags feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.UpsertFeedbackRequest true "Feedback record"
// @Success 200 {object} resdto.Result
// @Failure 400 {object} resdto.Result
// @Router /feedback [post]
func (h *FeedbackHandler) Upsert(c *gin.Context) {
	var req reqdto.UpsertFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, resdto.Failed("invalid feedback record"))
		return
	}

	if err := h.feedbackCommands.Upsert(c.Request.Context(), req.ToRecord()); err != nil {
		c.JSON(http.StatusInternalServerError, resdto.Failed("failed to store feedback"))
		return
	}

	c.JSON(http.StatusOK, resdto.OK())
}

// @Summary Update feedback
// @Tags feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Mongo id or numeric feedback id"
// @Param request body reqdto.UpdateFeedbackRequest true "Partial update"
// @Success 200 {object} resdto.Result
// @Failure 400 {object} resdto.Result
// @Failure 404 {object} resdto.Result
// @Router /feedback/{id} [patch]
func (h *FeedbackHandler) Update(c *gin.Context) {
	var req reqdto.UpdateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, resdto.Failed("invalid feedback update"))
		return
	}

	err := h.feedbackCommands.Update(c.Request.Context(), feedbackRef(c.Param("id")), req.ToUpdate())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			c.JSON(http.StatusNotFound, resdto.Failed("feedback not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, resdto.Failed("failed to update feedback"))
		return
	}

	c.JSON(http.StatusOK, resdto.OK())
}

// @Summary Delete feedback
// @Tags feedback
// @Produce json
// @Security BearerAuth
// @Param id path string true "Mongo id or numeric feedback id"
// @Success 200 {object} resdto.Result
// @Failure 404 {object} resdto.Result
// @Router /feedback/{id} [delete]
func (h *FeedbackHandler) Delete(c *gin.Context) {
	err := h.feedbackCommands.Delete(c.Request.Context(), feedbackRef(c.Param("id")))
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			c.JSON(http.StatusNotFound, resdto.Failed("feedback not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, resdto.Failed("failed to delete feedback"))
		return
	}

	c.JSON(http.StatusOK, resdto.OK())
}

// feedbackRef resolves a path id: all-digits means the numeric feedback id,
// anything else the external mongo id.
func feedbackRef(id string) archivestore.FeedbackRef {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return archivestore.FeedbackRef{FeedbackID: &n}
	}
	return archivestore.FeedbackRef{MongoID: id}
}
