package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"example.com/giradamata/services/admin/internal/service"
)

// HistoryHandler handles action-history HTTP requests
type HistoryHandler struct {
	history *service.HistoryService
	undo    *service.UndoService
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(history *service.HistoryService, undo *service.UndoService) *HistoryHandler {
	return &HistoryHandler{history: history, undo: undo}
}

// List returns the most recent history entries, newest first
func (h *HistoryHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	entries, err := h.history.List(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// Search queries the audit index for entries matching free text. Returns 503
// when no search index is configured.
func (h *HistoryHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query"})
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	results, err := h.history.Search(c.Request.Context(), query, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// UndoRequest carries the confirmation credential for an undo
type UndoRequest struct {
	Credential string `json:"credential" binding:"required"`
}

// Undo applies the inverse of a recorded action under password confirmation.
// The response is boolean: success true on commit, a precise failure status
// otherwise. Retry is the caller's responsibility; the entry stays active on
// failure.
func (h *HistoryHandler) Undo(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UndoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.undo.Undo(c.Request.Context(), id, req.Credential, actorFrom(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
