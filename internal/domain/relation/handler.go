package relation

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"brokerdesk/internal/pkg/response"
)

// Handler serves the calling broker's relations.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List godoc
// @Summary List the caller's active client relations
// @Tags Relations
// @Security BearerAuth
// @Produce json
// @Param page_size query int false "Page size"
// @Param cursor query string false "Cursor from the previous page"
// @Success 200 {object} response.Response{data=Page}
// @Router /relations [get]
func (h *Handler) List(c *gin.Context) {
	pageSize := 0
	if raw := c.Query("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.Error(c, http.StatusBadRequest, "INVALID_PAGE_SIZE", "page_size must be a positive integer")
			return
		}
		pageSize = n
	}

	page, err := h.service.ListByBroker(c.Request.Context(), c.GetString("user_id"), pageSize, c.Query("cursor"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

// Get godoc
// @Summary Get one of the caller's relations
// @Tags Relations
// @Security BearerAuth
// @Produce json
// @Param id path string true "Relation ID"
// @Success 200 {object} response.Response{data=Relation}
// @Router /relations/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	rel, err := h.service.GetOwned(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rel)
}

// Deactivate godoc
// @Summary Deactivate one of the caller's relations
// @Tags Relations
// @Security BearerAuth
// @Produce json
// @Param id path string true "Relation ID"
// @Success 200 {object} response.Response{data=Relation}
// @Router /relations/{id}/deactivate [post]
func (h *Handler) Deactivate(c *gin.Context) {
	ctx := c.Request.Context()
	rel, err := h.service.GetOwned(ctx, c.GetString("user_id"), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	rel, err = h.service.Deactivate(ctx, rel.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rel)
}
