package roster

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"brokerdesk/internal/domain/client"
	"brokerdesk/internal/pkg/response"
	"brokerdesk/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// AddClient godoc
// @Summary Add a client to the caller's roster
// @Description Reuses an existing account holder or broker-managed profile with the same email.
// @Tags Roster
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body AddClientInput true "Client"
// @Success 201 {object} response.Response{data=AddClientResult}
// @Success 200 {object} response.Response{data=AddClientResult}
// @Router /roster/clients [post]
func (h *Handler) AddClient(c *gin.Context) {
	var req AddClientInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid client", errs)
		return
	}

	res, err := h.service.AddClient(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	status := http.StatusOK
	if res.Outcome == OutcomeCreated {
		status = http.StatusCreated
	}
	response.Success(c, status, res)
}

// GetClient godoc
// @Summary Get a client from the caller's roster
// @Tags Roster
// @Security BearerAuth
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} response.Response{data=ClientView}
// @Router /roster/clients/{id} [get]
func (h *Handler) GetClient(c *gin.Context) {
	view, err := h.service.GetClient(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// EditClient godoc
// @Summary Edit a client from the caller's roster
// @Description Only notes can be changed for account holders.
// @Tags Roster
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param request body client.UpdateInput true "Fields to change"
// @Success 200 {object} response.Response{data=ClientView}
// @Router /roster/clients/{id} [put]
func (h *Handler) EditClient(c *gin.Context) {
	var req client.UpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid client", errs)
		return
	}

	view, err := h.service.EditClient(c.Request.Context(), c.GetString("user_id"), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// RecordEngagement godoc
// @Summary Record an engagement with a client
// @Tags Roster
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param request body EngagementRequest false "Engagement time, defaults to now"
// @Success 200 {object} response.Response{data=relation.Relation}
// @Router /roster/clients/{id}/engagements [post]
func (h *Handler) RecordEngagement(c *gin.Context) {
	var req EngagementRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
			return
		}
	}

	rel, err := h.service.RecordEngagement(c.Request.Context(), c.GetString("user_id"), c.Param("id"), req.At)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rel)
}
