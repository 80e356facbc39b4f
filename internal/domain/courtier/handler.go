package courtier

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"brokerdesk/internal/pkg/response"
	"brokerdesk/internal/pkg/validator"
)

// Handler serves the caller's own courtier profile.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register godoc
// @Summary Register the caller as a courtier
// @Tags Courtiers
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body RegisterInput true "Profile"
// @Success 201 {object} response.Response{data=Courtier}
// @Router /courtiers/me [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid courtier profile", errs)
		return
	}

	profile, err := h.service.Register(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, profile)
}

// GetMe godoc
// @Summary Get the caller's courtier profile
// @Tags Courtiers
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response{data=Courtier}
// @Router /courtiers/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	profile, err := h.service.Get(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

// UpdateMe godoc
// @Summary Update the caller's courtier profile
// @Tags Courtiers
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body UpdateInput true "Fields to change"
// @Success 200 {object} response.Response{data=Courtier}
// @Router /courtiers/me [put]
func (h *Handler) UpdateMe(c *gin.Context) {
	var req UpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid courtier profile", errs)
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

// UpdateAvailability godoc
// @Summary Replace the caller's weekly availability
// @Tags Courtiers
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body Availability true "Weekly availability"
// @Success 200 {object} response.Response{data=Courtier}
// @Router /courtiers/me/availability [put]
func (h *Handler) UpdateAvailability(c *gin.Context) {
	var req Availability
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	profile, err := h.service.UpdateAvailability(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}
