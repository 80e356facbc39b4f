package client

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"brokerdesk/internal/pkg/response"
	"brokerdesk/internal/pkg/validator"
)

// Handler serves client lookups and the account holder's own profile.
type Handler struct {
	service  *Service
	resolver EmailResolver
	lookupWS *LookupHandler
}

func NewHandler(service *Service, resolver EmailResolver, lookupWS *LookupHandler) *Handler {
	return &Handler{service: service, resolver: resolver, lookupWS: lookupWS}
}

// Lookup godoc
// @Summary Resolve an email to a client identity
// @Tags Clients
// @Security BearerAuth
// @Produce json
// @Param email query string true "Email"
// @Success 200 {object} response.Response{data=LookupResponse}
// @Router /clients/lookup [get]
func (h *Handler) Lookup(c *gin.Context) {
	res, err := h.resolver.Resolve(c.Request.Context(), c.Query("email"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toLookupResponse(res))
}

// GetClient godoc
// @Summary Get a client profile
// @Tags Clients
// @Security BearerAuth
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} response.Response{data=Profile}
// @Router /clients/{id} [get]
func (h *Handler) GetClient(c *gin.Context) {
	p, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// RegisterAccount godoc
// @Summary Register or claim the caller's client profile
// @Tags Accounts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body RegisterInput true "Profile"
// @Success 201 {object} response.Response{data=Profile}
// @Router /accounts/me [post]
func (h *Handler) RegisterAccount(c *gin.Context) {
	var req RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid profile", errs)
		return
	}

	p, err := h.service.RegisterAccount(c.Request.Context(), c.GetString("user_id"), c.GetString("verified_email"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p)
}

// GetAccount godoc
// @Summary Get the caller's client profile
// @Tags Accounts
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response{data=Profile}
// @Router /accounts/me [get]
func (h *Handler) GetAccount(c *gin.Context) {
	p, err := h.service.GetByUserID(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// UpdateAccount godoc
// @Summary Update the caller's client profile
// @Tags Accounts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body UpdateInput true "Fields to change"
// @Success 200 {object} response.Response{data=Profile}
// @Router /accounts/me [put]
func (h *Handler) UpdateAccount(c *gin.Context) {
	var req UpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid profile", errs)
		return
	}

	p, err := h.service.UpdateSelf(c.Request.Context(), c.GetString("user_id"), c.GetString("verified_email"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}
