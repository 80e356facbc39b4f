package cabinet

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"brokerdesk/internal/domain/courtier"
	"brokerdesk/internal/pkg/response"
	"brokerdesk/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create godoc
// @Summary Create a cabinet administered by the caller
// @Tags Cabinets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CreateInput true "Cabinet"
// @Success 201 {object} response.Response{data=Cabinet}
// @Router /cabinets [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateInput
	if !bind(c, &req) {
		return
	}

	cab, err := h.service.Create(c.Request.Context(), req, c.GetString("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, cab)
}

// Get godoc
// @Summary Get a cabinet and its members
// @Tags Cabinets
// @Security BearerAuth
// @Produce json
// @Param id path string true "Cabinet ID"
// @Success 200 {object} response.Response{data=WithMembers}
// @Router /cabinets/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	cab, err := h.service.GetForMember(c.Request.Context(), c.Param("id"), c.GetString("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cab)
}

// Update godoc
// @Summary Update cabinet details
// @Tags Cabinets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Cabinet ID"
// @Param request body UpdateInput true "Fields to change"
// @Success 200 {object} response.Response{data=Cabinet}
// @Router /cabinets/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	var req UpdateInput
	if !bind(c, &req) || !h.requireAdmin(c) {
		return
	}

	cab, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cab)
}

// Delete godoc
// @Summary Delete a cabinet and detach its members
// @Tags Cabinets
// @Security BearerAuth
// @Produce json
// @Param id path string true "Cabinet ID"
// @Success 200 {object} response.Response
// @Router /cabinets/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// AddMember godoc
// @Summary Add a courtier to the cabinet by email
// @Tags Cabinets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Cabinet ID"
// @Param request body AddMemberRequest true "Invitee"
// @Success 200 {object} response.Response{data=courtier.Courtier}
// @Router /cabinets/{id}/members [post]
func (h *Handler) AddMember(c *gin.Context) {
	var req AddMemberRequest
	if !bind(c, &req) || !h.requireAdmin(c) {
		return
	}
	role, ok := courtier.ParseRole(req.Role)
	if !ok {
		response.FromError(c, courtier.ErrInvalidRole)
		return
	}

	ctx := c.Request.Context()
	invitee, err := h.service.FindByEmail(ctx, req.Email)
	if err != nil {
		response.FromError(c, err)
		return
	}
	member, err := h.service.AddMember(ctx, c.Param("id"), invitee.ID, role)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, member)
}

// RemoveMember godoc
// @Summary Remove a member, or leave the cabinet
// @Description The admin may remove any other member. Any member may remove themselves.
// @Tags Cabinets
// @Security BearerAuth
// @Produce json
// @Param id path string true "Cabinet ID"
// @Param courtier_id path string true "Courtier ID"
// @Success 200 {object} response.Response{data=courtier.Courtier}
// @Router /cabinets/{id}/members/{courtier_id} [delete]
func (h *Handler) RemoveMember(c *gin.Context) {
	ctx := c.Request.Context()
	cabinetID, targetID := c.Param("id"), c.Param("courtier_id")

	if targetID != c.GetString("user_id") && !h.requireAdmin(c) {
		return
	}
	if _, err := h.service.RequireMember(ctx, cabinetID, targetID); err != nil {
		response.FromError(c, err)
		return
	}

	member, err := h.service.RemoveMember(ctx, targetID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, member)
}

// TransferAdmin godoc
// @Summary Transfer the admin role to another member
// @Tags Cabinets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Cabinet ID"
// @Param request body TransferAdminRequest true "New admin"
// @Success 200 {object} response.Response{data=Cabinet}
// @Router /cabinets/{id}/admin [post]
func (h *Handler) TransferAdmin(c *gin.Context) {
	var req TransferAdminRequest
	if !bind(c, &req) || !h.requireAdmin(c) {
		return
	}

	cab, err := h.service.TransferAdmin(c.Request.Context(), c.Param("id"), req.CourtierID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cab)
}

func (h *Handler) requireAdmin(c *gin.Context) bool {
	if err := h.service.RequireAdmin(c.Request.Context(), c.Param("id"), c.GetString("user_id")); err != nil {
		response.FromError(c, err)
		return false
	}
	return true
}

func bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return false
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid request", errs)
		return false
	}
	return true
}
