package cabinet

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the cabinet routes. r must require a courtier.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	cabinets := r.Group("/cabinets")
	{
		cabinets.POST("", h.Create)
		cabinets.GET("/:id", h.Get)
		cabinets.PUT("/:id", h.Update)
		cabinets.DELETE("/:id", h.Delete)
		cabinets.POST("/:id/members", h.AddMember)
		cabinets.DELETE("/:id/members/:courtier_id", h.RemoveMember)
		cabinets.POST("/:id/admin", h.TransferAdmin)
	}
}
