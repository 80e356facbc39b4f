package relation

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the relation routes. r must require a courtier.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	relations := r.Group("/relations")
	{
		relations.GET("", h.List)
		relations.GET("/:id", h.Get)
		relations.POST("/:id/deactivate", h.Deactivate)
	}
}
