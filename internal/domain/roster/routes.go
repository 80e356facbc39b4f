package roster

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the roster routes. r must require a courtier.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	clients := r.Group("/roster/clients")
	{
		clients.POST("", h.AddClient)
		clients.GET("/:id", h.GetClient)
		clients.PUT("/:id", h.EditClient)
		clients.POST("/:id/engagements", h.RecordEngagement)
	}
}
