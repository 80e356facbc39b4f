package courtier

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the self-service courtier routes. r must already
// run JWT authentication.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	me := r.Group("/courtiers/me")
	{
		me.POST("", h.Register)
		me.GET("", h.GetMe)
		me.PUT("", h.UpdateMe)
		me.PUT("/availability", h.UpdateAvailability)
	}
}
