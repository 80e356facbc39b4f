package client

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the broker-facing client routes. r must require a
// courtier profile.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	clients := r.Group("/clients")
	{
		clients.GET("/lookup", h.Lookup)
		if h.lookupWS != nil {
			clients.GET("/lookup/ws", h.lookupWS.Serve)
		}
		clients.GET("/:id", h.GetClient)
	}
}

// RegisterAccountRoutes mounts the account holder's self-service routes. r
// must run JWT authentication.
func (h *Handler) RegisterAccountRoutes(r *gin.RouterGroup) {
	me := r.Group("/accounts/me")
	{
		me.POST("", h.RegisterAccount)
		me.GET("", h.GetAccount)
		me.PUT("", h.UpdateAccount)
	}
}
