package routers

import (
	"github.com/gin-gonic/gin"

	"github.com/gmar02/tccprot/internal/app/server/handlers/demand"
	"github.com/gmar02/tccprot/internal/app/server/middlewares"
	"github.com/gmar02/tccprot/pkg/ginx"
	"github.com/gmar02/tccprot/pkg/logger"
)

// SetupRoutes wires all routes.
func SetupRoutes(demandHandler *demand.DemandHandler, log logger.Logger) *gin.Engine {
	ginx.RegisterTagNames()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.CORS())
	r.Use(middlewares.RequestLogger(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "tccprot",
		})
	})

	r.GET("/teste", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"mensagem": "Teste concluído com sucesso!",
		})
	})

	r.POST("/processar", demandHandler.Process)

	return r
}
