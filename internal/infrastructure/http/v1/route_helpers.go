package v1

import (
	"github.com/gin-gonic/gin"
)

// NomenclatureRouteHandler serves the read-only reference lists.
type NomenclatureRouteHandler interface {
	Counties(c *gin.Context)
	Cities(c *gin.Context)
	Domains(c *gin.Context)
	Regions(c *gin.Context)
	Federations(c *gin.Context)
	Coalitions(c *gin.Context)
}

// registerNomenclatureRoutes mounts one GET per reference list.
func registerNomenclatureRoutes(group *gin.RouterGroup, handler NomenclatureRouteHandler) {
	group.GET("/counties", handler.Counties)
	group.GET("/cities", handler.Cities)
	group.GET("/domains", handler.Domains)
	group.GET("/regions", handler.Regions)
	group.GET("/federations", handler.Federations)
	group.GET("/coalitions", handler.Coalitions)
}
