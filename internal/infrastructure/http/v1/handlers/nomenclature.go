package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"onghub/internal/domain/nomenclature"
	"onghub/internal/infrastructure/http/v1/dto"
)

// NomenclatureService lists reference data.
type NomenclatureService interface {
	ListCounties(ctx context.Context) ([]nomenclature.County, error)
	ListCities(ctx context.Context, countyID *int, search string) ([]nomenclature.City, error)
	ListDomains(ctx context.Context) ([]nomenclature.Domain, error)
	ListRegions(ctx context.Context) ([]nomenclature.Region, error)
	ListFederations(ctx context.Context) ([]nomenclature.Federation, error)
	ListCoalitions(ctx context.Context) ([]nomenclature.Coalition, error)
}

// NomenclatureHandler serves /nomenclatures.
type NomenclatureHandler struct {
	*BaseHandler
	service NomenclatureService
}

// NewNomenclatureHandler creates a new nomenclature handler.
func NewNomenclatureHandler(service NomenclatureService) *NomenclatureHandler {
	return &NomenclatureHandler{BaseHandler: NewBaseHandler(), service: service}
}

// Cities handles GET /nomenclatures/cities?countyId=&search=.
func (h *NomenclatureHandler) Cities(c *gin.Context) {
	var q dto.CitiesQuery
	if !h.BindQuery(c, &q) {
		return
	}
	respond(h.BaseHandler, c, func(ctx context.Context) ([]nomenclature.City, error) {
		return h.service.ListCities(ctx, q.CountyID, q.Search)
	})
}

// Counties handles GET /nomenclatures/counties.
func (h *NomenclatureHandler) Counties(c *gin.Context) {
	respond(h.BaseHandler, c, h.service.ListCounties)
}

// Domains handles GET /nomenclatures/domains.
func (h *NomenclatureHandler) Domains(c *gin.Context) {
	respond(h.BaseHandler, c, h.service.ListDomains)
}

// Regions handles GET /nomenclatures/regions.
func (h *NomenclatureHandler) Regions(c *gin.Context) {
	respond(h.BaseHandler, c, h.service.ListRegions)
}

// Federations handles GET /nomenclatures/federations.
func (h *NomenclatureHandler) Federations(c *gin.Context) {
	respond(h.BaseHandler, c, h.service.ListFederations)
}

// Coalitions handles GET /nomenclatures/coalitions.
func (h *NomenclatureHandler) Coalitions(c *gin.Context) {
	respond(h.BaseHandler, c, h.service.ListCoalitions)
}

func respond[T any](h *BaseHandler, c *gin.Context, load func(context.Context) ([]T, error)) {
	rows, err := load(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	if rows == nil {
		rows = []T{}
	}
	h.OK(c, rows)
}
