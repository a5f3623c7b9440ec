package routes

import (
	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/services"
	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/utils"
	"github.com/kataras/iris/v12"
)

type SearchHandler struct {
	svc *services.SearchService
}

func NewSearchHandler(svc *services.SearchService) *SearchHandler {
	return &SearchHandler{svc: svc}
}

// Filter answers GET /api/propiedades and GET /api/filtros with the
// parameterized availability filters.
func (h *SearchHandler) Filter(ctx iris.Context) {
	filters := services.SearchFilters{
		Status:           ctx.URLParam("estado"),
		TargetAudienceID: uint(ctx.URLParamIntDefault("publico_objetivo_id", 0)),
		PriceMin:         ctx.URLParamFloat64Default("precio_min", 0),
		PriceMax:         ctx.URLParamFloat64Default("precio_max", 0),
	}

	if ctx.URLParamExists("es_amoblado") {
		furnished, err := ctx.URLParamBool("es_amoblado")
		if err != nil {
			utils.CreateError(iris.StatusBadRequest, "es_amoblado debe ser true o false", ctx)
			return
		}
		filters.Furnished = &furnished
	}

	properties, err := h.svc.Search(ctx.Request().Context(), filters)
	if err != nil {
		utils.HandleError(err, ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "properties": properties, "total": len(properties)})
}
