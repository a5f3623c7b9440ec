package routes

import (
	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/models"
	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/utils"
	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

// CatalogHandler serves the static lookup tables.
type CatalogHandler struct {
	db *gorm.DB
}

func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

func (h *CatalogHandler) PropertyStatuses(ctx iris.Context) {
	var statuses []models.PropertyStatus
	if err := h.db.Order("id").Find(&statuses).Error; err != nil {
		utils.HandleError(err, ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "statuses": statuses})
}

func (h *CatalogHandler) TargetAudiences(ctx iris.Context) {
	var audiences []models.TargetAudience
	if err := h.db.Order("id").Find(&audiences).Error; err != nil {
		utils.HandleError(err, ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "audiences": audiences})
}

func (h *CatalogHandler) Services(ctx iris.Context) {
	var services []models.ServiceItem
	if err := h.db.Order("id").Find(&services).Error; err != nil {
		utils.HandleError(err, ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "services": services})
}
