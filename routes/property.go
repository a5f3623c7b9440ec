package routes

import (
	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/services"
	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/utils"
	"github.com/kataras/iris/v12"
)

type PropertyHandler struct {
	svc *services.PropertyService
}

func NewPropertyHandler(svc *services.PropertyService) *PropertyHandler {
	return &PropertyHandler{svc: svc}
}

func (h *PropertyHandler) Create(ctx iris.Context) {
	var input services.PropertyInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	claims := utils.Claims(ctx)
	property, err := h.svc.Create(claims.ID, input)
	if err != nil {
		utils.HandleError(err, ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "property": property})
}

func (h *PropertyHandler) Update(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Identificador inválido", ctx)
		return
	}

	var input services.PropertyInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	claims := utils.Claims(ctx)
	property, updateErr := h.svc.Update(id, claims.ID, input)
	if updateErr != nil {
		utils.HandleError(updateErr, ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "property": property})
}

func (h *PropertyHandler) Delete(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Identificador inválido", ctx)
		return
	}

	claims := utils.Claims(ctx)
	if err := h.svc.Delete(id, claims.ID, claims.Role); err != nil {
		utils.HandleError(err, ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "message": "Propiedad eliminada"})
}

func (h *PropertyHandler) Mine(ctx iris.Context) {
	claims := utils.Claims(ctx)

	properties, err := h.svc.ListByOwner(claims.ID)
	if err != nil {
		utils.HandleError(err, ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "properties": properties})
}
