package routes

import (
	"time"

	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/services"
	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/utils"
	"github.com/kataras/iris/v12"
)

type ReservationHandler struct {
	svc *services.ReservationService
}

func NewReservationHandler(svc *services.ReservationService) *ReservationHandler {
	return &ReservationHandler{svc: svc}
}

type CreateReservationInput struct {
	PropertyID uint      `json:"propertyID" validate:"required"`
	CheckIn    time.Time `json:"checkIn" validate:"required"`
	CheckOut   time.Time `json:"checkOut" validate:"required"`
}

// Create answers POST /api/reservas.
func (h *ReservationHandler) Create(ctx iris.Context) {
	var input CreateReservationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	claims := utils.Claims(ctx)
	reservation, err := h.svc.Create(claims.ID, input.PropertyID, input.CheckIn, input.CheckOut)
	if err != nil {
		utils.HandleError(err, ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "reservation": reservation})
}

// MyTrips answers GET /api/reservas/mis-viajes.
func (h *ReservationHandler) MyTrips(ctx iris.Context) {
	claims := utils.Claims(ctx)

	reservations, err := h.svc.ListByTenant(claims.ID)
	if err != nil {
		utils.HandleError(err, ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "reservations": reservations})
}

// Cancel answers PATCH /api/reservas/:id/cancelar.
func (h *ReservationHandler) Cancel(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Identificador inválido", ctx)
		return
	}

	claims := utils.Claims(ctx)
	reservation, cancelErr := h.svc.Cancel(id, claims.ID)
	if cancelErr != nil {
		utils.HandleError(cancelErr, ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "reservation": reservation})
}

type DecideReservationInput struct {
	Status string `json:"status" validate:"required,oneof=confirmed rejected"`
}

// Decide answers PATCH /api/reservas/:id/estado (property owner confirms or
// rejects a pending request).
func (h *ReservationHandler) Decide(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Identificador inválido", ctx)
		return
	}

	var input DecideReservationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	claims := utils.Claims(ctx)
	reservation, decideErr := h.svc.Decide(id, claims.ID, input.Status)
	if decideErr != nil {
		utils.HandleError(decideErr, ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "reservation": reservation})
}

// OwnerList answers GET /api/reservas/propias for landlords.
func (h *ReservationHandler) OwnerList(ctx iris.Context) {
	claims := utils.Claims(ctx)

	reservations, err := h.svc.ListByOwner(claims.ID)
	if err != nil {
		utils.HandleError(err, ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "reservations": reservations})
}
