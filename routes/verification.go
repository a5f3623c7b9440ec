package routes

import (
	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/services"
	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/utils"
	"github.com/kataras/iris/v12"
)

type VerificationHandler struct {
	svc *services.VerificationService
}

func NewVerificationHandler(svc *services.VerificationService) *VerificationHandler {
	return &VerificationHandler{svc: svc}
}

func (h *VerificationHandler) Request(ctx iris.Context) {
	var input services.VerificationRequestInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	claims := utils.Claims(ctx)
	profile, err := h.svc.Request(claims.ID, input)
	if err != nil {
		utils.HandleError(err, ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "verification": profile})
}

func (h *VerificationHandler) Status(ctx iris.Context) {
	claims := utils.Claims(ctx)

	profile, err := h.svc.Status(claims.ID)
	if err != nil {
		utils.HandleError(err, ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "verification": profile})
}

func (h *VerificationHandler) ListPending(ctx iris.Context) {
	profiles, err := h.svc.ListPending()
	if err != nil {
		utils.HandleError(err, ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "verifications": profiles})
}

type ReviewInput struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes"`
}

func (h *VerificationHandler) Review(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Identificador inválido", ctx)
		return
	}

	var input ReviewInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	profile, reviewErr := h.svc.Review(id, input.Approve, input.Notes)
	if reviewErr != nil {
		utils.HandleError(reviewErr, ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "verification": profile})
}
