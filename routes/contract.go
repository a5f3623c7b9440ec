package routes

import (
	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/services"
	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/utils"
	"github.com/kataras/iris/v12"
)

type ContractHandler struct {
	svc *services.ContractService
}

func NewContractHandler(svc *services.ContractService) *ContractHandler {
	return &ContractHandler{svc: svc}
}

type GenerateContractInput struct {
	ReservationID uint `json:"reservationID" validate:"required"`
}

// Generate answers POST /api/contratos/generar.
func (h *ContractHandler) Generate(ctx iris.Context) {
	var input GenerateContractInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	claims := utils.Claims(ctx)
	contract, err := h.svc.Generate(input.ReservationID, claims.ID)
	if err != nil {
		utils.HandleError(err, ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "contract": contract})
}

// Download answers GET /api/contratos/:reservaId/descargar. The client is
// redirected to the stored public document URL.
func (h *ContractHandler) Download(ctx iris.Context) {
	reservationID, err := ctx.Params().GetUint("reservaId")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Identificador inválido", ctx)
		return
	}

	claims := utils.Claims(ctx)
	contract, getErr := h.svc.GetByReservation(reservationID, claims.ID)
	if getErr != nil {
		utils.HandleError(getErr, ctx)
		return
	}

	ctx.Redirect(contract.DocumentURL, iris.StatusFound)
}
