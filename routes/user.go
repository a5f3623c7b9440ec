package routes

import (
	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/services"
	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/utils"
	"github.com/kataras/iris/v12"
)

type UserHandler struct {
	auth *services.AuthService
}

func NewUserHandler(auth *services.AuthService) *UserHandler {
	return &UserHandler{auth: auth}
}

type RegisterInput struct {
	FullName string `json:"fullName" validate:"required,min=3,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=256"`
	Role     string `json:"role" validate:"required,oneof=tenant landlord"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *UserHandler) Register(ctx iris.Context) {
	var input RegisterInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	user, token, err := h.auth.Register(input.FullName, input.Email, input.Password, input.Role)
	if err != nil {
		utils.HandleError(err, ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "user": user, "token": token})
}

func (h *UserHandler) Login(ctx iris.Context) {
	var input LoginInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	user, token, err := h.auth.Login(input.Email, input.Password)
	if err != nil {
		utils.HandleError(err, ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "user": user, "token": token})
}

func (h *UserHandler) Profile(ctx iris.Context) {
	claims := utils.Claims(ctx)

	user, err := h.auth.Profile(claims.ID)
	if err != nil {
		utils.HandleError(err, ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "user": user})
}
