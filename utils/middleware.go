package utils

import (
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// Claims returns the verified access token claims for the request.
func Claims(ctx iris.Context) *AccessToken {
	return jwt.Get(ctx).(*AccessToken)
}

// RequirePermission gates a route on the capability table.
func RequirePermission(action Action) iris.Handler {
	return func(ctx iris.Context) {
		claims := Claims(ctx)
		if !Can(claims.Role, action) {
			CreateError(iris.StatusForbidden, "No tienes permiso para realizar esta acción", ctx)
			return
		}
		ctx.Next()
	}
}
