package main

import (
	"log"
	"os"

	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/routes"
	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/services"
	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/storage"
	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/utils"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()

	db, err := storage.Open()
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	cache := storage.NewRedis()
	store := storage.NewObjectStoreFromEnv()
	mailer := services.NewMailerFromEnv()
	notifier := services.NewEmailNotifier(db, mailer)

	authSvc := services.NewAuthService(db)
	verificationSvc := services.NewVerificationService(db)
	propertySvc := services.NewPropertyService(db)
	searchSvc := services.NewSearchService(db, cache)
	reservationSvc := services.NewReservationService(db)
	contractSvc := services.NewContractService(db, store)
	incidentSvc := services.NewIncidentService(db, store, notifier)

	userHandler := routes.NewUserHandler(authSvc)
	verificationHandler := routes.NewVerificationHandler(verificationSvc)
	propertyHandler := routes.NewPropertyHandler(propertySvc)
	catalogHandler := routes.NewCatalogHandler(db)
	searchHandler := routes.NewSearchHandler(searchSvc)
	reservationHandler := routes.NewReservationHandler(reservationSvc)
	contractHandler := routes.NewContractHandler(contractSvc)
	incidentHandler := routes.NewIncidentHandler(incidentSvc)

	app := iris.New()
	app.Validator = validator.New()

	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	auth := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{
			"status": "OK",
			"modules": iris.Map{
				"registro":       "active",
				"inquilinos":     "active",
				"disponibilidad": "active",
				"reportes":       "active",
			},
		})
	})

	api := app.Party("/api")

	authParty := api.Party("/auth")
	{
		authParty.Post("/registro", userHandler.Register)
		authParty.Post("/login", userHandler.Login)
	}

	profile := api.Party("/perfil", auth)
	{
		profile.Get("/", userHandler.Profile)
	}

	verification := api.Party("/verificacion", auth)
	{
		verification.Post("/", verificationHandler.Request)
		verification.Get("/", verificationHandler.Status)
	}

	admin := api.Party("/admin", auth, utils.RequirePermission(utils.ActionVerificationReview))
	{
		admin.Get("/verificaciones", verificationHandler.ListPending)
		admin.Patch("/verificaciones/{id:uint}", verificationHandler.Review)
	}

	catalogs := api.Party("/catalogos")
	{
		catalogs.Get("/estados", catalogHandler.PropertyStatuses)
		catalogs.Get("/publicos", catalogHandler.TargetAudiences)
		catalogs.Get("/servicios", catalogHandler.Services)
	}

	registration := api.Party("/propiedades/registro", auth, utils.RequirePermission(utils.ActionPropertyPublish))
	{
		registration.Post("/", propertyHandler.Create)
		registration.Get("/mias", propertyHandler.Mine)
		registration.Put("/{id:uint}", propertyHandler.Update)
		registration.Delete("/{id:uint}", propertyHandler.Delete)
	}

	api.Get("/propiedades", searchHandler.Filter)
	api.Get("/filtros", searchHandler.Filter)

	reservations := api.Party("/reservas", auth)
	{
		reservations.Post("/", utils.RequirePermission(utils.ActionReservationCreate), reservationHandler.Create)
		reservations.Get("/mis-viajes", reservationHandler.MyTrips)
		reservations.Get("/propias", utils.RequirePermission(utils.ActionReservationDecide), reservationHandler.OwnerList)
		reservations.Patch("/{id:uint}/cancelar", reservationHandler.Cancel)
		reservations.Patch("/{id:uint}/estado", utils.RequirePermission(utils.ActionReservationDecide), reservationHandler.Decide)
	}

	contracts := api.Party("/contratos", auth)
	{
		contracts.Post("/generar", utils.RequirePermission(utils.ActionContractGenerate), contractHandler.Generate)
		contracts.Get("/{reservaId:uint}/descargar", contractHandler.Download)
	}

	incidents := api.Party("/incidents", auth)
	{
		incidents.Post("/", utils.RequirePermission(utils.ActionIncidentReport), incidentHandler.Create)
		incidents.Get("/", incidentHandler.List)
		incidents.Get("/{id:uint}", incidentHandler.Get)
		incidents.Patch("/{id:uint}/status", incidentHandler.UpdateStatus)
		incidents.Patch("/{id:uint}", incidentHandler.Update)
		incidents.Delete("/{id:uint}", utils.RequirePermission(utils.ActionIncidentManage), incidentHandler.Delete)

		incidents.Post("/{id:uint}/comentarios", incidentHandler.AddComment)
		incidents.Get("/{id:uint}/comentarios", incidentHandler.ListComments)
		incidents.Patch("/{id:uint}/comentarios/{commentId:uint}", incidentHandler.UpdateComment)

		incidents.Post("/{id:uint}/adjuntos", incidentHandler.AddAttachment)
		incidents.Get("/{id:uint}/adjuntos", incidentHandler.ListAttachments)
		incidents.Delete("/{id:uint}/adjuntos/{adjuntoId:uint}", incidentHandler.DeleteAttachment)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8001"
	}

	app.Listen(":" + port)
}
