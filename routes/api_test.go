package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/models"
	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/services"
	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/storage"
	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/utils"
	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubStore struct{}

func (stubStore) Upload(data []byte, filename, contentType string) (string, error) {
	return "https://cdn.test/" + filename, nil
}

// buildTestApp wires the full router against an in-memory database, the way
// main does against Postgres.
func buildTestApp(t *testing.T) (*iris.Application, *gorm.DB) {
	t.Helper()
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, storage.Migrate(db))

	authSvc := services.NewAuthService(db)
	verificationSvc := services.NewVerificationService(db)
	propertySvc := services.NewPropertyService(db)
	searchSvc := services.NewSearchService(db, nil)
	reservationSvc := services.NewReservationService(db)
	contractSvc := services.NewContractService(db, stubStore{})
	incidentSvc := services.NewIncidentService(db, stubStore{}, nil)

	userHandler := NewUserHandler(authSvc)
	verificationHandler := NewVerificationHandler(verificationSvc)
	propertyHandler := NewPropertyHandler(propertySvc)
	searchHandler := NewSearchHandler(searchSvc)
	reservationHandler := NewReservationHandler(reservationSvc)
	contractHandler := NewContractHandler(contractSvc)
	incidentHandler := NewIncidentHandler(incidentSvc)

	app := iris.New()
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	auth := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	api := app.Party("/api")
	api.Post("/auth/registro", userHandler.Register)
	api.Post("/auth/login", userHandler.Login)
	api.Get("/perfil", auth, userHandler.Profile)

	verification := api.Party("/verificacion", auth)
	verification.Post("/", verificationHandler.Request)
	verification.Get("/", verificationHandler.Status)

	admin := api.Party("/admin", auth, utils.RequirePermission(utils.ActionVerificationReview))
	admin.Get("/verificaciones", verificationHandler.ListPending)
	admin.Patch("/verificaciones/{id:uint}", verificationHandler.Review)

	registration := api.Party("/propiedades/registro", auth, utils.RequirePermission(utils.ActionPropertyPublish))
	registration.Post("/", propertyHandler.Create)

	api.Get("/filtros", searchHandler.Filter)

	reservations := api.Party("/reservas", auth)
	reservations.Post("/", utils.RequirePermission(utils.ActionReservationCreate), reservationHandler.Create)
	reservations.Get("/mis-viajes", reservationHandler.MyTrips)
	reservations.Patch("/{id:uint}/cancelar", reservationHandler.Cancel)
	reservations.Patch("/{id:uint}/estado", utils.RequirePermission(utils.ActionReservationDecide), reservationHandler.Decide)

	contracts := api.Party("/contratos", auth)
	contracts.Post("/generar", utils.RequirePermission(utils.ActionContractGenerate), contractHandler.Generate)
	contracts.Get("/{reservaId:uint}/descargar", contractHandler.Download)

	incidents := api.Party("/incidents", auth)
	incidents.Post("/", utils.RequirePermission(utils.ActionIncidentReport), incidentHandler.Create)
	incidents.Get("/", incidentHandler.List)
	incidents.Delete("/{id:uint}", utils.RequirePermission(utils.ActionIncidentManage), incidentHandler.Delete)
	incidents.Post("/{id:uint}/comentarios", incidentHandler.AddComment)
	incidents.Get("/{id:uint}/comentarios", incidentHandler.ListComments)

	require.NoError(t, app.Build())

	return app, db
}

func doJSON(app *iris.Application, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func decode(t *testing.T, resp *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v (status %d)", err, resp.Code)
	}
}

// adminToken inserts an admin directly; admins are never self-registered.
func adminToken(t *testing.T, db *gorm.DB) string {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	admin := models.User{FullName: "Admin", Email: "admin@test.com", Password: string(hash), Role: models.RoleAdmin}
	require.NoError(t, db.Create(&admin).Error)
	token, err := utils.CreateAccessToken(admin.ID, admin.Email, admin.Role)
	require.NoError(t, err)
	return token
}

func TestLeaseLifecycle(t *testing.T) {
	app, db := buildTestApp(t)

	// landlord registers and requests verification
	var landlordReg struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	resp := doJSON(app, http.MethodPost, "/api/auth/registro", "", iris.Map{
		"fullName": "Carlos Mendoza", "email": "carlos@test.com",
		"password": "secreto123", "role": "landlord",
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	decode(t, resp, &landlordReg)

	resp = doJSON(app, http.MethodPost, "/api/verificacion", landlordReg.Token, iris.Map{
		"nationalID": "1310000001", "phone": "0990000000", "bio": "Propietario",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	// unverified landlords cannot publish yet
	propertyBody := iris.Map{
		"title": "Departamento frente al parque", "description": "Dos habitaciones con balcón",
		"monthlyPrice": 300, "address": "Av. Manabí", "statusID": 1,
	}
	resp = doJSON(app, http.MethodPost, "/api/propiedades/registro", landlordReg.Token, propertyBody)
	require.Equal(t, http.StatusForbidden, resp.Code)

	// admin approves
	admin := adminToken(t, db)
	var pending struct {
		Verifications []models.VerifiedProfile `json:"verifications"`
	}
	resp = doJSON(app, http.MethodGet, "/api/admin/verificaciones", admin, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	decode(t, resp, &pending)
	require.Len(t, pending.Verifications, 1)

	resp = doJSON(app, http.MethodPatch,
		fmt.Sprintf("/api/admin/verificaciones/%d", pending.Verifications[0].ID), admin,
		iris.Map{"approve": true, "notes": "ok"})
	require.Equal(t, http.StatusOK, resp.Code)

	// publish
	var created struct {
		Property models.Property `json:"property"`
	}
	resp = doJSON(app, http.MethodPost, "/api/propiedades/registro", landlordReg.Token, propertyBody)
	require.Equal(t, http.StatusCreated, resp.Code)
	decode(t, resp, &created)

	// the property appears in the public availability search
	resp = doJSON(app, http.MethodGet, "/api/filtros?estado=disponible", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var search struct {
		Properties []models.Property `json:"properties"`
	}
	decode(t, resp, &search)
	require.Len(t, search.Properties, 1)

	// tenant registers and reserves
	var tenantReg struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	resp = doJSON(app, http.MethodPost, "/api/auth/registro", "", iris.Map{
		"fullName": "Ana Zambrano", "email": "ana@test.com",
		"password": "secreto123", "role": "tenant",
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	decode(t, resp, &tenantReg)

	checkIn := time.Now().AddDate(0, 1, 0).UTC().Truncate(24 * time.Hour)
	checkOut := checkIn.AddDate(0, 6, 0)
	var reserved struct {
		Reservation models.Reservation `json:"reservation"`
	}
	resp = doJSON(app, http.MethodPost, "/api/reservas", tenantReg.Token, iris.Map{
		"propertyID": created.Property.ID, "checkIn": checkIn, "checkOut": checkOut,
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	decode(t, resp, &reserved)
	assert.Equal(t, models.ReservationPending, reserved.Reservation.Status)

	// an overlapping request is rejected
	resp = doJSON(app, http.MethodPost, "/api/reservas", tenantReg.Token, iris.Map{
		"propertyID": created.Property.ID,
		"checkIn":    checkIn.AddDate(0, 2, 0), "checkOut": checkOut.AddDate(0, 2, 0),
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)

	// tenants cannot decide reservations
	decidePath := fmt.Sprintf("/api/reservas/%d/estado", reserved.Reservation.ID)
	resp = doJSON(app, http.MethodPatch, decidePath, tenantReg.Token, iris.Map{"status": "confirmed"})
	require.Equal(t, http.StatusForbidden, resp.Code)

	resp = doJSON(app, http.MethodPatch, decidePath, landlordReg.Token, iris.Map{"status": "confirmed"})
	require.Equal(t, http.StatusOK, resp.Code)

	// contract: landlords cannot generate, the tenant can
	genBody := iris.Map{"reservationID": reserved.Reservation.ID}
	resp = doJSON(app, http.MethodPost, "/api/contratos/generar", landlordReg.Token, genBody)
	require.Equal(t, http.StatusForbidden, resp.Code)

	resp = doJSON(app, http.MethodPost, "/api/contratos/generar", tenantReg.Token, genBody)
	require.Equal(t, http.StatusCreated, resp.Code)

	// once the lease is executed the reservation can no longer be cancelled
	resp = doJSON(app, http.MethodPatch,
		fmt.Sprintf("/api/reservas/%d/cancelar", reserved.Reservation.ID), tenantReg.Token, nil)
	require.Equal(t, http.StatusBadRequest, resp.Code)

	// download redirects to the stored document
	resp = doJSON(app, http.MethodGet,
		fmt.Sprintf("/api/contratos/%d/descargar", reserved.Reservation.ID), tenantReg.Token, nil)
	require.Equal(t, http.StatusFound, resp.Code)
	assert.Contains(t, resp.Header().Get("Location"), "https://cdn.test/contrato-")

	// the tenancy is active, so the tenant may report an incident
	resp = doJSON(app, http.MethodGet, "/api/reservas/mis-viajes", tenantReg.Token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
}

func TestCapabilityGates(t *testing.T) {
	app, _ := buildTestApp(t)

	var tenantReg struct {
		Token string `json:"token"`
	}
	resp := doJSON(app, http.MethodPost, "/api/auth/registro", "", iris.Map{
		"fullName": "Pedro Loor", "email": "pedro@test.com",
		"password": "secreto123", "role": "tenant",
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	decode(t, resp, &tenantReg)

	// the admin party is closed to roles without the review capability
	resp = doJSON(app, http.MethodGet, "/api/admin/verificaciones", tenantReg.Token, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	// tenants cannot delete incidents, the gate rejects before any lookup
	resp = doJSON(app, http.MethodDelete, "/api/incidents/1", tenantReg.Token, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	// tenants cannot publish properties
	resp = doJSON(app, http.MethodPost, "/api/propiedades/registro", tenantReg.Token, iris.Map{
		"title": "Intento de publicación", "description": "No debería pasar el filtro",
		"monthlyPrice": 100, "address": "x", "statusID": 1,
	})
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestAuthRejectsBadTokens(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := doJSON(app, http.MethodGet, "/api/perfil", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = doJSON(app, http.MethodGet, "/api/perfil", "no-es-un-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRegisterValidation(t *testing.T) {
	app, _ := buildTestApp(t)

	// short password and bad email
	resp := doJSON(app, http.MethodPost, "/api/auth/registro", "", iris.Map{
		"fullName": "X", "email": "no-es-correo", "password": "corta", "role": "tenant",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// nobody registers as admin
	resp = doJSON(app, http.MethodPost, "/api/auth/registro", "", iris.Map{
		"fullName": "Aspirante", "email": "a@test.com", "password": "secreto123", "role": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
