package routes

import (
	"io"
	"strconv"

	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/services"
	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/utils"
	"github.com/kataras/iris/v12"
)

const maxIncidentFiles = 5

type IncidentHandler struct {
	svc *services.IncidentService
}

func NewIncidentHandler(svc *services.IncidentService) *IncidentHandler {
	return &IncidentHandler{svc: svc}
}

// Create answers POST /api/incidents (multipart, up to 5 files under the
// "files" field).
func (h *IncidentHandler) Create(ctx iris.Context) {
	if err := ctx.Request().ParseMultipartForm(32 << 20); err != nil {
		utils.CreateError(iris.StatusBadRequest, "Se esperaba una petición multipart", ctx)
		return
	}

	input := services.CreateIncidentInput{
		Title:       ctx.FormValue("title"),
		Description: ctx.FormValue("description"),
		Priority:    ctx.FormValue("priority"),
		Category:    ctx.FormValue("category"),
	}
	propertyID, err := strconv.ParseUint(ctx.FormValue("propertyID"), 10, 32)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "propertyID inválido", ctx)
		return
	}
	input.PropertyID = uint(propertyID)

	if input.Title == "" || input.Description == "" {
		utils.CreateError(iris.StatusBadRequest, "title y description son obligatorios", ctx)
		return
	}

	var files []services.AttachmentUpload
	if form := ctx.Request().MultipartForm; form != nil {
		headers := form.File["files"]
		if len(headers) > maxIncidentFiles {
			utils.CreateError(iris.StatusBadRequest, "Máximo 5 archivos adjuntos", ctx)
			return
		}
		for _, header := range headers {
			file, err := header.Open()
			if err != nil {
				continue
			}
			data, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				continue
			}
			files = append(files, services.AttachmentUpload{
				Name:     header.Filename,
				MimeType: header.Header.Get("Content-Type"),
				Size:     header.Size,
				Data:     data,
			})
		}
	}

	claims := utils.Claims(ctx)
	incident, createErr := h.svc.Create(claims.ID, input, files)
	if createErr != nil {
		utils.HandleError(createErr, ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "incident": incident})
}

// List answers GET /api/incidents with role-scoped visibility.
func (h *IncidentHandler) List(ctx iris.Context) {
	claims := utils.Claims(ctx)

	filters := services.IncidentFilters{
		Status:     ctx.URLParam("status"),
		PropertyID: uint(ctx.URLParamIntDefault("propertyID", 0)),
		Limit:      ctx.URLParamIntDefault("limit", 10),
		Offset:     ctx.URLParamIntDefault("offset", 0),
	}

	incidents, total, err := h.svc.List(claims.ID, claims.Role, filters)
	if err != nil {
		utils.HandleError(err, ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "incidents": incidents, "total": total})
}

// Get answers GET /api/incidents/:id.
func (h *IncidentHandler) Get(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Identificador inválido", ctx)
		return
	}

	claims := utils.Claims(ctx)
	incident, getErr := h.svc.Get(id, claims.ID, claims.Role)
	if getErr != nil {
		utils.HandleError(getErr, ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "incident": incident})
}

type UpdateStatusInput struct {
	Status      string `json:"status" validate:"required,oneof=pending in_progress resolved closed"`
	Description string `json:"description"`
}

// UpdateStatus answers PATCH /api/incidents/:id/status.
func (h *IncidentHandler) UpdateStatus(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Identificador inválido", ctx)
		return
	}

	var input UpdateStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	claims := utils.Claims(ctx)
	incident, updateErr := h.svc.UpdateStatus(id, claims.ID, claims.Role, input.Status, input.Description)
	if updateErr != nil {
		utils.HandleError(updateErr, ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "incident": incident})
}

type UpdateIncidentBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Category    string `json:"category"`
	AssigneeID  *uint  `json:"assigneeID"`
}

// Update answers PATCH /api/incidents/:id.
func (h *IncidentHandler) Update(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Identificador inválido", ctx)
		return
	}

	var body UpdateIncidentBody
	if err := ctx.ReadJSON(&body); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	claims := utils.Claims(ctx)
	incident, updateErr := h.svc.Update(id, claims.ID, claims.Role, services.UpdateIncidentInput{
		Title:       body.Title,
		Description: body.Description,
		Priority:    body.Priority,
		Category:    body.Category,
		AssigneeID:  body.AssigneeID,
	})
	if updateErr != nil {
		utils.HandleError(updateErr, ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "incident": incident})
}

type AddCommentInput struct {
	Content  string `json:"content" validate:"required,min=1,max=2000"`
	Internal bool   `json:"internal"`
}

// AddComment answers POST /api/incidents/:id/comentarios.
func (h *IncidentHandler) AddComment(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Identificador inválido", ctx)
		return
	}

	var input AddCommentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	claims := utils.Claims(ctx)
	comment, addErr := h.svc.AddComment(id, claims.ID, claims.Role, input.Content, input.Internal)
	if addErr != nil {
		utils.HandleError(addErr, ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "comment": comment})
}

// ListComments answers GET /api/incidents/:id/comentarios.
func (h *IncidentHandler) ListComments(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Identificador inválido", ctx)
		return
	}

	claims := utils.Claims(ctx)
	comments, listErr := h.svc.ListComments(id, claims.ID, claims.Role)
	if listErr != nil {
		utils.HandleError(listErr, ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "comments": comments})
}

type UpdateCommentInput struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

// UpdateComment answers PATCH /api/incidents/:id/comentarios/:commentId.
func (h *IncidentHandler) UpdateComment(ctx iris.Context) {
	commentID, err := ctx.Params().GetUint("commentId")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Identificador inválido", ctx)
		return
	}

	var input UpdateCommentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	claims := utils.Claims(ctx)
	comment, updateErr := h.svc.UpdateComment(commentID, claims.ID, input.Content)
	if updateErr != nil {
		utils.HandleError(updateErr, ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "comment": comment})
}

// AddAttachment answers POST /api/incidents/:id/adjuntos (multipart, one
// file under the "file" field).
func (h *IncidentHandler) AddAttachment(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Identificador inválido", ctx)
		return
	}

	_, header, err := ctx.FormFile("file")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Se esperaba un archivo en el campo file", ctx)
		return
	}

	file, err := header.Open()
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "No se pudo leer el archivo", ctx)
		return
	}
	data, err := io.ReadAll(file)
	file.Close()
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "No se pudo leer el archivo", ctx)
		return
	}

	claims := utils.Claims(ctx)
	attachment, addErr := h.svc.AddAttachment(id, claims.ID, claims.Role, services.AttachmentUpload{
		Name:     header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Size:     header.Size,
		Data:     data,
	})
	if addErr != nil {
		utils.HandleError(addErr, ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "attachment": attachment})
}

// ListAttachments answers GET /api/incidents/:id/adjuntos.
func (h *IncidentHandler) ListAttachments(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Identificador inválido", ctx)
		return
	}

	claims := utils.Claims(ctx)
	attachments, listErr := h.svc.ListAttachments(id, claims.ID, claims.Role)
	if listErr != nil {
		utils.HandleError(listErr, ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "attachments": attachments})
}

// DeleteAttachment answers DELETE /api/incidents/:id/adjuntos/:adjuntoId.
func (h *IncidentHandler) DeleteAttachment(ctx iris.Context) {
	attachmentID, err := ctx.Params().GetUint("adjuntoId")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Identificador inválido", ctx)
		return
	}

	claims := utils.Claims(ctx)
	if err := h.svc.DeleteAttachment(attachmentID, claims.ID, claims.Role); err != nil {
		utils.HandleError(err, ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "message": "Adjunto eliminado"})
}

// Delete answers DELETE /api/incidents/:id.
func (h *IncidentHandler) Delete(ctx iris.Context) {
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

	ctx.JSON(iris.Map{"success": true, "message": "Incidencia eliminada"})
}
