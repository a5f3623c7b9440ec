package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/models"
	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/utils"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// incidentTransitions is the status machine; a status may only move to one
// of its listed successors.
var incidentTransitions = map[string][]string{
	models.IncidentPending:    {models.IncidentInProgress, models.IncidentResolved},
	models.IncidentInProgress: {models.IncidentResolved},
	models.IncidentResolved:   {models.IncidentClosed},
	models.IncidentClosed:     {},
}

type IncidentService struct {
	db       *gorm.DB
	store    Uploader
	notifier IncidentNotifier
}

func NewIncidentService(db *gorm.DB, store Uploader, notifier IncidentNotifier) *IncidentService {
	return &IncidentService{db: db, store: store, notifier: notifier}
}

type CreateIncidentInput struct {
	Title       string
	Description string
	Priority    string
	Category    string
	PropertyID  uint
}

// AttachmentUpload is a file received with the report.
type AttachmentUpload struct {
	Name     string
	MimeType string
	Size     int64
	Data     []byte
}

type IncidentFilters struct {
	Status     string
	PropertyID uint
	Limit      int
	Offset     int
}

// Create registers a maintenance report. The reporter must hold a confirmed
// reservation covering "now" on the property. Attachment upload failures are
// logged and skipped, never fatal.
func (s *IncidentService) Create(reporterID uint, input CreateIncidentInput, files []AttachmentUpload) (*models.Incident, error) {
	var property models.Property
	if err := s.db.First(&property, input.PropertyID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFound("Propiedad no encontrada")
		}
		return nil, err
	}

	if err := s.validateTenantAccess(reporterID, input.PropertyID); err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	incident := models.Incident{
		Title:       input.Title,
		Description: input.Description,
		Status:      models.IncidentPending,
		Priority:    priority,
		Category:    input.Category,
		PropertyID:  input.PropertyID,
		ReporterID:  reporterID,
	}
	if err := s.db.Create(&incident).Error; err != nil {
		return nil, err
	}

	for _, file := range files {
		filename := fmt.Sprintf("incidencia-%d-%s-%s", incident.ID, uuid.NewString(), file.Name)
		url, err := s.store.Upload(file.Data, filename, file.MimeType)
		if err != nil {
			log.Printf("error uploading attachment %s: %v", file.Name, err)
			continue
		}
		attachment := models.IncidentAttachment{
			IncidentID: incident.ID,
			UserID:     reporterID,
			FileName:   file.Name,
			URL:        url,
			MimeType:   file.MimeType,
			SizeBytes:  file.Size,
		}
		if err := s.db.Create(&attachment).Error; err != nil {
			log.Printf("error linking attachment %s: %v", file.Name, err)
		}
	}

	historyNote := "Incidencia reportada"
	if len(files) > 0 {
		historyNote = fmt.Sprintf("Incidencia reportada con %d archivo(s) adjunto(s)", len(files))
	}
	s.appendHistory(incident.ID, reporterID, "created", "", models.IncidentPending, historyNote)

	if s.notifier != nil {
		go s.notifier.IncidentCreated(incident.ID)
	}

	if err := s.db.Preload("Attachments").Preload("Property").First(&incident, incident.ID).Error; err != nil {
		return nil, err
	}
	return &incident, nil
}

// UpdateStatus advances the status machine. Resolving requires a description
// of the fix; every transition appends a history entry.
func (s *IncidentService) UpdateStatus(id, actorID uint, actorRole, newStatus, description string) (*models.Incident, error) {
	var incident models.Incident
	if err := s.db.Preload("Property").First(&incident, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFound("Incidencia no encontrada")
		}
		return nil, err
	}

	if err := s.validateOwnership(&incident, actorID, actorRole); err != nil {
		return nil, err
	}

	allowed, ok := incidentTransitions[incident.Status]
	if !ok || !slices.Contains(allowed, newStatus) {
		return nil, utils.NewBadRequest(fmt.Sprintf("Transición de estado inválida: %s a %s", incident.Status, newStatus))
	}

	if newStatus == models.IncidentResolved && description == "" {
		return nil, utils.NewBadRequest("Se requiere una descripción del arreglo realizado para marcar como resuelto")
	}

	oldStatus := incident.Status
	incident.Status = newStatus
	if newStatus == models.IncidentResolved {
		now := time.Now()
		incident.ResolvedAt = &now
	}
	if err := s.db.Save(&incident).Error; err != nil {
		return nil, err
	}

	note := description
	if note == "" {
		note = fmt.Sprintf("Estado cambiado de %s a %s", oldStatus, newStatus)
	}
	s.appendHistory(incident.ID, actorID, "status_changed", oldStatus, newStatus, note)

	if s.notifier != nil {
		go s.notifier.IncidentStatusChanged(incident.ID, oldStatus, newStatus, description)
	}

	return &incident, nil
}

type UpdateIncidentInput struct {
	Title       string
	Description string
	Priority    string
	Category    string
	AssigneeID  *uint
}

// Update edits the mutable fields and logs the change.
func (s *IncidentService) Update(id, actorID uint, actorRole string, input UpdateIncidentInput) (*models.Incident, error) {
	var incident models.Incident
	if err := s.db.Preload("Property").First(&incident, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFound("Incidencia no encontrada")
		}
		return nil, err
	}

	if err := s.validateOwnership(&incident, actorID, actorRole); err != nil {
		return nil, err
	}

	if input.Title != "" {
		incident.Title = input.Title
	}
	if input.Description != "" {
		incident.Description = input.Description
	}
	if input.Priority != "" {
		incident.Priority = input.Priority
	}
	if input.Category != "" {
		incident.Category = input.Category
	}
	if input.AssigneeID != nil {
		incident.AssigneeID = input.AssigneeID
	}

	if err := s.db.Save(&incident).Error; err != nil {
		return nil, err
	}

	s.appendHistory(incident.ID, actorID, "updated", "", "", "Incidencia actualizada")
	return &incident, nil
}

// List returns incidents visible to the actor: tenants see their own
// reports, landlords see reports on owned properties, admins see all.
func (s *IncidentService) List(actorID uint, actorRole string, filters IncidentFilters) ([]models.Incident, int64, error) {
	query := s.db.Model(&models.Incident{})

	switch actorRole {
	case models.RoleTenant:
		query = query.Where("reporter_id = ?", actorID)
	case models.RoleLandlord:
		query = query.Joins("JOIN properties p ON p.id = incidents.property_id").
			Where("p.owner_id = ?", actorID)
	}

	if filters.Status != "" {
		query = query.Where("incidents.status = ?", filters.Status)
	}
	if filters.PropertyID != 0 {
		query = query.Where("incidents.property_id = ?", filters.PropertyID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 10
	}

	var incidents []models.Incident
	err := query.
		Preload("Property").
		Preload("Reporter").
		Order("incidents.created_at DESC").
		Limit(limit).
		Offset(filters.Offset).
		Find(&incidents).Error
	if err != nil {
		return nil, 0, err
	}
	return incidents, total, nil
}

// Get returns the full detail including history and attachments.
func (s *IncidentService) Get(id, actorID uint, actorRole string) (*models.Incident, error) {
	var incident models.Incident
	err := s.db.
		Preload("Property").
		Preload("Reporter").
		Preload("Assignee").
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("History.Actor").
		Preload("Attachments").
		First(&incident, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFound("Incidencia no encontrada")
		}
		return nil, err
	}

	if err := s.validateOwnership(&incident, actorID, actorRole); err != nil {
		return nil, err
	}
	return &incident, nil
}

// Delete removes an incident; admins or the property owner only.
func (s *IncidentService) Delete(id, actorID uint, actorRole string) error {
	var incident models.Incident
	if err := s.db.Preload("Property").First(&incident, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.NewNotFound("Incidencia no encontrada")
		}
		return err
	}

	if actorRole != models.RoleAdmin && (incident.Property == nil || incident.Property.OwnerID != actorID) {
		return utils.NewForbidden("No tienes permiso para eliminar esta incidencia")
	}

	return s.db.Delete(&incident).Error
}

// AddComment appends to the incident's conversation thread. Internal
// comments are a landlord/admin channel the tenant never sees.
func (s *IncidentService) AddComment(incidentID, actorID uint, actorRole, content string, internal bool) (*models.IncidentComment, error) {
	var incident models.Incident
	if err := s.db.Preload("Property").First(&incident, incidentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFound("Incidencia no encontrada")
		}
		return nil, err
	}

	if err := s.validateOwnership(&incident, actorID, actorRole); err != nil {
		return nil, err
	}

	if internal && actorRole == models.RoleTenant {
		return nil, utils.NewForbidden("No tienes permiso para crear comentarios internos")
	}

	comment := models.IncidentComment{
		IncidentID: incidentID,
		UserID:     actorID,
		Content:    content,
		Internal:   internal,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}

	note := "Comentario agregado"
	if internal {
		note = "Comentario interno agregado"
	}
	s.appendHistory(incidentID, actorID, "comment_added", "", "", note)

	if err := s.db.Preload("User").First(&comment, comment.ID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListComments returns the thread newest first. Tenants only see public
// comments.
func (s *IncidentService) ListComments(incidentID, actorID uint, actorRole string) ([]models.IncidentComment, error) {
	var incident models.Incident
	if err := s.db.Preload("Property").First(&incident, incidentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFound("Incidencia no encontrada")
		}
		return nil, err
	}

	if err := s.validateOwnership(&incident, actorID, actorRole); err != nil {
		return nil, err
	}

	query := s.db.Where("incident_id = ?", incidentID)
	if actorRole == models.RoleTenant {
		query = query.Where("internal = ?", false)
	}

	var comments []models.IncidentComment
	if err := query.Preload("User").Order("created_at DESC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// UpdateComment edits a comment's text. Author only.
func (s *IncidentService) UpdateComment(commentID, actorID uint, content string) (*models.IncidentComment, error) {
	var comment models.IncidentComment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFound("Comentario no encontrado")
		}
		return nil, err
	}

	if comment.UserID != actorID {
		return nil, utils.NewForbidden("Solo el autor puede editar este comentario")
	}

	comment.Content = content
	if err := s.db.Save(&comment).Error; err != nil {
		return nil, err
	}

	if err := s.db.Preload("User").First(&comment, comment.ID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// AddAttachment uploads one more file to an existing report. Unlike the
// batch at creation time, a failed upload here is an error the caller sees.
func (s *IncidentService) AddAttachment(incidentID, actorID uint, actorRole string, file AttachmentUpload) (*models.IncidentAttachment, error) {
	var incident models.Incident
	if err := s.db.Preload("Property").First(&incident, incidentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFound("Incidencia no encontrada")
		}
		return nil, err
	}

	if err := s.validateOwnership(&incident, actorID, actorRole); err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("incidencia-%d-%s-%s", incidentID, uuid.NewString(), file.Name)
	url, err := s.store.Upload(file.Data, filename, file.MimeType)
	if err != nil {
		return nil, fmt.Errorf("error uploading attachment: %w", err)
	}

	attachment := models.IncidentAttachment{
		IncidentID: incidentID,
		UserID:     actorID,
		FileName:   file.Name,
		URL:        url,
		MimeType:   file.MimeType,
		SizeBytes:  file.Size,
	}
	if err := s.db.Create(&attachment).Error; err != nil {
		return nil, err
	}

	s.appendHistory(incidentID, actorID, "attachment_added", "", "", fmt.Sprintf("Archivo adjunto: %s", file.Name))
	return &attachment, nil
}

// ListAttachments returns the report's files, newest first.
func (s *IncidentService) ListAttachments(incidentID, actorID uint, actorRole string) ([]models.IncidentAttachment, error) {
	var incident models.Incident
	if err := s.db.Preload("Property").First(&incident, incidentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFound("Incidencia no encontrada")
		}
		return nil, err
	}

	if err := s.validateOwnership(&incident, actorID, actorRole); err != nil {
		return nil, err
	}

	var attachments []models.IncidentAttachment
	err := s.db.Where("incident_id = ?", incidentID).Order("created_at DESC").Find(&attachments).Error
	if err != nil {
		return nil, err
	}
	return attachments, nil
}

// Remover is implemented by stores that can also delete objects.
type Remover interface {
	Delete(filename string) error
}

// DeleteAttachment removes a file: the uploader, the property owner or an
// admin. Storage deletion is best effort; the row always goes.
func (s *IncidentService) DeleteAttachment(attachmentID, actorID uint, actorRole string) error {
	var attachment models.IncidentAttachment
	if err := s.db.First(&attachment, attachmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.NewNotFound("Adjunto no encontrado")
		}
		return err
	}

	var incident models.Incident
	if err := s.db.Preload("Property").First(&incident, attachment.IncidentID).Error; err != nil {
		return err
	}

	canDelete := actorRole == models.RoleAdmin ||
		attachment.UserID == actorID ||
		(incident.Property != nil && incident.Property.OwnerID == actorID)
	if !canDelete {
		return utils.NewForbidden("No tienes permiso para eliminar este adjunto")
	}

	if remover, ok := s.store.(Remover); ok {
		parts := strings.Split(attachment.URL, "/")
		if err := remover.Delete(parts[len(parts)-1]); err != nil {
			log.Printf("error deleting attachment from storage: %v", err)
		}
	}

	if err := s.db.Delete(&attachment).Error; err != nil {
		return err
	}

	s.appendHistory(attachment.IncidentID, actorID, "attachment_removed", "", "", fmt.Sprintf("Archivo eliminado: %s", attachment.FileName))
	return nil
}

// validateTenantAccess requires an active tenancy covering now. Executed
// leases carry the completed status, so both count.
func (s *IncidentService) validateTenantAccess(reporterID, propertyID uint) error {
	var count int64
	err := s.db.Model(&models.Reservation{}).
		Where("tenant_id = ? AND property_id = ?", reporterID, propertyID).
		Where("status IN ?", []string{models.ReservationConfirmed, models.ReservationCompleted}).
		Where("check_out >= ?", time.Now()).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return utils.NewForbidden("Solo puedes reportar incidencias en propiedades que actualmente ocupas")
	}
	return nil
}

func (s *IncidentService) validateOwnership(incident *models.Incident, actorID uint, actorRole string) error {
	switch actorRole {
	case models.RoleAdmin:
		return nil
	case models.RoleTenant:
		if incident.ReporterID != actorID {
			return utils.NewForbidden("No tienes permiso para acceder a esta incidencia")
		}
	case models.RoleLandlord:
		if incident.Property == nil || incident.Property.OwnerID != actorID {
			return utils.NewForbidden("No tienes permiso para acceder a esta incidencia")
		}
	default:
		return utils.NewForbidden("No tienes permiso para acceder a esta incidencia")
	}
	return nil
}

func (s *IncidentService) appendHistory(incidentID, actorID uint, action, oldStatus, newStatus, description string) {
	entry := models.IncidentHistory{
		IncidentID:  incidentID,
		ActorID:     actorID,
		Action:      action,
		OldStatus:   oldStatus,
		NewStatus:   newStatus,
		Description: description,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		log.Printf("error appending incident history: %v", err)
	}
}
