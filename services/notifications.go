package services

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// IncidentNotifier is what the incident service needs for its side effects.
// Failures never propagate to the request that triggered them.
type IncidentNotifier interface {
	IncidentCreated(incidentID uint)
	IncidentStatusChanged(incidentID uint, oldStatus, newStatus, note string)
}

// EmailNotifier implements IncidentNotifier over SMTP and records every
// attempt in the notification log.
type EmailNotifier struct {
	db     *gorm.DB
	mailer *Mailer
}

func NewEmailNotifier(db *gorm.DB, mailer *Mailer) *EmailNotifier {
	return &EmailNotifier{db: db, mailer: mailer}
}

// IncidentCreated emails the property owner about a fresh report.
func (n *EmailNotifier) IncidentCreated(incidentID uint) {
	var incident models.Incident
	err := n.db.Preload("Property.Owner").Preload("Reporter").First(&incident, incidentID).Error
	if err != nil {
		log.Printf("notify incident created: incident %d not found: %v", incidentID, err)
		return
	}
	if incident.Property == nil || incident.Property.Owner == nil {
		log.Printf("notify incident created: incident %d has no owner loaded", incidentID)
		return
	}

	owner := incident.Property.Owner
	subject := fmt.Sprintf("Nueva incidencia reportada - %s", incident.Title)
	body := incidentCreatedEmail(&incident)

	n.deliver(owner.ID, "incident_created", owner.Email, subject, body, incident.ID)
}

// IncidentStatusChanged emails the reporter about a transition.
func (n *EmailNotifier) IncidentStatusChanged(incidentID uint, oldStatus, newStatus, note string) {
	var incident models.Incident
	err := n.db.Preload("Reporter").First(&incident, incidentID).Error
	if err != nil {
		log.Printf("notify status changed: incident %d not found: %v", incidentID, err)
		return
	}
	if incident.Reporter == nil {
		log.Printf("notify status changed: incident %d has no reporter loaded", incidentID)
		return
	}

	subject := fmt.Sprintf("Actualización de incidencia #%d - %s", incident.ID, incident.Title)
	body := statusChangedEmail(&incident, oldStatus, newStatus, note)

	n.deliver(incident.ReporterID, "status_changed", incident.Reporter.Email, subject, body, incident.ID)
}

func (n *EmailNotifier) deliver(userID uint, kind, to, subject, body string, incidentID uint) {
	entry := models.NotificationLog{
		UserID:  userID,
		Type:    kind,
		To:      to,
		Subject: subject,
	}
	payload, _ := json.Marshal(map[string]interface{}{"incidentID": incidentID})
	entry.Payload = datatypes.JSON(payload)

	if err := n.mailer.Send(to, subject, body); err != nil {
		entry.Error = err.Error()
		log.Printf("failed to send %s notification to %s: %v", kind, to, err)
	} else {
		entry.Sent = true
	}

	if err := n.db.Create(&entry).Error; err != nil {
		log.Printf("failed to record notification log: %v", err)
	}
}

func incidentCreatedEmail(incident *models.Incident) string {
	reporter := ""
	if incident.Reporter != nil {
		reporter = incident.Reporter.FullName
	}
	propertyTitle := ""
	if incident.Property != nil {
		propertyTitle = incident.Property.Title
	}
	return fmt.Sprintf(`<h2>Nueva incidencia en %s</h2>
<p><strong>%s</strong></p>
<p>%s</p>
<p>Prioridad: %s</p>
<p>Reportada por: %s</p>`,
		propertyTitle, incident.Title, incident.Description, incident.Priority, reporter)
}

func statusChangedEmail(incident *models.Incident, oldStatus, newStatus, note string) string {
	body := fmt.Sprintf(`<h2>Tu incidencia "%s" cambió de estado</h2>
<p>Estado anterior: <strong>%s</strong></p>
<p>Estado nuevo: <strong>%s</strong></p>`, incident.Title, oldStatus, newStatus)
	if note != "" {
		body += fmt.Sprintf("<p>Detalle: %s</p>", note)
	}
	return body
}
