package models

import (
	"time"

	"gorm.io/gorm"
)

// Incident status machine: pending -> in_progress -> resolved -> closed.
const (
	IncidentPending    = "pending"
	IncidentInProgress = "in_progress"
	IncidentResolved   = "resolved"
	IncidentClosed     = "closed"
)

// Incident priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

type Incident struct {
	gorm.Model
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description" gorm:"type:text;not null"`
	Status      string     `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	Priority    string     `json:"priority" gorm:"type:varchar(10);default:'medium'"`
	Category    string     `json:"category"`
	PropertyID  uint       `json:"propertyID" gorm:"not null;index"`
	ReporterID  uint       `json:"reporterID" gorm:"not null;index"`
	AssigneeID  *uint      `json:"assigneeID"`
	ResolvedAt  *time.Time `json:"resolvedAt"`

	Property    *Property            `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	Reporter    *User                `json:"reporter,omitempty" gorm:"foreignKey:ReporterID"`
	Assignee    *User                `json:"assignee,omitempty" gorm:"foreignKey:AssigneeID"`
	History     []IncidentHistory    `json:"history,omitempty" gorm:"foreignKey:IncidentID"`
	Attachments []IncidentAttachment `json:"attachments,omitempty" gorm:"foreignKey:IncidentID"`
	Comments    []IncidentComment    `json:"comments,omitempty" gorm:"foreignKey:IncidentID"`
}

// IncidentHistory is an append-only audit trail; rows are never updated.
type IncidentHistory struct {
	gorm.Model
	IncidentID  uint   `json:"incidentID" gorm:"not null;index"`
	ActorID     uint   `json:"actorID" gorm:"not null"`
	Action      string `json:"action" gorm:"not null"`
	OldStatus   string `json:"oldStatus"`
	NewStatus   string `json:"newStatus"`
	Description string `json:"description" gorm:"type:text"`

	Actor *User `json:"actor,omitempty" gorm:"foreignKey:ActorID"`
}

// IncidentComment is the conversation thread on a report. Internal comments
// are visible to the landlord and admins only, never to the tenant.
type IncidentComment struct {
	gorm.Model
	IncidentID uint   `json:"incidentID" gorm:"not null;index"`
	UserID     uint   `json:"userID" gorm:"not null"`
	Content    string `json:"content" gorm:"type:text;not null"`
	Internal   bool   `json:"internal" gorm:"default:false"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

type IncidentAttachment struct {
	gorm.Model
	IncidentID uint   `json:"incidentID" gorm:"not null;index"`
	UserID     uint   `json:"userID" gorm:"not null"`
	FileName   string `json:"fileName"`
	URL        string `json:"url" gorm:"not null"`
	MimeType   string `json:"mimeType"`
	SizeBytes  int64  `json:"sizeBytes"`
}
