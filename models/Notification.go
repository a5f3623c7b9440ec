package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationLog records every outbound email attempt. Sending is
// best-effort; the log is the only durable trace when delivery fails.
type NotificationLog struct {
	gorm.Model
	UserID  uint           `json:"userID" gorm:"index"`
	Type    string         `json:"type" gorm:"type:varchar(40)"`
	To      string         `json:"to"`
	Subject string         `json:"subject"`
	Payload datatypes.JSON `json:"payload"`
	Sent    bool           `json:"sent" gorm:"default:false"`
	Error   string         `json:"error"`
}
