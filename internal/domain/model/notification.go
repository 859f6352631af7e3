package model

import "time"

type NotificationStatus string

const (
	NotificationUploaded NotificationStatus = "UPLOADED"
	NotificationDeleted  NotificationStatus = "DELETED"
	NotificationReady    NotificationStatus = "READY"
	NotificationFailed   NotificationStatus = "FAILED"
)

// Notification is an ephemeral lifecycle event. It is never persisted.
type Notification struct {
	ObjectID  string             `json:"objectId"`
	Status    NotificationStatus `json:"status"`
	Title     string             `json:"title,omitempty"`
	BlobURL   string             `json:"blobUrl,omitempty"`
	Error     string             `json:"error,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

func NewNotification(objectID string, status NotificationStatus) Notification {
	return Notification{
		ObjectID:  objectID,
		Status:    status,
		Timestamp: time.Now().UTC(),
	}
}
