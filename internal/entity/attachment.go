package entity

import (
	"time"

	"github.com/google/uuid"
)

// File metadata only; byte storage is out of scope. Attachments are linked
// to a specific opportunity version and relinked on every edit.
type FileRecord struct {
	Id          uuid.UUID
	CreatedAt   time.Time
	Name        string
	ContentType string
	SizeBytes   int64
}

type CreateFileInput struct {
	Name        string
	ContentType string
	SizeBytes   int64
}

type FileOutputModel struct {
	Id          string `json:"id"`
	CreatedAt   string `json:"createdAt"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
}
