package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusSummarized DocumentStatus = "summarized"
	StatusFailed     DocumentStatus = "failed"
)

type Document struct {
	ID         string         `json:"id"`
	Filename   string         `json:"filename"`
	StorageKey string         `json:"storage_key"`
	ByteSize   int64          `json:"byte_size"`
	Status     DocumentStatus `json:"status"`
	Error      string         `json:"error,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
