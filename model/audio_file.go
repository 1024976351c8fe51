package model

import "time"

// AudioFile stores the metadata of an uploaded audio file. The bytes live in
// object storage under ObjectKey; FilePath is the public URL path clients use.
type AudioFile struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"` // MIME type, e.g. audio/mpeg
	Size       int64     `json:"size"`
	ObjectKey  string    `json:"-"`
	FilePath   string    `json:"filePath"`
	UploadedAt time.Time `json:"uploadedAt"`
	UploadedBy int64     `json:"uploadedBy"`
}
