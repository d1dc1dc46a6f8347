// Package models defines the data types passed between the trigger adapter,
// the ingestion pipeline, and the stores.
package models

import "time"

// PhotoRecord is the metadata document linking an original image to its
// thumbnail. Exactly one live record exists per original filename; the
// ingestion pipeline replaces it wholesale on every successful run.
type PhotoRecord struct {
	// Filename is the original object key and the record's primary key.
	Filename string `json:"filename"`
	// OriginalURL locates the uploaded image.
	OriginalURL string `json:"original_url"`
	// ThumbnailURL locates the derived thumbnail.
	ThumbnailURL string `json:"thumbnail_url"`
	// Email is the uploader contact taken from the object's metadata,
	// or "unknown" when none was attached.
	Email string `json:"email"`
	// UploadedAt is the UTC time the record was written.
	UploadedAt time.Time `json:"uploaded_at"`
	// Extra carries any further uploader metadata for future consumers.
	Extra map[string]string `json:"extra,omitempty"`
}
