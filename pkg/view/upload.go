package view

import (
	"github.com/skairipa08/FundEd/internal/modules/uploads"
	"github.com/skairipa08/FundEd/internal/storage"
)

type Upload struct {
	URL              string `json:"url"`
	PublicID         string `json:"public_id"`
	ContentType      string `json:"content_type"`
	Size             int64  `json:"size"`
	DocType          string `json:"doc_type,omitempty"`
	OriginalFilename string `json:"original_filename,omitempty"`
}

func NewUpload(u uploads.Uploaded) Upload {
	return Upload{
		URL:              u.URL,
		PublicID:         u.PublicID,
		ContentType:      u.ContentType,
		Size:             u.Size,
		DocType:          u.DocType,
		OriginalFilename: u.OriginalFilename,
	}
}

type DirectUpload struct {
	CloudName string `json:"cloud_name"`
	APIKey    string `json:"api_key"`
	Timestamp int64  `json:"timestamp"`
	Folder    string `json:"folder"`
	Signature string `json:"signature"`
	UploadURL string `json:"upload_url"`
}

func NewDirectUpload(d storage.DirectUpload) DirectUpload {
	return DirectUpload{
		CloudName: d.CloudName,
		APIKey:    d.APIKey,
		Timestamp: d.Timestamp,
		Folder:    d.Folder,
		Signature: d.Signature,
		UploadURL: d.UploadURL,
	}
}
