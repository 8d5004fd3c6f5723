package uploads

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/skairipa08/FundEd/internal/modules/users"
	"github.com/skairipa08/FundEd/internal/shared/apperr"
	"github.com/skairipa08/FundEd/internal/shared/ids"
	"github.com/skairipa08/FundEd/internal/shared/slug"
	"github.com/skairipa08/FundEd/internal/storage"
)

const (
	MaxImageBytes    = 10 << 20
	MaxDocumentBytes = 20 << 20
	rootFolder       = "funded"
)

var (
	imageTypes    = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	documentTypes = []string{"image/jpeg", "image/png", "application/pdf"}
)

var (
	ErrNotConfigured       = apperr.UnavailableErr("File uploads not configured. Set CLOUDINARY_* environment variables.")
	ErrInvalidImageType    = apperr.InvalidErr("Invalid file type. Allowed: "+strings.Join(imageTypes, ", "), map[string]string{"file": "Unsupported image type."})
	ErrInvalidDocumentType = apperr.InvalidErr("Invalid file type. Allowed: images and PDFs", map[string]string{"file": "Unsupported document type."})
	ErrImageTooLarge       = apperr.InvalidErr("File too large. Maximum size is 10MB", map[string]string{"file": "Too large."})
	ErrDocumentTooLarge    = apperr.InvalidErr("File too large. Maximum size is 20MB", map[string]string{"file": "Too large."})
	ErrDocTypeRequired     = apperr.InvalidErr("doc_type is required", map[string]string{"doc_type": "This field is required."})
	ErrNotOwner            = apperr.ForbiddenErr("Cannot delete files belonging to other users")
	ErrInvalidPublicID     = apperr.InvalidErr("Invalid public id", nil)
)

type Service struct {
	store  storage.Storage
	direct storage.DirectUploader // nil unless the media host signs browser uploads
	logger *slog.Logger
	now    func() time.Time
}

func NewService(store storage.Storage, direct storage.DirectUploader, logger *slog.Logger) *Service {
	return &Service{store: store, direct: direct, logger: logger, now: time.Now}
}

// DirectConfig signs a browser upload into the user's own folder.
func (s *Service) DirectConfig(actor users.User) (storage.DirectUpload, error) {
	if s.direct == nil {
		return storage.DirectUpload{}, ErrNotConfigured
	}
	return s.direct.SignUpload(rootFolder+"/"+actor.ID, s.now())
}

type Uploaded struct {
	URL              string
	PublicID         string
	ContentType      string
	Size             int64
	DocType          string
	OriginalFilename string
}

func (s *Service) UploadImage(ctx context.Context, actor users.User, r io.Reader, filename, folder string) (Uploaded, error) {
	data, mime, err := readChecked(r, MaxImageBytes, imageTypes, ErrImageTooLarge, ErrInvalidImageType)
	if err != nil {
		return Uploaded{}, err
	}
	publicID := fmt.Sprintf("%s/%s/%s_%s", rootFolder, slug.Segment(folder, "general"), actor.ID, ids.Hex(8))
	return s.put(ctx, data, mime, filename, publicID, "", "Failed to upload image")
}

func (s *Service) UploadDocument(ctx context.Context, actor users.User, r io.Reader, filename, docType string) (Uploaded, error) {
	docType = strings.TrimSpace(docType)
	if docType == "" {
		return Uploaded{}, ErrDocTypeRequired
	}
	data, mime, err := readChecked(r, MaxDocumentBytes, documentTypes, ErrDocumentTooLarge, ErrInvalidDocumentType)
	if err != nil {
		return Uploaded{}, err
	}
	publicID := fmt.Sprintf("%s/documents/%s_%s_%s", rootFolder, actor.ID, slug.Segment(docType, "document"), ids.Hex(8))
	return s.put(ctx, data, mime, filename, publicID, docType, "Failed to upload document")
}

func (s *Service) put(ctx context.Context, data []byte, mime, filename, publicID, docType, failMsg string) (Uploaded, error) {
	res, err := s.store.Put(ctx, bytes.NewReader(data), storage.PutInput{
		PublicID:    publicID,
		Filename:    filename,
		ContentType: mime,
		Size:        int64(len(data)),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "upload failed", "public_id", publicID, "err", err)
		return Uploaded{}, apperr.UpstreamErr(failMsg, err)
	}
	s.logger.InfoContext(ctx, "file uploaded", "public_id", res.PublicID, "bytes", len(data), "content_type", mime)
	return Uploaded{
		URL:              res.URL,
		PublicID:         res.PublicID,
		ContentType:      mime,
		Size:             int64(len(data)),
		DocType:          docType,
		OriginalFilename: filename,
	}, nil
}

// Delete removes an upload. Users may delete ids carrying their user id;
// admins may delete anything.
func (s *Service) Delete(ctx context.Context, actor users.User, publicID string) error {
	id, err := storage.CleanPublicID(publicID)
	if err != nil {
		return ErrInvalidPublicID
	}
	if !strings.Contains(id, actor.ID) && !actor.IsAdmin() {
		return ErrNotOwner
	}
	if err := s.store.Delete(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "delete upload failed", "public_id", id, "err", err)
		return apperr.UpstreamErr("Failed to delete file", err)
	}
	return nil
}

// readChecked reads at most max bytes and sniffs the content type from the
// bytes themselves rather than the client's header.
func readChecked(r io.Reader, max int64, allowed []string, tooLarge, badType error) ([]byte, string, error) {
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, "", err
	}
	if int64(len(data)) > max {
		return nil, "", tooLarge
	}
	m := mimetype.Detect(data)
	for _, t := range allowed {
		if m.Is(t) {
			return data, t, nil
		}
	}
	return nil, "", badType
}
