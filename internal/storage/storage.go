package storage

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var ErrInvalidPublicID = errors.New("storage: invalid public id")

// PutInput describes an object to store. PublicID is the slash-separated
// location without extension, e.g. "funded/user_ab12/cover_1a2b3c4d".
type PutInput struct {
	PublicID    string
	Filename    string
	ContentType string
	Size        int64
}

type PutResult struct {
	PublicID string
	URL      string
}

type Storage interface {
	Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error)
	Delete(ctx context.Context, publicID string) error
}

// CleanPublicID rejects ids that could escape the storage root.
func CleanPublicID(id string) (string, error) {
	id = strings.Trim(id, "/")
	if id == "" {
		return "", ErrInvalidPublicID
	}
	for _, seg := range strings.Split(id, "/") {
		if seg == "" || seg == "." || seg == ".." || strings.ContainsAny(seg, `\`) {
			return "", ErrInvalidPublicID
		}
	}
	return id, nil
}

// extensionFor maps a sniffed content type to its file extension, or "".
func extensionFor(contentType string) string {
	if contentType == "" {
		return ""
	}
	if m := mimetype.Lookup(contentType); m != nil {
		return m.Extension()
	}
	return ""
}

// sameObject reports whether name is base stored with or without an
// extension.
func sameObject(name, base string) bool {
	if name == base {
		return true
	}
	rest, ok := strings.CutPrefix(name, base+".")
	return ok && rest != "" && !strings.ContainsAny(rest, "./")
}
