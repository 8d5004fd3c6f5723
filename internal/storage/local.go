package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local keeps uploads on disk under BaseDir; the router serves them below
// URLPrefix. Files carry the extension of their content type so the static
// handler answers with the right Content-Type.
type Local struct {
	BaseDir   string
	URLPrefix string
}

func NewLocal(baseDir, urlPrefix string) *Local {
	return &Local{BaseDir: baseDir, URLPrefix: strings.TrimRight(urlPrefix, "/")}
}

func (l *Local) Put(_ context.Context, r io.Reader, in PutInput) (PutResult, error) {
	id, err := CleanPublicID(in.PublicID)
	if err != nil {
		return PutResult{}, err
	}
	name := id + extensionFor(in.ContentType)
	dst := filepath.Join(l.BaseDir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return PutResult{}, err
	}

	// write to a sibling temp file so readers never see a partial upload
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return PutResult{}, err
	}
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return PutResult{}, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return PutResult{}, err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return PutResult{}, err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return PutResult{}, err
	}
	return PutResult{PublicID: id, URL: l.URLPrefix + "/" + name}, nil
}

// Delete removes the object whatever extension it was stored with. Missing
// objects are not an error.
func (l *Local) Delete(_ context.Context, publicID string) error {
	id, err := CleanPublicID(publicID)
	if err != nil {
		return err
	}
	p := filepath.Join(l.BaseDir, filepath.FromSlash(id))
	entries, err := os.ReadDir(filepath.Dir(p))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	base := filepath.Base(p)
	for _, e := range entries {
		if e.IsDir() || !sameObject(e.Name(), base) {
			continue
		}
		if err := os.Remove(filepath.Join(filepath.Dir(p), e.Name())); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func (l *Local) String() string { return fmt.Sprintf("local(%s)", l.BaseDir) }
