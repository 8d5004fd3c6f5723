package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

func (c CloudinaryConfig) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// Cloudinary stores uploads on the Cloudinary media host.
type Cloudinary struct {
	cld *cloudinary.Cloudinary
	cfg CloudinaryConfig
}

func NewCloudinary(cfg CloudinaryConfig) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, err
	}
	return &Cloudinary{cld: cld, cfg: cfg}, nil
}

func (c *Cloudinary) Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error) {
	id, err := CleanPublicID(in.PublicID)
	if err != nil {
		return PutResult{}, err
	}
	res, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID:     id,
		ResourceType: "auto",
	})
	if err != nil {
		return PutResult{}, err
	}
	if res.Error.Message != "" {
		return PutResult{}, fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	return PutResult{PublicID: res.PublicID, URL: res.SecureURL}, nil
}

func (c *Cloudinary) Delete(ctx context.Context, publicID string) error {
	id, err := CleanPublicID(publicID)
	if err != nil {
		return err
	}
	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: id})
	if err != nil {
		return err
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy: %s", res.Error.Message)
	}
	if res.Result != "ok" && res.Result != "not found" {
		return errors.New("cloudinary destroy: " + res.Result)
	}
	return nil
}

func (c *Cloudinary) String() string { return fmt.Sprintf("cloudinary(%s)", c.cfg.CloudName) }

// DirectUpload holds the parameters a browser needs to upload straight to
// the media host.
type DirectUpload struct {
	CloudName string
	APIKey    string
	Timestamp int64
	Folder    string
	Signature string
	UploadURL string
}

type DirectUploader interface {
	SignUpload(folder string, now time.Time) (DirectUpload, error)
}

// SignUpload signs folder and timestamp with the API secret; the browser
// posts both alongside the file.
func (c *Cloudinary) SignUpload(folder string, now time.Time) (DirectUpload, error) {
	ts := now.Unix()
	sig, err := api.SignParameters(url.Values{
		"folder":    {folder},
		"timestamp": {strconv.FormatInt(ts, 10)},
	}, c.cfg.APISecret)
	if err != nil {
		return DirectUpload{}, fmt.Errorf("cloudinary sign: %w", err)
	}
	return DirectUpload{
		CloudName: c.cfg.CloudName,
		APIKey:    c.cfg.APIKey,
		Timestamp: ts,
		Folder:    folder,
		Signature: sig,
		UploadURL: "https://api.cloudinary.com/v1_1/" + c.cfg.CloudName + "/auto/upload",
	}, nil
}
