package storage

import (
	"context"
	"fmt"
	"os"
)

type FactoryResult struct {
	Driver  string
	Storage Storage
	// Direct is set when the driver supports signed browser uploads.
	Direct DirectUploader

	// LocalDir and LocalURLPrefix are set for the local driver so the router
	// can serve the files.
	LocalDir       string
	LocalURLPrefix string
}

// FromEnv picks the driver from STORAGE_DRIVER. Without it, Cloudinary is
// used when its credentials are present and local disk otherwise.
func FromEnv(ctx context.Context) (FactoryResult, error) {
	cld := CloudinaryConfig{
		CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
	}

	driver := os.Getenv("STORAGE_DRIVER")
	if driver == "" {
		driver = "local"
		if cld.Enabled() {
			driver = "cloudinary"
		}
	}

	switch driver {
	case "cloudinary":
		if !cld.Enabled() {
			return FactoryResult{}, fmt.Errorf("cloudinary config missing: CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY, CLOUDINARY_API_SECRET required")
		}
		c, err := NewCloudinary(cld)
		if err != nil {
			return FactoryResult{}, err
		}
		return FactoryResult{Driver: "cloudinary", Storage: c, Direct: c}, nil

	case "local":
		baseDir := envOr("LOCAL_UPLOAD_DIR", "./storage/uploads")
		urlPrefix := envOr("LOCAL_UPLOAD_URL_PREFIX", "/uploads")
		return FactoryResult{
			Driver:         "local",
			Storage:        NewLocal(baseDir, urlPrefix),
			LocalDir:       baseDir,
			LocalURLPrefix: urlPrefix,
		}, nil

	case "s3":
		region := envOr("S3_REGION", "")
		bucket := envOr("S3_BUCKET", "")
		publicBase := envOr("S3_PUBLIC_BASE_URL", "")
		prefix := envOr("S3_PREFIX", "")
		if region == "" || bucket == "" || publicBase == "" {
			return FactoryResult{}, fmt.Errorf("S3 config missing: S3_REGION, S3_BUCKET, S3_PUBLIC_BASE_URL required")
		}
		s, err := NewS3(ctx, S3Config{
			Region:        region,
			Bucket:        bucket,
			Prefix:        prefix,
			PublicBaseURL: publicBase,
		})
		if err != nil {
			return FactoryResult{}, err
		}
		return FactoryResult{Driver: "s3", Storage: s}, nil

	default:
		return FactoryResult{}, fmt.Errorf("unknown STORAGE_DRIVER: %s", driver)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
