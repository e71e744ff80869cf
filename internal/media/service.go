package media

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/jkimanzi/dukahub-backend/pkg/config"
	"github.com/jkimanzi/dukahub-backend/pkg/enums"
	pkgerrors "github.com/jkimanzi/dukahub-backend/pkg/errors"
)

type gcsClient interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
	PublicURL(bucket, object string) string
	DeleteObject(ctx context.Context, bucket, object string) error
}

// Service hands out presigned upload URLs for storefront imagery and
// removes objects that are no longer referenced.
type Service interface {
	PresignUpload(ctx context.Context, input PresignInput) (*PresignOutput, error)
	Delete(ctx context.Context, objectKey string) error
}

// PresignInput models an upload URL request from the admin panel.
type PresignInput struct {
	Prefix    enums.MediaPrefix `json:"prefix"`
	FileName  string            `json:"file_name"`
	MimeType  string            `json:"mime_type"`
	SizeBytes int64             `json:"size_bytes"`
}

// PresignOutput carries the signed PUT URL plus the public URL the client
// stores on the owning record once the upload completes.
type PresignOutput struct {
	ObjectKey    string    `json:"object_key"`
	SignedPUTURL string    `json:"signed_put_url"`
	PublicURL    string    `json:"public_url"`
	ContentType  string    `json:"content_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Uploads are images only. Video and document uploads are not part of the
// storefront.
var allowedImageMimes = []string{"image/png", "image/jpeg", "image/webp", "image/gif"}

type service struct {
	gcs       gcsClient
	bucket    string
	uploadTTL time.Duration
	maxBytes  int64
	now       func() time.Time
}

// NewService constructs a media service over the GCS signer.
func NewService(gcs gcsClient, gcsCfg config.GCSConfig, mediaCfg config.MediaConfig) (Service, error) {
	if gcs == nil {
		return nil, fmt.Errorf("gcs client required")
	}
	if gcsCfg.BucketName == "" {
		return nil, fmt.Errorf("gcs bucket required")
	}
	if gcsCfg.UploadURLExpiry <= 0 {
		return nil, fmt.Errorf("upload url expiry must be positive")
	}
	if mediaCfg.MaxUploadMB <= 0 {
		return nil, fmt.Errorf("max upload size must be positive")
	}
	return &service{
		gcs:       gcs,
		bucket:    gcsCfg.BucketName,
		uploadTTL: gcsCfg.UploadURLExpiry,
		maxBytes:  int64(mediaCfg.MaxUploadMB) * 1024 * 1024,
		now:       time.Now,
	}, nil
}

func (s *service) PresignUpload(ctx context.Context, input PresignInput) (*PresignOutput, error) {
	if input.Prefix == "" || !input.Prefix.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid media prefix")
	}
	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file_name is required")
	}
	if input.SizeBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size_bytes must be positive")
	}
	if input.SizeBytes > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("size_bytes must be at most %d bytes", s.maxBytes))
	}
	mimeType := strings.TrimSpace(input.MimeType)
	if !isAllowedImageMime(mimeType) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mime_type must be an image type")
	}

	objectKey := buildObjectKey(input.Prefix, uuid.New(), fileName)

	signedURL, err := s.gcs.SignedURL(s.bucket, objectKey, mimeType, s.uploadTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url")
	}

	return &PresignOutput{
		ObjectKey:    objectKey,
		SignedPUTURL: signedURL,
		PublicURL:    s.gcs.PublicURL(s.bucket, objectKey),
		ContentType:  mimeType,
		ExpiresAt:    s.now().Add(s.uploadTTL),
	}, nil
}

func (s *service) Delete(ctx context.Context, objectKey string) error {
	key := strings.TrimSpace(objectKey)
	if key == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "object key required")
	}
	if !hasKnownPrefix(key) {
		return pkgerrors.New(pkgerrors.CodeValidation, "object key outside managed prefixes")
	}
	if err := s.gcs.DeleteObject(ctx, s.bucket, key); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete object")
	}
	return nil
}

func isAllowedImageMime(mimeType string) bool {
	for _, candidate := range allowedImageMimes {
		if strings.EqualFold(candidate, mimeType) {
			return true
		}
	}
	return false
}

func hasKnownPrefix(key string) bool {
	for _, prefix := range []enums.MediaPrefix{
		enums.MediaPrefixProductImages,
		enums.MediaPrefixBlogImages,
		enums.MediaPrefixTeamPhotos,
	} {
		if strings.HasPrefix(key, prefix.String()+"/") {
			return true
		}
	}
	return false
}

func buildObjectKey(prefix enums.MediaPrefix, id uuid.UUID, fileName string) string {
	cleanName := sanitizeFileName(fileName)
	if cleanName == "" {
		cleanName = id.String()
	}
	return fmt.Sprintf("%s/%s/%s", prefix, id.String(), cleanName)
}

func sanitizeFileName(name string) string {
	clean := path.Base(strings.TrimSpace(name))
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r == '/' || r == '\\' || unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-_.")
}
