package media

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkimanzi/dukahub-backend/pkg/config"
	"github.com/jkimanzi/dukahub-backend/pkg/enums"
	pkgerrors "github.com/jkimanzi/dukahub-backend/pkg/errors"
)

type fakeGCS struct {
	signedObjects  []string
	deletedObjects []string
	signErr        error
}

func (f *fakeGCS) SignedURL(bucket, object, contentType string, expires time.Duration) (string, error) {
	if f.signErr != nil {
		return "", f.signErr
	}
	f.signedObjects = append(f.signedObjects, object)
	return "https://storage.googleapis.com/" + bucket + "/" + object + "?signed=1", nil
}

func (f *fakeGCS) PublicURL(bucket, object string) string {
	return "https://storage.googleapis.com/" + bucket + "/" + object
}

func (f *fakeGCS) DeleteObject(_ context.Context, _, object string) error {
	f.deletedObjects = append(f.deletedObjects, object)
	return nil
}

func newMediaFixture(t *testing.T) (*fakeGCS, Service) {
	t.Helper()

	gcs := &fakeGCS{}
	svc, err := NewService(
		gcs,
		config.GCSConfig{BucketName: "dukahub-media", UploadURLExpiry: 15 * time.Minute},
		config.MediaConfig{MaxUploadMB: 10},
	)
	require.NoError(t, err)
	return gcs, svc
}

func requireMediaCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()

	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, code, appErr.Code())
}

func TestPresignUploadBuildsPrefixedKey(t *testing.T) {
	gcs, svc := newMediaFixture(t)

	out, err := svc.PresignUpload(context.Background(), PresignInput{
		Prefix:    enums.MediaPrefixProductImages,
		FileName:  "Moringa Powder.png",
		MimeType:  "image/png",
		SizeBytes: 1024,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.ObjectKey, "product-images/"))
	assert.True(t, strings.HasSuffix(out.ObjectKey, "/Moringa-Powder.png"))
	assert.Contains(t, out.SignedPUTURL, "signed=1")
	assert.Equal(t, "https://storage.googleapis.com/dukahub-media/"+out.ObjectKey, out.PublicURL)
	require.Len(t, gcs.signedObjects, 1)
}

func TestPresignUploadValidation(t *testing.T) {
	_, svc := newMediaFixture(t)
	ctx := context.Background()

	valid := PresignInput{
		Prefix:    enums.MediaPrefixBlogImages,
		FileName:  "cover.jpg",
		MimeType:  "image/jpeg",
		SizeBytes: 2048,
	}

	cases := []struct {
		name   string
		mutate func(*PresignInput)
	}{
		{"unknown prefix", func(in *PresignInput) { in.Prefix = enums.MediaPrefix("invoices") }},
		{"missing file name", func(in *PresignInput) { in.FileName = "  " }},
		{"zero size", func(in *PresignInput) { in.SizeBytes = 0 }},
		{"oversize", func(in *PresignInput) { in.SizeBytes = 11 * 1024 * 1024 }},
		{"pdf rejected", func(in *PresignInput) { in.MimeType = "application/pdf" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := valid
			tc.mutate(&input)
			_, err := svc.PresignUpload(ctx, input)
			requireMediaCode(t, err, pkgerrors.CodeValidation)
		})
	}
}

func TestDeleteGuardsPrefixes(t *testing.T) {
	gcs, svc := newMediaFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, "team-photos/abc/portrait.png"))
	require.Len(t, gcs.deletedObjects, 1)

	err := svc.Delete(ctx, "../other-bucket-data/secret")
	requireMediaCode(t, err, pkgerrors.CodeValidation)
	assert.Len(t, gcs.deletedObjects, 1)
}
