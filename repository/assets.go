package repository

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rpupo63/portfolio-content-backend/content"
	"github.com/rpupo63/portfolio-content-backend/errs"
	"github.com/rpupo63/portfolio-content-backend/models"
	"github.com/rpupo63/portfolio-content-backend/storage"
)

// ListProjectAssets lists the asset library, optionally narrowed to one
// internal code or to one internal code and slug.
func (r *ProjectRepository) ListProjectAssets(ctx context.Context, filter content.AssetFilter) ([]content.ProjectAsset, error) {
	if r.assetStore == nil {
		return nil, r.primaryUnavailable()
	}

	prefix, err := content.ListingFolder(filter)
	if err != nil {
		return nil, err
	}

	rows, err := r.assetStore.ListAssets(ctx, prefix)
	if err != nil {
		return nil, err
	}
	out := make([]content.ProjectAsset, 0, len(rows))
	for _, row := range rows {
		out = append(out, content.AssetFromRow(row, r.assets))
	}
	return out, nil
}

// UploadProjectAsset stores a file under projects/{CODE}/{slug}/. Uploading
// to a path that already has a record returns that record.
func (r *ProjectRepository) UploadProjectAsset(ctx context.Context, up content.AssetUpload) (content.ProjectAsset, error) {
	folder, err := content.BuildFolder(up.InternalCode, up.Slug)
	if err != nil {
		return content.ProjectAsset{}, err
	}
	filename := content.SanitizeFilename(up.Filename)
	if filename == "" {
		return content.ProjectAsset{}, errs.NewInvalidFieldError("filename", "must contain letters or digits")
	}
	if up.Body == nil {
		return content.ProjectAsset{}, errs.NewMissingRequiredFieldError("file")
	}
	if r.assetStore == nil {
		return content.ProjectAsset{}, r.primaryUnavailable()
	}
	if r.objects == nil {
		return content.ProjectAsset{}, errs.NewStoreUnavailableError("object storage")
	}

	// Callers joining an in-flight upload must not inherit the leader's cancellation.
	key := folder + "/" + filename
	uploadCtx := context.WithoutCancel(ctx)
	v, err, _ := r.uploads.Do(r.objects.Bucket()+"/"+key, func() (any, error) {
		return r.upload(uploadCtx, key, up)
	})
	if err != nil {
		return content.ProjectAsset{}, err
	}
	return v.(content.ProjectAsset), nil
}

func (r *ProjectRepository) upload(ctx context.Context, key string, up content.AssetUpload) (content.ProjectAsset, error) {
	bucket := r.objects.Bucket()
	altText := strings.TrimSpace(up.AltText)

	existing, err := r.assetStore.FindAssetByPath(ctx, bucket, key)
	if err != nil {
		return content.ProjectAsset{}, err
	}
	if existing != nil {
		return r.reuse(ctx, existing, altText)
	}

	data, err := io.ReadAll(up.Body)
	if err != nil {
		return content.ProjectAsset{}, errs.NewMalformedPayloadError("file", err)
	}
	contentType := strings.TrimSpace(up.ContentType)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mimetype.Detect(data).String()
	}

	err = r.objects.Put(ctx, key, bytes.NewReader(data), contentType)
	if err != nil && !errors.Is(err, storage.ErrObjectExists) {
		return content.ProjectAsset{}, errs.NewObjectStorageError("upload", key, err)
	}

	size := int64(len(data))
	row := &models.ProjectAsset{
		Bucket:    bucket,
		Path:      key,
		Label:     optional(up.Label),
		AltText:   optional(altText),
		MimeType:  optional(contentType),
		SizeBytes: &size,
	}
	if err := r.assetStore.CreateAsset(ctx, row); err != nil {
		if !isConflict(err) {
			return content.ProjectAsset{}, err
		}
		found, ferr := r.assetStore.FindAssetByPath(ctx, bucket, key)
		if ferr != nil {
			return content.ProjectAsset{}, ferr
		}
		if found == nil {
			return content.ProjectAsset{}, err
		}
		return r.reuse(ctx, found, altText)
	}

	r.metrics.upload("created")
	return content.AssetFromRow(*row, r.assets), nil
}

// reuse returns an existing record, filling in alt text it never had.
func (r *ProjectRepository) reuse(ctx context.Context, row *models.ProjectAsset, altText string) (content.ProjectAsset, error) {
	if altText != "" && (row.AltText == nil || strings.TrimSpace(*row.AltText) == "") {
		if err := r.assetStore.SetAltText(ctx, row.ID, altText); err != nil {
			return content.ProjectAsset{}, err
		}
		row.AltText = &altText
	}
	r.metrics.upload("reused")
	return content.AssetFromRow(*row, r.assets), nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
