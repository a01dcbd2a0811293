package content

import (
	"net/url"
	"path"
	"strings"

	"github.com/rpupo63/portfolio-content-backend/errs"
)

// AssetFolderRoot is the first segment of every project asset path.
const AssetFolderRoot = "projects"

// AssetResolver turns storage coordinates into public URLs.
type AssetResolver struct {
	baseURL string
}

// NewAssetResolver builds a resolver for objects served under publicBaseURL,
// e.g. "https://cdn.example.com/storage/v1/object/public".
func NewAssetResolver(publicBaseURL string) AssetResolver {
	return AssetResolver{baseURL: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/")}
}

// ResolveURL never fails. Absolute URLs pass through untouched and an
// unconfigured resolver yields "".
func (r AssetResolver) ResolveURL(bucket, objectPath string) string {
	objectPath = strings.TrimSpace(objectPath)
	if objectPath == "" {
		return ""
	}
	if strings.HasPrefix(objectPath, "http://") || strings.HasPrefix(objectPath, "https://") {
		return objectPath
	}
	if r.baseURL == "" {
		return ""
	}

	var b strings.Builder
	b.WriteString(r.baseURL)
	if bucket = strings.Trim(bucket, "/"); bucket != "" {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(bucket))
	}
	for _, seg := range strings.Split(strings.Trim(objectPath, "/"), "/") {
		if seg == "" {
			continue
		}
		b.WriteByte('/')
		b.WriteString(url.PathEscape(seg))
	}
	return b.String()
}

// WithPublicURL fills in asset.PublicURL from its bucket and path.
func (r AssetResolver) WithPublicURL(asset ProjectAsset) ProjectAsset {
	asset.PublicURL = r.ResolveURL(asset.Bucket, asset.Path)
	return asset
}

// ToImage assembles an image record for asset, copying its storage metadata.
func (r AssetResolver) ToImage(asset ProjectAsset, caption string) ProjectImage {
	src := asset.PublicURL
	if src == "" {
		src = r.ResolveURL(asset.Bucket, asset.Path)
	}
	alt := asset.AltText
	if alt == "" {
		alt = asset.Label
	}
	img := ProjectImage{
		Src:     src,
		Alt:     alt,
		Caption: strings.TrimSpace(caption),
		AssetID: asset.ID,
	}
	if asset.Bucket != "" || asset.Path != "" {
		img.Storage = &StorageDescriptor{
			Bucket:    asset.Bucket,
			Path:      asset.Path,
			Label:     asset.Label,
			MimeType:  asset.MimeType,
			SizeBytes: asset.SizeBytes,
		}
	}
	return img
}

// BuildFolder returns "projects/{CODE}/{slug}" for an upload.
func BuildFolder(internalCode, slug string) (string, error) {
	code := NormalizeInternalCode(internalCode)
	if code == "" {
		return "", errs.NewInvalidFolderInputError("internalCode", internalCode)
	}
	s := Slugify(slug)
	if s == "" {
		return "", errs.NewInvalidFolderInputError("slug", slug)
	}
	return AssetFolderRoot + "/" + code + "/" + s, nil
}

// ListingFolder returns the folder an asset listing is scoped to. An empty
// filter lists the whole library and an internal code alone lists every
// slug folder of that project.
func ListingFolder(filter AssetFilter) (string, error) {
	hasCode := strings.TrimSpace(filter.InternalCode) != ""
	hasSlug := strings.TrimSpace(filter.Slug) != ""
	switch {
	case !hasCode && !hasSlug:
		return AssetFolderRoot, nil
	case hasSlug:
		return BuildFolder(filter.InternalCode, filter.Slug)
	}
	code := NormalizeInternalCode(filter.InternalCode)
	if code == "" {
		return "", errs.NewInvalidFolderInputError("internalCode", filter.InternalCode)
	}
	return AssetFolderRoot + "/" + code, nil
}

// SanitizeFilename keeps the base name of filename as a slug plus its
// lowercased extension. It returns "" when nothing usable is left.
func SanitizeFilename(filename string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), `\`, "/"))
	if base == "." || base == "/" {
		return ""
	}
	ext := strings.ToLower(path.Ext(base))
	stem := Slugify(strings.TrimSuffix(base, path.Ext(base)))
	if ext != "" {
		ext = "." + Slugify(ext[1:])
		if ext == "." {
			ext = ""
		}
	}
	if stem == "" {
		return ""
	}
	return stem + ext
}
