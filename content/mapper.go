package content

import (
	"sort"
	"strings"

	"github.com/rpupo63/portfolio-content-backend/models"
)

// MapRows converts primary store rows into normalized projects. Relations are
// left as raw ids in RelatedIDs; run ResolveRelations over the batch next.
func MapRows(rows []models.Project, assets AssetResolver) []Project {
	out := make([]Project, 0, len(rows))
	for i, row := range rows {
		out = append(out, MapRow(row, i+1, assets))
	}
	return out
}

// MapRow maps one row. A row without an internal code gets one generated from
// its creation rank, or from position (1-based) when the rank is unknown.
func MapRow(row models.Project, position int, assets AssetResolver) Project {
	isActive := true
	if row.IsActive != nil {
		isActive = *row.IsActive
	}

	internalID := strings.TrimSpace(deref(row.InternalCode))
	if internalID == "" {
		if row.CreationRank > 0 {
			position = row.CreationRank
		}
		internalID = InternalCodeFor(position)
	}

	tags := make([]string, 0, len(row.Tags))
	for _, t := range row.Tags {
		tags = append(tags, t.Tag)
	}

	p := Project{
		ID:               row.ID.String(),
		Slug:             row.Slug,
		Name:             row.Name,
		ShortDescription: deref(row.ShortDescription),
		Client:           deref(row.Client),
		Category:         deref(row.Category),
		Year:             row.Year,
		Description:      mapDescriptions(row.Descriptions),
		Gallery:          mapGallery(row.GalleryItems, row.Name, assets),
		RelatedSlugs:     []string{},
		Metadata: Metadata{
			InternalID:     internalID,
			Status:         ParseStatus(row.Status),
			Priority:       ParsePriority(deref(row.Priority)),
			ProjectManager: strings.TrimSpace(deref(row.ProjectManager)),
			Tags:           NormalizeTags(tags),
			IsActive:       isActive,
		},
		IsActive: isActive,
	}

	if row.HeroAsset != nil {
		p.HeroImage = withAlt(assets.ToImage(AssetFromRow(*row.HeroAsset, assets), ""), row.Name)
	}
	p.HeroImage = heroOrFirst(p.HeroImage, p.Gallery, row.Name)

	for _, rel := range row.Relations {
		p.RelatedIDs = append(p.RelatedIDs, rel.RelatedProjectID.String())
	}
	return p
}

// AssetFromRow converts an asset row and resolves its public URL.
func AssetFromRow(row models.ProjectAsset, assets AssetResolver) ProjectAsset {
	return assets.WithPublicURL(ProjectAsset{
		ID:        row.ID.String(),
		Bucket:    row.Bucket,
		Path:      row.Path,
		Label:     deref(row.Label),
		AltText:   deref(row.AltText),
		MimeType:  deref(row.MimeType),
		SizeBytes: row.SizeBytes,
		CreatedAt: row.CreatedAt,
	})
}

func mapDescriptions(rows []models.ProjectDescription) []string {
	sorted := append([]models.ProjectDescription(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].OrderIndex < sorted[j].OrderIndex })
	blocks := make([]string, 0, len(sorted))
	for _, d := range sorted {
		blocks = append(blocks, d.Paragraph)
	}
	return NormalizeBlocks(blocks)
}

// mapGallery drops items whose asset did not join; a broken reference is a
// data-quality issue, not a caller-facing failure.
func mapGallery(items []models.ProjectGalleryItem, projectName string, assets AssetResolver) []ProjectImage {
	sorted := append([]models.ProjectGalleryItem(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].OrderIndex < sorted[j].OrderIndex })

	gallery := make([]ProjectImage, 0, len(sorted))
	for _, item := range sorted {
		if item.Asset == nil {
			continue
		}
		img := assets.ToImage(AssetFromRow(*item.Asset, assets), deref(item.Caption))
		img.OrderIndex = item.OrderIndex
		gallery = append(gallery, withAlt(img, projectName))
	}
	return gallery
}

// heroOrFirst applies the hero invariant: explicit hero, else first gallery
// image, else an empty-src placeholder.
func heroOrFirst(hero ProjectImage, gallery []ProjectImage, name string) ProjectImage {
	if hero.Src != "" {
		return hero
	}
	if len(gallery) > 0 {
		return gallery[0]
	}
	return ProjectImage{Src: "", Alt: name}
}

func withAlt(img ProjectImage, fallback string) ProjectImage {
	if img.Alt == "" {
		img.Alt = fallback
	}
	return img
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
