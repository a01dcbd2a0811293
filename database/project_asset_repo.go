package database

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-content-backend/errs"
	"github.com/rpupo63/portfolio-content-backend/models"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

type ProjectAssetRepo struct {
	db *gorm.DB
}

func NewProjectAssetRepo(db *gorm.DB) *ProjectAssetRepo {
	return &ProjectAssetRepo{db}
}

// ListAssets returns the assets whose path lies under prefix, oldest first.
// An empty prefix lists everything.
func (r *ProjectAssetRepo) ListAssets(ctx context.Context, prefix string) ([]models.ProjectAsset, error) {
	var assets []models.ProjectAsset
	tx := r.db.WithContext(ctx)
	if prefix != "" {
		tx = tx.Where("path LIKE ?", escapeLike(strings.TrimSuffix(prefix, "/"))+"/%")
	}
	err := tx.Order("created_at ASC").Order("path ASC").Find(&assets).Error
	return assets, err
}

// FindAssetByPath reads from the primary so a just-inserted asset is visible.
// It returns nil when no asset has (bucket, path).
func (r *ProjectAssetRepo) FindAssetByPath(ctx context.Context, bucket, path string) (*models.ProjectAsset, error) {
	var assets []models.ProjectAsset
	err := r.db.WithContext(ctx).Clauses(dbresolver.Write).
		Where("bucket = ? AND path = ?", bucket, path).
		Limit(1).Find(&assets).Error
	if err != nil {
		return nil, err
	}
	if len(assets) == 0 {
		return nil, nil
	}
	return &assets[0], nil
}

// CreateAsset inserts asset and fills in its generated id and timestamp.
func (r *ProjectAssetRepo) CreateAsset(ctx context.Context, asset *models.ProjectAsset) error {
	if asset.ID == uuid.Nil {
		asset.ID = uuid.New()
	}
	err := r.db.WithContext(ctx).Create(asset).Error
	if IsUniqueViolation(err) {
		return errs.NewAlreadyExists("project asset")
	}
	return err
}

// SetAltText updates the alt text of an existing asset.
func (r *ProjectAssetRepo) SetAltText(ctx context.Context, id uuid.UUID, altText string) error {
	return r.db.WithContext(ctx).Model(&models.ProjectAsset{}).Where("id = ?", id).Update("alt_text", altText).Error
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
