package content

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

//go:embed data/projects.json
var bundled embed.FS

// DatasetSource returns the raw fallback document.
type DatasetSource func() ([]byte, error)

// EmbeddedDataset reads the dataset bundled into the binary.
func EmbeddedDataset() DatasetSource {
	return func() ([]byte, error) {
		return bundled.ReadFile("data/projects.json")
	}
}

// FileDataset reads the dataset from path on first use.
func FileDataset(path string) DatasetSource {
	return func() ([]byte, error) {
		return os.ReadFile(path)
	}
}

// BytesDataset serves a fixed document.
func BytesDataset(data []byte) DatasetSource {
	return func() ([]byte, error) {
		return data, nil
	}
}

// FallbackLoader parses the static dataset once and caches the result, error
// included, for the lifetime of the loader.
type FallbackLoader struct {
	source DatasetSource
	assets AssetResolver

	once     sync.Once
	projects []Project
	err      error
}

func NewFallbackLoader(source DatasetSource, assets AssetResolver) *FallbackLoader {
	return &FallbackLoader{source: source, assets: assets}
}

// Load returns the dataset projects in document order.
func (l *FallbackLoader) Load() ([]Project, error) {
	l.once.Do(func() {
		data, err := l.source()
		if err != nil {
			l.err = fmt.Errorf("read fallback dataset: %w", err)
			return
		}
		l.projects, l.err = ParseDataset(data, l.assets)
	})
	if l.err != nil {
		return nil, l.err
	}
	return cloneProjects(l.projects), nil
}

// recordKind tags the historical shapes a dataset entry can take.
type recordKind int

const (
	recordNested recordKind = iota
	recordFlat
)

// rawRecord is one dataset entry before validation.
type rawRecord struct {
	kind   recordKind
	fields map[string]any
}

func classifyRecord(fields map[string]any) rawRecord {
	for k := range fields {
		if strings.Contains(k, ".") {
			return rawRecord{kind: recordFlat, fields: fields}
		}
	}
	return rawRecord{kind: recordNested, fields: fields}
}

// nested returns the entry in its nested form whatever its original shape.
func (r rawRecord) nested() map[string]any {
	if r.kind == recordFlat {
		return expandDottedKeys(r.fields)
	}
	return r.fields
}

// rawProject is the typed view of a nested entry. Legacy spellings (title,
// summary, top-level tags/status/isActive) are accepted alongside the
// current ones.
type rawProject struct {
	ID               flexString  `json:"id"`
	Slug             flexString  `json:"slug"`
	Name             flexString  `json:"name"`
	Title            flexString  `json:"title"`
	ShortDescription flexString  `json:"shortDescription"`
	Summary          flexString  `json:"summary"`
	Client           flexString  `json:"client"`
	Category         flexString  `json:"category"`
	Year             flexInt     `json:"year"`
	Description      flexStrings `json:"description"`
	HeroImage        *imageRef   `json:"heroImage"`
	Gallery          []imageRef  `json:"gallery"`
	RelatedSlugs     flexStrings `json:"relatedSlugs"`
	Tags             flexStrings `json:"tags"`
	Status           flexString  `json:"status"`
	IsActive         flexBool    `json:"isActive"`
	Metadata         struct {
		InternalID     flexString  `json:"internalId"`
		Status         flexString  `json:"status"`
		Priority       flexString  `json:"priority"`
		ProjectManager flexString  `json:"projectManager"`
		Tags           flexStrings `json:"tags"`
		IsActive       flexBool    `json:"isActive"`
	} `json:"metadata"`
}

// decodeRawProject is the single typed construction step for every entry.
func decodeRawProject(r rawRecord) (rawProject, error) {
	var p rawProject
	b, err := json.Marshal(r.nested())
	if err != nil {
		return p, err
	}
	err = json.Unmarshal(b, &p)
	return p, err
}

// toProject normalizes the entry at 1-based position.
func (r rawProject) toProject(position int, assets AssetResolver) Project {
	name := firstNonEmpty(string(r.Name), string(r.Title))

	slug := Slugify(string(r.Slug))
	if slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		slug = fmt.Sprintf("project-%d", position)
	}

	// Entries that never declared a status are part of the public dataset.
	status := StatusPublished
	if s := firstNonEmpty(string(r.Metadata.Status), string(r.Status)); s != "" {
		status = ParseStatus(s)
	}

	isActive := true
	switch {
	case r.Metadata.IsActive.Set:
		isActive = r.Metadata.IsActive.Value
	case r.IsActive.Set:
		isActive = r.IsActive.Value
	}

	internalID := string(r.Metadata.InternalID)
	if internalID == "" {
		internalID = InternalCodeFor(position)
	}

	gallery := make([]ProjectImage, 0, len(r.Gallery))
	for i, ref := range r.Gallery {
		img, ok := ref.toImage(assets)
		if !ok {
			continue
		}
		img.OrderIndex = i
		if ref.OrderIndex != nil {
			img.OrderIndex = *ref.OrderIndex
		}
		gallery = append(gallery, withAlt(img, name))
	}
	sort.SliceStable(gallery, func(i, j int) bool { return gallery[i].OrderIndex < gallery[j].OrderIndex })

	var hero ProjectImage
	if r.HeroImage != nil {
		if img, ok := r.HeroImage.toImage(assets); ok {
			hero = withAlt(img, name)
		}
	}

	related := make([]string, 0, len(r.RelatedSlugs))
	for _, s := range r.RelatedSlugs {
		related = append(related, Slugify(s))
	}

	return Project{
		ID:               string(r.ID),
		Slug:             slug,
		Name:             name,
		ShortDescription: firstNonEmpty(string(r.ShortDescription), string(r.Summary)),
		Client:           string(r.Client),
		Category:         string(r.Category),
		Year:             r.Year.ptr(),
		Description:      NormalizeBlocks(r.Description),
		HeroImage:        heroOrFirst(hero, gallery, name),
		Gallery:          gallery,
		RelatedSlugs:     related,
		Metadata: Metadata{
			InternalID:     internalID,
			Status:         status,
			Priority:       ParsePriority(string(r.Metadata.Priority)),
			ProjectManager: string(r.Metadata.ProjectManager),
			Tags:           NormalizeTags(append(append([]string{}, r.Metadata.Tags...), r.Tags...)),
			IsActive:       isActive,
		},
		IsActive: isActive,
	}
}

// ParseDataset parses a fallback document: a top-level array of entries or an
// object with a "projects" array. Entries that are not objects are skipped.
func ParseDataset(data []byte, assets AssetResolver) ([]Project, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse fallback dataset: %w", err)
	}

	var entries []any
	switch v := doc.(type) {
	case []any:
		entries = v
	case map[string]any:
		list, ok := v["projects"].([]any)
		if !ok {
			return nil, fmt.Errorf("parse fallback dataset: object has no projects array")
		}
		entries = list
	default:
		return nil, fmt.Errorf("parse fallback dataset: unexpected top-level %T", doc)
	}

	projects := make([]Project, 0, len(entries))
	for _, entry := range entries {
		fields, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		raw, err := decodeRawProject(classifyRecord(fields))
		if err != nil {
			return nil, fmt.Errorf("parse fallback dataset entry %d: %w", len(projects)+1, err)
		}
		projects = append(projects, raw.toProject(len(projects)+1, assets))
	}

	uniqueSlugs(projects)

	known := make(map[string]struct{}, len(projects))
	for _, p := range projects {
		known[p.Slug] = struct{}{}
	}
	for i := range projects {
		projects[i].RelatedSlugs = cleanRelatedSlugs(projects[i].Slug, projects[i].RelatedSlugs, known)
	}
	return projects, nil
}

// uniqueSlugs suffixes colliding slugs with -2, -3, ... in load order.
func uniqueSlugs(projects []Project) {
	taken := make(map[string]struct{}, len(projects))
	for _, p := range projects {
		taken[p.Slug] = struct{}{}
	}
	seen := make(map[string]struct{}, len(projects))
	for i := range projects {
		slug := projects[i].Slug
		if _, dup := seen[slug]; dup {
			for n := 2; ; n++ {
				candidate := fmt.Sprintf("%s-%d", slug, n)
				if _, used := taken[candidate]; !used {
					slug = candidate
					taken[candidate] = struct{}{}
					break
				}
			}
		}
		seen[slug] = struct{}{}
		projects[i].Slug = slug
	}
}

func cloneProjects(in []Project) []Project {
	out := make([]Project, len(in))
	for i, p := range in {
		p.Description = append([]string{}, p.Description...)
		p.Gallery = append([]ProjectImage{}, p.Gallery...)
		p.RelatedSlugs = append([]string{}, p.RelatedSlugs...)
		p.Metadata.Tags = append([]string{}, p.Metadata.Tags...)
		out[i] = p
	}
	return out
}
