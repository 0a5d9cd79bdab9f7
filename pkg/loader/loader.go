package loader

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/museum/pkg/model"
)

//go:embed catalog.yaml
var defaultCatalog []byte

var (
	// ErrNotFound is returned when a catalog file does not exist
	ErrNotFound = errors.New("catalog not found")
	// ErrInvalid wraps every structural problem found in a catalog
	ErrInvalid = errors.New("invalid catalog")
)

// Percent is a percentage written either as a bare number or as "60%"
type Percent float64

// UnmarshalYAML implements yaml.Unmarshaler
func (p *Percent) UnmarshalYAML(value *yaml.Node) error {
	v, err := ParsePercent(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*p = Percent(v)
	return nil
}

// ParsePercent parses "60%", "60" or "17.2 %" into 60, 60 and 17.2
func ParsePercent(s string) (float64, error) {
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid percentage %q", s)
	}
	return v, nil
}

type catalogFile struct {
	HomeImage string     `yaml:"home_image"`
	Rooms     []roomFile `yaml:"rooms"`
	Doors     []doorFile `yaml:"doors"`
}

type roomFile struct {
	ID          string        `yaml:"id"`
	Title       string        `yaml:"title"`
	Category    string        `yaml:"category"`
	Image       string        `yaml:"image"`
	Description string        `yaml:"description"`
	Hotspots    []hotspotFile `yaml:"hotspots"`
}

type hotspotFile struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Kind        string       `yaml:"kind"`
	Description string       `yaml:"description"`
	Top         Percent      `yaml:"top"`
	Left        Percent      `yaml:"left"`
	Generate    *generator   `yaml:"generate"`
	Posts       []model.Post `yaml:"posts"`
}

type generator struct {
	Subcategory string `yaml:"subcategory"`
	Count       int    `yaml:"count"`
}

type doorFile struct {
	Room   string  `yaml:"room"`
	Left   Percent `yaml:"left"`
	Width  Percent `yaml:"width"`
	ScaleX float64 `yaml:"scale_x"`
}

// LoadCatalog reads the catalog at path, or the built-in catalog when path
// is empty.
func LoadCatalog(path string) (*model.Catalog, error) {
	if path == "" {
		return Default()
	}
	return LoadCatalogFromFile(path)
}

// Default returns the built-in catalog. Relative image paths are resolved
// against the working directory.
func Default() (*model.Catalog, error) {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return Parse(defaultCatalog, cwd)
}

// LoadCatalogFromFile reads a catalog YAML file. Relative image paths are
// resolved against the file's directory.
func LoadCatalogFromFile(path string) (*model.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return Parse(data, filepath.Dir(abs))
}

// Parse decodes catalog YAML, expands generated posts and validates the
// result.
func Parse(data []byte, baseDir string) (*model.Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	c := &model.Catalog{HomeImage: resolveImage(baseDir, f.HomeImage)}
	for _, rf := range f.Rooms {
		category := rf.Category
		if category == "" {
			category = rf.Title
		}
		room := model.Room{
			ID:          rf.ID,
			Title:       rf.Title,
			Image:       resolveImage(baseDir, rf.Image),
			Description: rf.Description,
		}
		for _, hf := range rf.Hotspots {
			kind := model.HotspotKind(hf.Kind)
			if hf.Kind == "" {
				kind = model.HotspotSub
			}
			h := model.Hotspot{
				ID:          hf.ID,
				Name:        hf.Name,
				Kind:        kind,
				Description: hf.Description,
				Top:         float64(hf.Top),
				Left:        float64(hf.Left),
				Posts:       hf.Posts,
			}
			for i := range h.Posts {
				if h.Posts[i].Category == "" {
					h.Posts[i].Category = category
				}
				h.Posts[i].Image = resolveImage(baseDir, h.Posts[i].Image)
			}
			if hf.Generate != nil {
				if hf.Generate.Count < 0 {
					return nil, fmt.Errorf("%w: hotspot %s: negative post count", ErrInvalid, hf.ID)
				}
				h.Posts = append(h.Posts, GeneratePosts(category, hf.Generate.Subcategory, hf.Generate.Count)...)
			}
			room.Hotspots = append(room.Hotspots, h)
		}
		c.Rooms = append(c.Rooms, room)
	}
	for _, df := range f.Doors {
		scale := df.ScaleX
		if scale == 0 {
			scale = 1
		}
		c.Doors = append(c.Doors, model.Door{
			RoomID: df.Room,
			Left:   float64(df.Left),
			Width:  float64(df.Width),
			ScaleX: scale,
		})
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return c, nil
}

func resolveImage(baseDir, ref string) string {
	if ref == "" || filepath.IsAbs(ref) || strings.Contains(ref, "://") {
		return ref
	}
	return filepath.Join(baseDir, filepath.FromSlash(ref))
}

var whitespace = regexp.MustCompile(`\s+`)

// Slug turns a subcategory into the ID prefix of its posts
func Slug(s string) string {
	return strings.ToLower(whitespace.ReplaceAllString(strings.TrimSpace(s), "-"))
}

const postBody = `In the quiet corners of this Victorian sanctuary, we find ourselves contemplating **%[1]s**.

This inquiry is deeply rooted in the domain of *%[2]s*. It is not merely a subject of academic study, but a living, breathing entity that shapes our perception of reality.

### The Hidden Architecture of %[1]s

Consider the mechanism by which we perceive truth. Is it an external absolute, waiting to be discovered like a hidden room in this mansion? Or is it constructed, brick by brick?

As we delve deeper into *Concept %[3]d*, we uncover the subtle power dynamics at play. The hierarchy of knowledge often excludes the intuitive, the mystical, and the non-binary. This archive seeks to restore those lost epistemologies.

Ultimately, the journey through %[2]s is a journey inwards. As you stand before this archive, ask yourself: what structures of power reside within your own consciousness?

~ *Archivist's Note, 1893 (Revised 2024)*
`

// GeneratePosts builds count placeholder entries for a subcategory.
// IDs are derived from the subcategory so they stay stable across runs.
func GeneratePosts(category, subcategory string, count int) []model.Post {
	posts := make([]model.Post, 0, count)
	for i := 0; i < count; i++ {
		id := fmt.Sprintf("%s-%d", Slug(subcategory), i)
		posts = append(posts, model.Post{
			ID:          id,
			Title:       fmt.Sprintf("%s: Concept %d", subcategory, i+1),
			Excerpt:     fmt.Sprintf("An exploration into %s within the broader context of %s.", subcategory, category),
			Content:     fmt.Sprintf(postBody, subcategory, category, i+1),
			Category:    category,
			Subcategory: subcategory,
			Image:       fmt.Sprintf("https://picsum.photos/seed/%s/600/400", id),
		})
	}
	return posts
}
