package catalog

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/mindnest/internal/domain"
	"github.com/MrSnakeDoc/mindnest/internal/logger"
)

// ErrNoItems is returned when a catalog file holds no usable item.
var ErrNoItems = errors.New("no valid items found in catalog")

// idNamespace scopes the name-based UUIDs generated for catalog items.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://mindnest.app/catalog"))

// Stats summarizes one mapping pass.
type Stats struct {
	Categories int
	Items      int
	Skipped    int // entries with an unknown media type or no title
	Duplicates int // later entries dropped because their id was already taken
}

// Mapper converts a decoded File into a domain.Catalog.
type Mapper struct {
	log logger.Logger
}

// NewMapper creates a mapper. log may be nil.
func NewMapper(log logger.Logger) *Mapper {
	if log == nil {
		log = logger.Nop()
	}
	return &Mapper{log: log}
}

// MapCatalog converts every entry into a ContentItem with a stable id.
// Entries with an unknown media type are skipped. An entry whose id is
// already taken (same category, title and type) is dropped; the first one
// in file order wins. ErrNoItems is returned
// when nothing survives; categories whose entries were all skipped are
// kept with an empty list.
func (m *Mapper) MapCatalog(file File) (*domain.Catalog, Stats, error) {
	var stats Stats
	byCategory := make(map[string][]*domain.ContentItem, len(file))
	seen := make(map[string]struct{})

	for category, entries := range file {
		items := make([]*domain.ContentItem, 0, len(entries))

		for _, props := range entries {
			mediaType, err := domain.ParseMediaType(props.Type)
			if err != nil || strings.TrimSpace(props.Title) == "" {
				stats.Skipped++
				m.log.Warn("skipping catalog entry",
					logger.String("category", category),
					logger.String("title", props.Title),
					logger.String("type", props.Type),
				)
				continue
			}

			id := ItemID(category, props.Title, mediaType)
			if _, dup := seen[id]; dup {
				stats.Duplicates++
				m.log.Warn("dropping duplicate catalog item",
					logger.String("id", id),
					logger.String("category", category),
					logger.String("title", props.Title),
				)
				continue
			}
			seen[id] = struct{}{}

			item := &domain.ContentItem{
				ID:          id,
				Title:       props.Title,
				MediaType:   mediaType,
				Image:       props.Image,
				Description: props.Description,
			}
			if link := strings.TrimSpace(props.Link); link != "" {
				item.Link = &link
			}

			items = append(items, item)
			stats.Items++
		}

		byCategory[category] = items
	}

	if stats.Items == 0 {
		return nil, stats, ErrNoItems
	}

	stats.Categories = len(byCategory)
	return domain.NewCatalog(byCategory), stats, nil
}

// ItemID derives the stable identifier of a catalog entry. The same
// category, title and media type always produce the same id, across
// process restarts and catalog reloads.
func ItemID(category, title string, mediaType domain.MediaType) string {
	name := category + "|" + title + "|" + string(mediaType)
	return uuid.NewSHA1(idNamespace, []byte(name)).String()
}
