package catalog

import (
	"github.com/MrSnakeDoc/mindnest/internal/domain"
	"github.com/MrSnakeDoc/mindnest/internal/logger"
)

// Source pairs a Loader and a Mapper.
type Source struct {
	loader *Loader
	mapper *Mapper
}

// NewSource creates a source reading from path.
func NewSource(path string, log logger.Logger) *Source {
	return &Source{
		loader: NewLoader(path),
		mapper: NewMapper(log),
	}
}

// Fetch loads and maps the catalog file, reporting any failure.
func (s *Source) Fetch() (*domain.Catalog, Stats, error) {
	file, err := s.loader.Load()
	if err != nil {
		return nil, Stats{}, err
	}
	return s.mapper.MapCatalog(file)
}

// LoadCatalog never fails: on a missing, unreadable or malformed file it
// logs the error and returns an empty catalog.
func LoadCatalog(path string, log logger.Logger) *domain.Catalog {
	if log == nil {
		log = logger.Nop()
	}

	c, stats, err := NewSource(path, log).Fetch()
	if err != nil {
		log.Error("catalog load failed, serving empty catalog",
			logger.String("path", path),
			logger.Error(err),
		)
		return domain.EmptyCatalog()
	}

	log.Info("catalog loaded",
		logger.String("path", path),
		logger.Int("categories", stats.Categories),
		logger.Int("items", stats.Items),
		logger.Int("skipped", stats.Skipped),
	)
	return c
}
