package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Loader handles reading and decoding of the catalog file.
type Loader struct {
	filePath string
}

// NewLoader creates a new catalog loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads and decodes the catalog file. The format follows the file
// extension: .yaml and .yml use YAML, anything else is decoded as JSON.
func (l *Loader) Load() (File, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Decode(data, formatOf(l.filePath))
}

// Format identifies a catalog encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func formatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode parses raw catalog bytes in the given format.
func Decode(data []byte, format Format) (File, error) {
	var file File
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse catalog yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse catalog json: %w", err)
		}
	}
	if file == nil {
		file = File{}
	}
	return file, nil
}
