package facility

import (
	"context"
	"fmt"
	"os"

	"github.com/shenikar/green_corridor_dispatch/internal/models"
	"gopkg.in/yaml.v3"
)

// Catalog - источник справочника учреждений
type Catalog interface {
	Facilities(ctx context.Context) ([]models.Facility, error)
}

// StaticCatalog - неизменяемый справочник в памяти
type StaticCatalog []models.Facility

func (c StaticCatalog) Facilities(_ context.Context) ([]models.Facility, error) {
	out := make([]models.Facility, len(c))
	copy(out, c)
	return out, nil
}

type catalogFile struct {
	Facilities []models.Facility `yaml:"facilities"`
}

// FileCatalog читает справочник из YAML-файла
type FileCatalog struct {
	path string
}

func NewFileCatalog(path string) *FileCatalog {
	return &FileCatalog{path: path}
}

func (c *FileCatalog) Facilities(_ context.Context) ([]models.Facility, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("facility: could not read catalog %s: %w", c.path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog разбирает YAML и проверяет записи
func ParseCatalog(data []byte) ([]models.Facility, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("facility: could not parse catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Facilities))
	for i, f := range file.Facilities {
		if f.ID == "" {
			return nil, fmt.Errorf("facility: catalog entry %d has no id", i)
		}
		if _, dup := seen[f.ID]; dup {
			return nil, fmt.Errorf("facility: duplicate catalog id %s", f.ID)
		}
		if f.GeneralBeds < 0 || f.CriticalBeds < 0 {
			return nil, fmt.Errorf("facility: %s has negative bed count", f.ID)
		}
		seen[f.ID] = struct{}{}
	}
	return file.Facilities, nil
}
