package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"bookshelf/internal/entity"

	"gopkg.in/yaml.v3"
)

const DefaultYAMLFile = "library_data.yaml"

type yamlDocument struct {
	Records []entity.Record `yaml:"records"`
}

// YAML stores the catalog as a single YAML document.
type YAML struct {
	path string
}

func NewYAML(path string) *YAML {
	if path == "" {
		path = DefaultYAMLFile
	}
	return &YAML{path: path}
}

func (y *YAML) Load(ctx context.Context) ([]entity.Record, error) {
	data, err := os.ReadFile(y.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []entity.Record{}, nil
		}
		return []entity.Record{}, fmt.Errorf("read %s: %w", y.path, err)
	}

	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return []entity.Record{}, fmt.Errorf("decode %s: %w", y.path, err)
	}
	if doc.Records == nil {
		return []entity.Record{}, nil
	}
	return doc.Records, nil
}

func (y *YAML) Save(ctx context.Context, records []entity.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := yaml.Marshal(yamlDocument{Records: records})
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := os.WriteFile(y.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", y.path, err)
	}
	return nil
}
