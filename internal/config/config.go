// Package config loads the project configuration file (docu.yaml).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/docu/pkg/collection"
	"github.com/aretw0/docu/pkg/schema"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the project directory.
const FileName = "docu.yaml"

// DefaultContentBase mirrors the conventional content directory of the site.
const DefaultContentBase = "src/content"

// Collection configures one content collection.
type Collection struct {
	Name    string `yaml:"name"`
	Base    string `yaml:"base"`
	Pattern string `yaml:"pattern"`
	// Schema maps front-matter fields to type strings such as "string",
	// "number?", "[string]" or "date". Empty means the docu schema.
	Schema map[string]string `yaml:"schema"`
	// SchemaFile is a JSON object of the same form, relative to the project
	// directory, as served by GET /api/collections/{name}/schema.
	SchemaFile string `yaml:"schema_file"`
}

// Server configures the HTTP adapter.
type Server struct {
	Port string `yaml:"port"`
}

// Redis configures the shared counter store. An empty URL selects the
// in-memory store.
type Redis struct {
	URL string        `yaml:"url"`
	TTL time.Duration `yaml:"ttl"`
}

// Config is the content of docu.yaml.
type Config struct {
	Collections []Collection `yaml:"collections"`
	Server      Server       `yaml:"server"`
	Redis       Redis        `yaml:"redis"`
	FailFast    bool         `yaml:"fail_fast"`
	Concurrency int          `yaml:"concurrency"`
	LogFormat   string       `yaml:"log_format"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Collections: []Collection{{
			Name:    collection.DocuName,
			Base:    DefaultContentBase,
			Pattern: collection.DefaultPattern,
		}},
		Server:    Server{Port: "8080"},
		LogFormat: "text",
	}
}

// Load reads path, or <dir>/docu.yaml when path is empty. A missing default
// file yields Default(); a missing explicit file is an error.
func Load(dir, path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, FileName)
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	if len(c.Collections) == 0 {
		c.Collections = Default().Collections
	}
	seen := make(map[string]bool, len(c.Collections))
	for i := range c.Collections {
		col := &c.Collections[i]
		if col.Name == "" {
			return fmt.Errorf("collections[%d]: name is required", i)
		}
		if seen[col.Name] {
			return fmt.Errorf("collections[%d]: duplicate name %q", i, col.Name)
		}
		seen[col.Name] = true
		if col.Base == "" {
			col.Base = DefaultContentBase
		}
		if col.Pattern == "" {
			col.Pattern = collection.DefaultPattern
		}
		if len(col.Schema) > 0 && col.SchemaFile != "" {
			return fmt.Errorf("collections[%d]: schema and schema_file are exclusive", i)
		}
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative")
	}
	return nil
}

// Definitions resolves the configured collections against the project dir.
// A collection without its own schema is validated with the docu schema.
func (c Config) Definitions(dir string) ([]collection.Definition, error) {
	defs := make([]collection.Definition, 0, len(c.Collections))
	for _, col := range c.Collections {
		s, err := col.schema(dir)
		if err != nil {
			return nil, fmt.Errorf("collection %s: %w", col.Name, err)
		}
		defs = append(defs, collection.Definition{
			Name:   col.Name,
			Source: collection.NewGlobLoader(resolve(dir, col.Base), col.Pattern),
			Schema: s,
		})
	}
	return defs, nil
}

func (col Collection) schema(dir string) (schema.Schema, error) {
	var (
		s   schema.Schema
		err error
	)
	switch {
	case len(col.Schema) > 0:
		s, err = schema.ParseTypeMap(col.Schema)
	case col.SchemaFile != "":
		s, err = loadSchemaFile(resolve(dir, col.SchemaFile))
	default:
		return collection.DocuSchema(), nil
	}
	if err != nil {
		return nil, err
	}
	if err := collection.CheckSchema(s); err != nil {
		return nil, err
	}
	return s, nil
}

func loadSchemaFile(path string) (schema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	var s schema.Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return s, nil
}

func resolve(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
