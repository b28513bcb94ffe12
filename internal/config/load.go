package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment overrides applied by ApplyEnv.
const (
	EnvDSN          = "FIRECALLS_DSN"
	EnvSource       = "FIRECALLS_SOURCE"
	EnvStorageKind  = "FIRECALLS_STORAGE_KIND"
	EnvBatchSize    = "FIRECALLS_BATCH_SIZE"
	EnvQueryWorkers = "FIRECALLS_QUERY_WORKERS"
)

// Load reads a workflow file. Files ending in .yaml or .yml are decoded as
// YAML, everything else as JSON. Unknown fields are rejected.
func Load(path string) (Workflow, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Workflow{}, fmt.Errorf("config: %w", err)
	}
	w, err := Decode(b, filepath.Ext(path))
	if err != nil {
		return Workflow{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return w, nil
}

// Decode parses b as YAML when ext is ".yaml" or ".yml", else as JSON.
func Decode(b []byte, ext string) (Workflow, error) {
	var w Workflow
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&w); err != nil {
			return Workflow{}, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&w); err != nil {
			return Workflow{}, fmt.Errorf("decode json: %w", err)
		}
	}
	return w, nil
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is an
// error only when required.
func LoadEnvFile(path string, required bool) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err == nil || (!required && errors.Is(err, fs.ErrNotExist)) {
		return nil
	}
	return fmt.Errorf("config: env file %s: %w", path, err)
}

// ApplyEnv overlays the FIRECALLS_* variables onto w. lookup is usually
// os.LookupEnv. A FIRECALLS_SOURCE starting with http:// or https:// selects
// the http source kind.
func (w *Workflow) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDSN); ok {
		w.Storage.DB.DSN = v
	}
	if v, ok := lookup(EnvStorageKind); ok && v != "" {
		w.Storage.Kind = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvSource); ok && v != "" {
		if strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") {
			w.Source.Kind = "http"
			w.Source.HTTP.URL = v
		} else {
			w.Source.Kind = "file"
			w.Source.File.Path = v
		}
	}
	for _, iv := range []struct {
		key string
		dst *int
	}{
		{EnvBatchSize, &w.Runtime.BatchSize},
		{EnvQueryWorkers, &w.Runtime.QueryWorkers},
	} {
		v, ok := lookup(iv.key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %s=%q: %w", iv.key, v, err)
		}
		*iv.dst = n
	}
	return nil
}
