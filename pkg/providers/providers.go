package providers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Adda-Baaj/alb-oembed/pkg/oembed"
	"gopkg.in/yaml.v3"
)

// Package providers loads the named oEmbed endpoints a deployment knows about.
// It does not map resource URLs to providers; callers pick one by id.

// Provider is a single endpoint entry declared in the providers file.
type Provider struct {
	ID       string            `json:"id" yaml:"id"`
	Name     string            `json:"name" yaml:"name"`
	Endpoint string            `json:"endpoint" yaml:"endpoint"`
	Format   string            `json:"format" yaml:"format"`
	Params   map[string]string `json:"params" yaml:"params"`
}

type configFile struct {
	Providers []Provider `json:"providers" yaml:"providers"`
}

// Registry materializes provider definitions loaded from a config file.
// It is read-only after NewRegistry.
type Registry struct {
	providers []Provider
	idx       map[string]Provider
}

// LoadRegistry loads the provider registry from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("providers file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open providers file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read providers file: %w", err)
	}

	cfg, err := parseRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	return NewRegistry(cfg.Providers)
}

// NewRegistry sanitizes and validates entries. Every invalid entry is reported.
func NewRegistry(entries []Provider) (*Registry, error) {
	if len(entries) == 0 {
		return nil, errors.New("providers file contains no providers entries")
	}

	reg := &Registry{
		providers: make([]Provider, 0, len(entries)),
		idx:       make(map[string]Provider, len(entries)),
	}

	var errs []error
	for i := range entries {
		p := sanitizeProvider(entries[i])
		if err := validateProvider(p); err != nil {
			errs = append(errs, fmt.Errorf("provider[%d]: %w", i, err))
			continue
		}
		key := strings.ToLower(p.ID)
		if _, exists := reg.idx[key]; exists {
			errs = append(errs, fmt.Errorf("duplicate provider id %q", p.ID))
			continue
		}
		reg.providers = append(reg.providers, p)
		reg.idx[key] = p
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return reg, nil
}

type unmarshalFn func([]byte, any) error

func parseRegistry(data []byte, ext string) (configFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	var lastErr error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var cfg configFile
		if err := d.fn(data, &cfg); err != nil {
			lastErr = fmt.Errorf("decode %s providers: %w", d.name, err)
			continue
		}
		return cfg, nil
	}

	if lastErr != nil {
		return configFile{}, lastErr
	}
	return configFile{}, errors.New("providers file format not recognized (expected YAML or JSON)")
}

func sanitizeProvider(p Provider) Provider {
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	p.Endpoint = strings.TrimSpace(p.Endpoint)
	p.Format = strings.ToLower(strings.TrimSpace(p.Format))
	if p.Name == "" {
		p.Name = p.ID
	}
	if p.Format == "" {
		p.Format = string(oembed.FormatJSON)
	}

	if len(p.Params) > 0 {
		params := make(map[string]string, len(p.Params))
		for k, v := range p.Params {
			if key := strings.TrimSpace(k); key != "" {
				params[key] = strings.TrimSpace(v)
			}
		}
		p.Params = params
	}
	return p
}

func validateProvider(p Provider) error {
	if p.ID == "" {
		return errors.New("id is required")
	}
	if p.Endpoint == "" {
		return fmt.Errorf("endpoint is required for provider %q", p.ID)
	}
	if _, err := oembed.ParseFormat(p.Format); err != nil {
		return fmt.Errorf("provider %q: %w", p.ID, err)
	}
	if _, ok := p.Params["url"]; ok {
		return fmt.Errorf("provider %q: params must not set url", p.ID)
	}
	return nil
}

// ByID returns the provider with the given id (case-insensitive).
func (r *Registry) ByID(id string) (Provider, bool) {
	if r == nil {
		return Provider{}, false
	}
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return Provider{}, false
	}

	p, ok := r.idx[id]
	return p, ok
}

// All returns all configured providers in file order.
func (r *Registry) All() []Provider {
	if r == nil {
		return nil
	}

	out := make([]Provider, len(r.providers))
	copy(out, r.providers)
	return out
}

// IDs returns the configured ids in sorted order.
func (r *Registry) IDs() []string {
	all := r.All()
	ids := make([]string, 0, len(all))
	for _, p := range all {
		ids = append(ids, p.ID)
	}
	sort.Strings(ids)
	return ids
}

// Client builds an oembed.Provider for the entry with the given id.
func (r *Registry) Client(id string, client oembed.HTTPClient) (*oembed.Provider, Provider, error) {
	p, ok := r.ByID(id)
	if !ok {
		return nil, Provider{}, fmt.Errorf("unknown provider %q", id)
	}
	op, err := p.Client(client)
	if err != nil {
		return nil, Provider{}, err
	}
	return op, p, nil
}

// Client builds an oembed.Provider for this entry.
func (p Provider) Client(client oembed.HTTPClient) (*oembed.Provider, error) {
	format, err := oembed.ParseFormat(p.Format)
	if err != nil {
		return nil, fmt.Errorf("provider %q: %w", p.ID, err)
	}
	op, err := oembed.NewProvider(p.Endpoint, format, client)
	if err != nil {
		return nil, fmt.Errorf("provider %q: %w", p.ID, err)
	}
	return op, nil
}

// RequestParams merges the configured default params with overrides.
func (p Provider) RequestParams(overrides oembed.Params) oembed.Params {
	out := make(oembed.Params, len(p.Params)+len(overrides))
	for k, v := range p.Params {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
