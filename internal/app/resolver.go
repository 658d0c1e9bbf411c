package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Adda-Baaj/alb-oembed/internal/config"
	"github.com/Adda-Baaj/alb-oembed/internal/logger"
	"github.com/Adda-Baaj/alb-oembed/pkg/httpclient"
	"github.com/Adda-Baaj/alb-oembed/pkg/oembed"
	"github.com/Adda-Baaj/alb-oembed/pkg/providers"
)

// Target selects the provider for a lookup: either a configured provider id,
// or an ad hoc endpoint with its format.
type Target struct {
	ProviderID string
	Endpoint   string
	Format     string
}

// Resolver wires the transport, the providers file and the oembed client together.
type Resolver struct {
	cfg      *config.Config
	client   httpclient.Client
	registry *providers.Registry
	log      logger.Logger
}

// NewResolver builds a resolver from config. A missing providers file is only
// an error once a lookup asks for a provider id.
func NewResolver(cfg *config.Config, log logger.Logger) (*Resolver, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}

	r := &Resolver{
		cfg:    cfg,
		client: httpclient.NewRestyClient(cfg.HTTPTimeout),
		log:    log,
	}

	reg, err := providers.LoadRegistry(cfg.ProvidersFile)
	if err != nil {
		log.WarnObj("providers registry unavailable", "providers_error", map[string]any{
			"providers_file": cfg.ProvidersFile,
			"error":          err.Error(),
		})
	} else {
		r.registry = reg
		log.InfoObj("providers registry loaded", "providers_meta", map[string]any{
			"count": len(reg.All()),
			"ids":   reg.IDs(),
		})
	}
	return r, nil
}

// newResolver is used by tests to inject the transport and registry.
func newResolver(client httpclient.Client, reg *providers.Registry, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Resolver{cfg: &config.Config{}, client: client, registry: reg, log: log}
}

// Providers returns the configured providers, or an error when none were loaded.
func (r *Resolver) Providers() ([]providers.Provider, error) {
	if r.registry == nil {
		return nil, fmt.Errorf("no providers loaded from %q", r.cfg.ProvidersFile)
	}
	return r.registry.All(), nil
}

// Lookup requests the oEmbed representation of resourceURL from target.
func (r *Resolver) Lookup(ctx context.Context, target Target, resourceURL string, params oembed.Params) (*oembed.Response, error) {
	resourceURL = strings.TrimSpace(resourceURL)
	if resourceURL == "" {
		return nil, errors.New("resource url is empty")
	}

	provider, params, err := r.provider(target, params)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := provider.Request(ctx, resourceURL, params)
	meta := map[string]any{
		"endpoint":   provider.Endpoint(),
		"format":     provider.Format().String(),
		"url":        resourceURL,
		"elapsed_ms": time.Since(start).Milliseconds(),
	}
	if err != nil {
		meta["error"] = err.Error()
		r.log.ErrorObj("oembed request failed", "oembed_request", meta)
		return nil, err
	}

	meta["fields"] = resp.Len()
	r.log.DebugObj("oembed request completed", "oembed_request", meta)
	return resp, nil
}

func (r *Resolver) provider(target Target, params oembed.Params) (*oembed.Provider, oembed.Params, error) {
	if id := strings.TrimSpace(target.ProviderID); id != "" {
		if strings.TrimSpace(target.Endpoint) != "" {
			return nil, nil, errors.New("provider id and endpoint are mutually exclusive")
		}
		if r.registry == nil {
			return nil, nil, fmt.Errorf("provider %q requested but no providers loaded from %q", id, r.cfg.ProvidersFile)
		}
		op, entry, err := r.registry.Client(id, r.client)
		if err != nil {
			return nil, nil, err
		}
		return op, entry.RequestParams(params), nil
	}

	if strings.TrimSpace(target.Endpoint) == "" {
		return nil, nil, errors.New("either a provider id or an endpoint is required")
	}
	format, err := oembed.ParseFormat(target.Format)
	if err != nil {
		return nil, nil, err
	}
	op, err := oembed.NewProvider(target.Endpoint, format, r.client)
	if err != nil {
		return nil, nil, err
	}
	return op, params, nil
}
