// Package oembed requests oEmbed providers and normalizes their JSON or XML
// answers into a flat field mapping.
package oembed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Adda-Baaj/alb-oembed/pkg/httpclient"
)

// Format is the response format a provider endpoint answers in.
type Format string

const (
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
)

// ParseFormat maps a configured format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatXML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
}

func (f Format) String() string { return string(f) }

// HTTPClient aliases the shared httpclient.Client interface.
type HTTPClient = httpclient.Client

// DefaultHTTPClient returns the resty-backed transport used when none is given.
func DefaultHTTPClient() HTTPClient { return httpclient.NewRestyClient(15 * time.Second) }

// Provider is an oEmbed endpoint plus its declared response format.
// It is immutable and safe for concurrent use.
type Provider struct {
	endpoint string
	format   Format
	client   HTTPClient
}

// NewProvider builds a provider for endpoint answering in format. A nil client
// uses DefaultHTTPClient.
func NewProvider(endpoint string, format Format, client HTTPClient) (*Provider, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, ErrEmptyEndpoint
	}
	if format != FormatJSON && format != FormatXML {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, string(format))
	}
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &Provider{endpoint: endpoint, format: format, client: client}, nil
}

func (p *Provider) Endpoint() string { return p.endpoint }
func (p *Provider) Format() Format   { return p.format }

// Request asks the provider for the representation of resourceURL.
// Transport failures, including non-2xx statuses, are returned unchanged;
// unparseable bodies yield a *ParseError.
func (p *Provider) Request(ctx context.Context, resourceURL string, params Params) (*Response, error) {
	target := BuildURL(p.endpoint, resourceURL, params)

	body, err := httpclient.Fetch(ctx, p.client, target, map[string]string{
		"User-Agent": httpclient.DefaultUserAgent,
	})
	if err != nil {
		return nil, err
	}

	return Parse(p.format, body)
}

// Parse dispatches raw to the parser for format.
func Parse(format Format, raw []byte) (*Response, error) {
	switch format {
	case FormatJSON:
		return ParseJSON(raw)
	case FormatXML:
		return ParseXML(raw)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, string(format))
	}
}
