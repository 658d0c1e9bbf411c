package httpclient

import "context"

// DefaultUserAgent identifies this client to oEmbed providers.
const DefaultUserAgent = "Mozilla/5.0 (alb-oembed)"

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client abstracts HTTP calls so callers can inject stubs or different transports.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}
