package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Adda-Baaj/alb-oembed/internal/config"
	"github.com/Adda-Baaj/alb-oembed/pkg/httpclient"
	"github.com/Adda-Baaj/alb-oembed/pkg/oembed"
	"github.com/Adda-Baaj/alb-oembed/pkg/providers"
)

type stubHTTPResponse struct {
	body       []byte
	statusCode int
}

func (s stubHTTPResponse) Body() []byte    { return s.body }
func (s stubHTTPResponse) StatusCode() int { return s.statusCode }

// stubHTTPClient returns a single response and records the requested URL.
type stubHTTPClient struct {
	body string
	err  error
	urls []string
}

func (s *stubHTTPClient) Get(_ context.Context, url string, _ map[string]string) (httpclient.Response, error) {
	s.urls = append(s.urls, url)
	if s.err != nil {
		return nil, s.err
	}
	return stubHTTPResponse{body: []byte(s.body), statusCode: 200}, nil
}

// recordingLogger keeps messages for assertions.
type recordingLogger struct {
	msgs []string
}

func (l *recordingLogger) InfoObj(msg, _ string, _ interface{})  { l.msgs = append(l.msgs, "info:"+msg) }
func (l *recordingLogger) DebugObj(msg, _ string, _ interface{}) { l.msgs = append(l.msgs, "debug:"+msg) }
func (l *recordingLogger) WarnObj(msg, _ string, _ interface{})  { l.msgs = append(l.msgs, "warn:"+msg) }
func (l *recordingLogger) ErrorObj(msg, _ string, _ interface{}) { l.msgs = append(l.msgs, "error:"+msg) }

func testRegistry(t *testing.T) *providers.Registry {
	t.Helper()
	reg, err := providers.NewRegistry([]providers.Provider{
		{ID: "youtube", Endpoint: "https://www.youtube.com/oembed", Format: "json", Params: map[string]string{"maxwidth": "640"}},
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return reg
}

func TestLookupByProviderID(t *testing.T) {
	client := &stubHTTPClient{body: `{"title":"T","type":"video"}`}
	log := &recordingLogger{}
	r := newResolver(client, testRegistry(t), log)

	resp, err := r.Lookup(context.Background(), Target{ProviderID: "youtube"}, "https://youtu.be/x", oembed.Params{"maxheight": "360"})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if resp.Title() != "T" || resp.Type() != "video" {
		t.Fatalf("unexpected response %v", resp.Fields())
	}
	want := "https://www.youtube.com/oembed?url=https%3A%2F%2Fyoutu.be%2Fx&maxheight=360&maxwidth=640"
	if len(client.urls) != 1 || client.urls[0] != want {
		t.Fatalf("unexpected urls %v", client.urls)
	}
	if len(log.msgs) != 1 || log.msgs[0] != "debug:oembed request completed" {
		t.Fatalf("unexpected log messages %v", log.msgs)
	}
}

func TestLookupByEndpoint(t *testing.T) {
	client := &stubHTTPClient{body: `<oembed><title>X</title></oembed>`}
	r := newResolver(client, nil, nil)

	resp, err := r.Lookup(context.Background(), Target{Endpoint: "http://e/oembed", Format: "xml"}, "http://e/1", nil)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if resp.Title() != "X" {
		t.Fatalf("unexpected title %q", resp.Title())
	}
}

func TestLookupErrors(t *testing.T) {
	r := newResolver(&stubHTTPClient{}, nil, nil)
	ctx := context.Background()

	cases := map[string]struct {
		target Target
		url    string
		want   string
	}{
		"empty url":    {target: Target{Endpoint: "http://e"}, url: " ", want: "resource url is empty"},
		"no target":    {url: "http://x", want: "either a provider id or an endpoint"},
		"both targets": {target: Target{ProviderID: "a", Endpoint: "http://e"}, url: "http://x", want: "mutually exclusive"},
		"no registry":  {target: Target{ProviderID: "youtube"}, url: "http://x", want: "no providers loaded"},
		"bad format":   {target: Target{Endpoint: "http://e", Format: "html"}, url: "http://x", want: "invalid response format"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := r.Lookup(ctx, tc.target, tc.url, nil)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLookupLogsAndReturnsTransportError(t *testing.T) {
	boom := errors.New("timeout")
	log := &recordingLogger{}
	r := newResolver(&stubHTTPClient{err: boom}, testRegistry(t), log)

	_, err := r.Lookup(context.Background(), Target{ProviderID: "youtube"}, "https://youtu.be/x", nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if len(log.msgs) != 1 || log.msgs[0] != "error:oembed request failed" {
		t.Fatalf("unexpected log messages %v", log.msgs)
	}
}

func TestNewResolverLoadsProvidersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "providers.yaml")
	content := "providers:\n  - id: vimeo\n    endpoint: https://vimeo.com/api/oembed.json\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	r, err := NewResolver(&config.Config{ProvidersFile: path}, nil)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	list, err := r.Providers()
	if err != nil || len(list) != 1 || list[0].ID != "vimeo" {
		t.Fatalf("unexpected providers %v err=%v", list, err)
	}
}

func TestNewResolverToleratesMissingProvidersFile(t *testing.T) {
	log := &recordingLogger{}
	r, err := NewResolver(&config.Config{ProvidersFile: filepath.Join(t.TempDir(), "missing.yaml")}, log)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	if _, err := r.Providers(); err == nil {
		t.Fatal("expected error listing providers without a registry")
	}
	if len(log.msgs) != 1 || log.msgs[0] != "warn:providers registry unavailable" {
		t.Fatalf("unexpected log messages %v", log.msgs)
	}

	if _, err := NewResolver(nil, nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}
