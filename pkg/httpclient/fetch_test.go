package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type stubResponse struct {
	body       []byte
	statusCode int
}

func (s stubResponse) Body() []byte    { return s.body }
func (s stubResponse) StatusCode() int { return s.statusCode }

type stubClient struct {
	resp Response
	err  error
}

func (s stubClient) Get(context.Context, string, map[string]string) (Response, error) {
	return s.resp, s.err
}

func TestFetchReturnsBodyOn2xx(t *testing.T) {
	body, err := Fetch(context.Background(), stubClient{resp: stubResponse{body: []byte("ok"), statusCode: 204}}, "http://x", nil)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(body) != "ok" {
		t.Fatalf("body = %q", body)
	}
}

func TestFetchWrapsNon2xxInStatusError(t *testing.T) {
	_, err := Fetch(context.Background(), stubClient{resp: stubResponse{body: []byte(" not found "), statusCode: 404}}, "http://x/a", nil)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != 404 || statusErr.Snippet != "not found" || statusErr.URL != "http://x/a" {
		t.Fatalf("unexpected status error %+v", statusErr)
	}
}

func TestFetchPassesTransportErrorThrough(t *testing.T) {
	boom := errors.New("dial tcp: refused")
	_, err := Fetch(context.Background(), stubClient{err: boom}, "http://x", nil)
	if err != boom {
		t.Fatalf("expected transport error unchanged, got %v", err)
	}
}

func TestFetchRejectsNilClient(t *testing.T) {
	if _, err := Fetch(context.Background(), nil, "http://x", nil); err == nil {
		t.Fatal("expected error for nil client")
	}
}

func TestResponseSnippetTruncates(t *testing.T) {
	if got := responseSnippet(nil); got != "<empty>" {
		t.Fatalf("empty snippet = %q", got)
	}
	long := strings.Repeat("a", 600)
	if got := responseSnippet([]byte(long)); len(got) != 515 || !strings.HasSuffix(got, "...") {
		t.Fatalf("unexpected truncated snippet length %d", len(got))
	}
}

func TestRestyClientSendsDefaultUserAgent(t *testing.T) {
	var gotUA, gotExtra string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotExtra = r.Header.Get("Accept")
		_, _ = w.Write([]byte(`{"title":"T"}`))
	}))
	defer srv.Close()

	client := NewRestyClient(2 * time.Second)
	resp, err := client.Get(context.Background(), srv.URL, map[string]string{"Accept": "application/json"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode())
	}
	if string(resp.Body()) != `{"title":"T"}` {
		t.Fatalf("body = %s", resp.Body())
	}
	if gotUA != DefaultUserAgent {
		t.Fatalf("User-Agent = %q", gotUA)
	}
	if gotExtra != "application/json" {
		t.Fatalf("Accept = %q", gotExtra)
	}
}

func TestRestyClientHeaderOverridesUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	if _, err := NewRestyClient(time.Second).Get(context.Background(), srv.URL, map[string]string{"User-Agent": "custom/1.0"}); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotUA != "custom/1.0" {
		t.Fatalf("User-Agent = %q", gotUA)
	}
}
