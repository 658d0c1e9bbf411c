package oembed

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Standard oEmbed response field names.
const (
	FieldType            = "type"
	FieldVersion         = "version"
	FieldTitle           = "title"
	FieldAuthorName      = "author_name"
	FieldAuthorURL       = "author_url"
	FieldProviderName    = "provider_name"
	FieldProviderURL     = "provider_url"
	FieldCacheAge        = "cache_age"
	FieldThumbnailURL    = "thumbnail_url"
	FieldThumbnailWidth  = "thumbnail_width"
	FieldThumbnailHeight = "thumbnail_height"
	FieldHTML            = "html"
	FieldURL             = "url"
	FieldWidth           = "width"
	FieldHeight          = "height"
)

// Response is the normalized field mapping returned by a provider.
// Which keys are present depends entirely on the provider.
type Response struct {
	fields map[string]string
}

// NewResponse copies fields into a new Response.
func NewResponse(fields map[string]string) *Response {
	cp := make(map[string]string, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return &Response{fields: cp}
}

// Get returns the value stored under key.
func (r *Response) Get(key string) (string, bool) {
	if r == nil {
		return "", false
	}
	v, ok := r.fields[key]
	return v, ok
}

// Value returns the value under key or "" when absent.
func (r *Response) Value(key string) string {
	v, _ := r.Get(key)
	return v
}

// Int parses the value under key as a base-10 integer.
func (r *Response) Int(key string) (int, bool) {
	v, ok := r.Get(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Len returns the number of fields.
func (r *Response) Len() int {
	if r == nil {
		return 0
	}
	return len(r.fields)
}

// Keys returns the field names in sorted order.
func (r *Response) Keys() []string {
	if r == nil {
		return nil
	}
	keys := make([]string, 0, len(r.fields))
	for k := range r.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Fields returns a copy of the field mapping.
func (r *Response) Fields() map[string]string {
	if r == nil {
		return map[string]string{}
	}
	cp := make(map[string]string, len(r.fields))
	for k, v := range r.fields {
		cp[k] = v
	}
	return cp
}

func (r *Response) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Fields())
}

func (r *Response) Type() string         { return r.Value(FieldType) }
func (r *Response) Version() string      { return r.Value(FieldVersion) }
func (r *Response) Title() string        { return r.Value(FieldTitle) }
func (r *Response) AuthorName() string   { return r.Value(FieldAuthorName) }
func (r *Response) AuthorURL() string    { return r.Value(FieldAuthorURL) }
func (r *Response) ProviderName() string { return r.Value(FieldProviderName) }
func (r *Response) ProviderURL() string  { return r.Value(FieldProviderURL) }
func (r *Response) ThumbnailURL() string { return r.Value(FieldThumbnailURL) }
func (r *Response) HTML() string         { return r.Value(FieldHTML) }
func (r *Response) URL() string          { return r.Value(FieldURL) }

func (r *Response) CacheAge() (int, bool)        { return r.Int(FieldCacheAge) }
func (r *Response) Width() (int, bool)           { return r.Int(FieldWidth) }
func (r *Response) Height() (int, bool)          { return r.Int(FieldHeight) }
func (r *Response) ThumbnailWidth() (int, bool)  { return r.Int(FieldThumbnailWidth) }
func (r *Response) ThumbnailHeight() (int, bool) { return r.Int(FieldThumbnailHeight) }
