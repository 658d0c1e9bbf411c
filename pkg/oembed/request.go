package oembed

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const urlParam = "url"

// Params holds extra query parameters sent alongside the resource url,
// e.g. maxwidth, maxheight.
type Params map[string]string

// MaxSize returns the standard maxwidth/maxheight parameters. Non-positive
// dimensions are left out.
func MaxSize(width, height int) Params {
	p := Params{}
	if width > 0 {
		p["maxwidth"] = strconv.Itoa(width)
	}
	if height > 0 {
		p["maxheight"] = strconv.Itoa(height)
	}
	return p
}

// BuildURL appends the query for resourceURL and params to endpoint.
// The url parameter always comes first and cannot be replaced through params;
// the remaining keys follow in sorted order. The endpoint is not validated.
func BuildURL(endpoint, resourceURL string, params Params) string {
	var b strings.Builder
	b.WriteString(endpoint)
	if strings.Contains(endpoint, "?") {
		b.WriteByte('&')
	} else {
		b.WriteByte('?')
	}
	b.WriteString(urlParam)
	b.WriteByte('=')
	b.WriteString(url.QueryEscape(resourceURL))

	keys := make([]string, 0, len(params))
	for k := range params {
		if k == urlParam {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		b.WriteByte('&')
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params[k]))
	}
	return b.String()
}
