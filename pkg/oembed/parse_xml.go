package oembed

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

const (
	cdataOpen  = "<![CDATA["
	cdataClose = "]]>"
)

var utf8BOM = []byte("\xEF\xBB\xBF")

// ParseXML decodes an XML document into a Response.
//
// Every element child of the root becomes a field named by its qualified tag
// name (prefix:local when prefixed), holding the concatenated character data
// of its subtree. Repeated names keep the last value. Documents that are not
// well-formed fail.
func ParseXML(raw []byte) (*Response, error) {
	dec := xml.NewDecoder(bytes.NewReader(bytes.TrimPrefix(raw, utf8BOM)))
	dec.CharsetReader = charset.NewReaderLabel

	fields := make(map[string]string)
	var (
		open     []xml.Name
		rootSeen bool
		name     string
		text     strings.Builder
	)

	for {
		// RawToken keeps namespace prefixes; element nesting is checked against open.
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, parseFailure(FormatXML, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch len(open) {
			case 0:
				if rootSeen {
					return nil, parseFailure(FormatXML, errors.New("extra content after root element"))
				}
				rootSeen = true
			case 1:
				name = qualifiedName(t.Name)
				text.Reset()
			}
			open = append(open, t.Name)
		case xml.EndElement:
			if len(open) == 0 || open[len(open)-1] != t.Name {
				return nil, parseFailure(FormatXML, fmt.Errorf("unexpected end element </%s>", qualifiedName(t.Name)))
			}
			open = open[:len(open)-1]
			if len(open) == 1 {
				fields[name] = unwrapCDATA(text.String())
			}
		case xml.CharData:
			switch {
			case len(open) == 0:
				if len(bytes.TrimSpace(t)) > 0 {
					return nil, parseFailure(FormatXML, errors.New("character data outside root element"))
				}
			case len(open) >= 2:
				text.Write(t)
			}
		}
	}

	if len(open) > 0 {
		return nil, parseFailure(FormatXML, fmt.Errorf("unclosed element <%s>", qualifiedName(open[len(open)-1])))
	}
	if !rootSeen {
		return nil, parseFailure(FormatXML, errors.New("no root element"))
	}
	return &Response{fields: fields}, nil
}

func qualifiedName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// unwrapCDATA strips a literal CDATA wrapper that survived decoding, as sent
// by providers that escape the section markers.
func unwrapCDATA(s string) string {
	if len(s) >= len(cdataOpen)+len(cdataClose) && strings.HasPrefix(s, cdataOpen) && strings.HasSuffix(s, cdataClose) {
		return s[len(cdataOpen) : len(s)-len(cdataClose)]
	}
	return s
}
