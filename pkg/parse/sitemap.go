package parse

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// ParseSitemap scans sitemap markup and classifies every <loc> value by its
// immediate parent element: a <url> parent yields a leaf URL, a <sitemap>
// parent yields a child sitemap reference, any other parent is ignored.
// Document order is preserved within each returned slice.
//
// Malformed input never fails: decoding stops at the first unrecoverable
// syntax error and whatever was classified up to that point is returned, so
// a broken document is indistinguishable from an empty one.
func ParseSitemap(data []byte) (leafURLs, childSitemaps []string) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity

	// Stack of open element names; the top is the current <loc>'s parent.
	var stack []string

	for {
		tok, err := dec.Token()
		if err != nil {
			return leafURLs, childSitemaps
		}

		switch t := tok.(type) {
		case xml.StartElement:
			local := strings.ToLower(t.Name.Local)
			if local == "loc" {
				var parent string
				if len(stack) > 0 {
					parent = stack[len(stack)-1]
				}
				text, ok := elementText(dec)
				if loc := strings.TrimSpace(text); loc != "" {
					switch parent {
					case "url":
						leafURLs = append(leafURLs, loc)
					case "sitemap":
						childSitemaps = append(childSitemaps, loc)
					}
				}
				if !ok {
					return leafURLs, childSitemaps
				}
				continue // the matching end tag was consumed by elementText
			}
			stack = append(stack, local)

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
}

// elementText reads tokens up to the current element's end tag and returns
// the concatenated character data. ok is false when the decoder failed
// before the end tag was reached.
func elementText(dec *xml.Decoder) (text string, ok bool) {
	var sb strings.Builder
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return sb.String(), false
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				return sb.String(), true
			}
			depth--
		}
	}
}
