package classify

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
)

var (
	errNoElement  = errors.New("no element found")
	errJunkAfter  = errors.New("junk after document element")
	errJunkBefore = errors.New("text before document element")
)

var utf8BOM = []byte("\xef\xbb\xbf")

// xmlNamespace is the namespace encoding/xml gives the reserved xml prefix.
const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

// Element is one XML element name.
type Element struct {
	// Tag is the name in Clark notation: "{namespace}local", or just
	// "local" for elements outside any namespace.
	Tag   string
	Local string
	Depth int
}

// Document is the element outline of a well-formed XML document.
type Document struct {
	Root Element
	// Elements holds every element in document order, root first.
	Elements []Element
}

// HasDescendantTag reports whether an element below the root has one of
// the given tags, compared exactly in Clark notation.
func (d *Document) HasDescendantTag(tags ...string) bool {
	for _, el := range d.Elements {
		if el.Depth == 0 {
			continue
		}
		for _, tag := range tags {
			if el.Tag == tag {
				return true
			}
		}
	}
	return false
}

// ParseDocument checks that body is a single well-formed XML document and
// returns its element outline.
func ParseDocument(body []byte) (*Document, error) {
	return parseDocument(body)
}

func parseDocument(body []byte) (*Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(bytes.TrimPrefix(body, utf8BOM)))
	dec.CharsetReader = charset.NewReaderLabel

	doc := &Document{}
	depth := 0
	closed := false
	// declared holds the namespace URIs declared by each open element.
	var declared [][]string

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if closed {
				return nil, errJunkAfter
			}
			declared = append(declared, namespaceDecls(t.Attr))
			if err := checkBound(t, declared); err != nil {
				return nil, err
			}
			el := Element{Tag: clark(t.Name), Local: t.Name.Local, Depth: depth}
			if depth == 0 {
				doc.Root = el
			}
			doc.Elements = append(doc.Elements, el)
			depth++
		case xml.EndElement:
			declared = declared[:len(declared)-1]
			depth--
			if depth == 0 {
				closed = true
			}
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				if closed {
					return nil, errJunkAfter
				}
				return nil, errJunkBefore
			}
		}
	}

	if len(doc.Elements) == 0 {
		return nil, errNoElement
	}
	return doc, nil
}

// namespaceDecls returns the URIs bound by xmlns and xmlns:* attributes.
func namespaceDecls(attrs []xml.Attr) []string {
	var uris []string
	for _, a := range attrs {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			uris = append(uris, a.Value)
		}
	}
	return uris
}

// checkBound rejects element and attribute prefixes that no open element
// declares. encoding/xml leaves such prefixes untranslated in Name.Space.
func checkBound(t xml.StartElement, declared [][]string) error {
	if !isBound(t.Name.Space, declared) {
		return fmt.Errorf("unbound prefix %q on element %q", t.Name.Space, t.Name.Local)
	}
	for _, a := range t.Attr {
		if a.Name.Space == "xmlns" {
			continue
		}
		if !isBound(a.Name.Space, declared) {
			return fmt.Errorf("unbound prefix %q on attribute %q", a.Name.Space, a.Name.Local)
		}
	}
	return nil
}

func isBound(space string, declared [][]string) bool {
	if space == "" || space == xmlNamespace {
		return true
	}
	for _, uris := range declared {
		for _, uri := range uris {
			if uri == space {
				return true
			}
		}
	}
	return false
}

func clark(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return "{" + name.Space + "}" + name.Local
}
