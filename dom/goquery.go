package dom

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// GoqueryDocument implements Document on top of a parsed HTML snapshot
type GoqueryDocument struct {
	doc  *goquery.Document
	base *url.URL
}

// NewDocument parses an HTML snapshot. pageURL is the address the snapshot
// was loaded from; hyperlink targets are resolved against it.
func NewDocument(htmlContent, pageURL string) (*GoqueryDocument, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page URL: %w", err)
	}

	return &GoqueryDocument{doc: doc, base: base}, nil
}

// Resolve implements Document
func (d *GoqueryDocument) Resolve(selector string) (Element, error) {
	sel := d.doc.Find(selector)
	if sel.Length() == 0 {
		return nil, nil
	}
	return &goqueryElement{sel: sel.First(), base: d.base}, nil
}

type goqueryElement struct {
	sel  *goquery.Selection
	base *url.URL
}

// Rows implements Element
func (e *goqueryElement) Rows() ([]Element, error) {
	return e.enumerate("tr")
}

// Cells implements Element
func (e *goqueryElement) Cells(kind CellKind) ([]Element, error) {
	switch kind {
	case HeaderOrDataCells:
		return e.enumerate("th, td")
	case DataCells:
		return e.enumerate("td")
	default:
		return nil, fmt.Errorf("unknown cell kind: %d", kind)
	}
}

// enumerate collects matching descendants in document order
func (e *goqueryElement) enumerate(selector string) ([]Element, error) {
	var elements []Element
	e.sel.Find(selector).Each(func(i int, s *goquery.Selection) {
		elements = append(elements, &goqueryElement{sel: s, base: e.base})
	})
	return elements, nil
}

// Text implements Element
func (e *goqueryElement) Text() (string, error) {
	return e.sel.Text(), nil
}

// LinkHref implements Element
func (e *goqueryElement) LinkHref() (string, bool, error) {
	anchor := e.sel.Find("a[href]").First()
	if anchor.Length() == 0 {
		return "", false, nil
	}

	href := anchor.AttrOr("href", "")
	ref, err := url.Parse(href)
	if err != nil {
		return "", false, fmt.Errorf("failed to parse href %q: %w", href, err)
	}

	return e.base.ResolveReference(ref).String(), true, nil
}
