package dom

// Cell selection kinds for Element.Cells
type CellKind int

const (
	// HeaderOrDataCells selects both th and td cells, used for the header row
	HeaderOrDataCells CellKind = iota
	// DataCells selects td cells only, used for data rows
	DataCells
)

// Document resolves locators against a rendered page.
// Implementations must return elements in document order.
type Document interface {
	// Resolve returns the first element matching the selector,
	// or nil when nothing matches
	Resolve(selector string) (Element, error)
}

// Element is a handle to one resolved document node
type Element interface {
	// Rows enumerates all row elements inside this element, header row included
	Rows() ([]Element, error)
	// Cells enumerates the cell elements of the given kind inside this element
	Cells(kind CellKind) ([]Element, error)
	// Text returns the raw text content of the element
	Text() (string, error)
	// LinkHref returns the target of the first hyperlink inside the element,
	// resolved to an absolute URL; ok is false when the element has no link
	LinkHref() (href string, ok bool, err error)
}
