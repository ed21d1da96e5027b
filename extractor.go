package whatfits

// PageKind classifies a fetched page.
type PageKind string

// Page kinds.
const (
	PageKindUnknown PageKind = ""
	PageKindProduct PageKind = "product"
	PageKindCart    PageKind = "cart"
)

// PageDetector classifies pages from their HTML. Detection looks at
// structured-data markers (JSON-LD, microdata, og:type) and bilingual
// cart markers; it never fetches anything.
type PageDetector interface {
	Detect(html string) PageKind
}

// ProductExtractor extracts a normalized product record from HTML.
// Missing fields default to zero values; only a page with neither a
// title nor structured product data is an error (EINVALID).
type ProductExtractor interface {
	ExtractProduct(html string, sourceURL string) (*Product, error)
}

// CartExtractor extracts cart line items from HTML.
type CartExtractor interface {
	ExtractCart(html string, sourceURL string) (*Cart, error)
}

// ExtractResult holds generic main-content extraction output, used as
// the fallback context source when structured extraction finds no
// description.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML with boilerplate
	// (nav, footer, sidebar, ads) removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}
