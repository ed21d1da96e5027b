// Package whatfits provides a CLI shopping assistant. It fetches
// e-commerce product and cart pages, extracts a normalized product or
// cart record from French or English HTML, checks the record against
// the user's declared preferences with deterministic rules, and asks a
// remote language model for a preference-alignment judgment or for
// free-text answers about a product.
//
// This package contains domain types, interfaces, and pure
// normalization and rule logic following Ben Johnson's Standard
// Package Layout. Implementations live in subdirectories named after
// their primary dependency (e.g., sqlite/, goquery/, openai/).
package whatfits
