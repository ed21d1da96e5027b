package whatfits

// Cart represents the line items extracted from a cart page.
type Cart struct {
	SourceURL string     `json:"sourceUrl"`
	Items     []CartItem `json:"items"`
	Currency  string     `json:"currency"`
	Total     string     `json:"total"` // normalized decimal, "" when not found
}

// CartItem is a single cart line. ProductURL is empty when the line
// carries no link back to a product page; such items cannot be judged
// beyond their title.
type CartItem struct {
	Title      string `json:"title"`
	Quantity   int    `json:"quantity"`
	UnitPrice  string `json:"unitPrice"`
	LineTotal  string `json:"lineTotal"`
	ProductURL string `json:"productUrl"`
}

// Validate returns an error if the cart contains invalid fields.
func (c *Cart) Validate() error {
	if c.SourceURL == "" {
		return Errorf(EINVALID, "cart source URL required")
	}
	if len(c.Items) == 0 {
		return Errorf(EINVALID, "cart has no items")
	}
	return nil
}
