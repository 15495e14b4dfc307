package domain

// Product is one structured record extracted from a leaflet image.
// Field names mirror the extraction service's JSON payload exactly.
// A product has no identity of its own: within a session it is addressed
// by its zero-based position in the current collection, and a new
// extraction replaces the collection wholesale.
type Product struct {
	ProductName    string  `json:"product_name"`
	Price          string  `json:"price"`
	Unit           string  `json:"unit"`
	Category       string  `json:"category"`
	SpecialOffer   *string `json:"special_offer"`
	AdditionalInfo *string `json:"additional_info"`
}

// ExtractionResult is the extraction service's response to an upload.
// TotalProducts is the server-reported count; it should equal
// len(Products) but consumers must render by the actual slice length.
type ExtractionResult struct {
	Success       bool      `json:"success"`
	Products      []Product `json:"products"`
	TotalProducts int       `json:"total_products"`
	Error         string    `json:"error,omitempty"`
}

// StoredProductsResponse is the payload of GET /api/products.
type StoredProductsResponse struct {
	Products []Product `json:"products"`
}

// ProductDetailResponse is the payload of GET /api/product/{id}.
type ProductDetailResponse struct {
	Success bool     `json:"success"`
	Product *Product `json:"product,omitempty"`
	Error   string   `json:"error,omitempty"`
}
