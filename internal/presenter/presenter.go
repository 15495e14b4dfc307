// Package presenter renders the product collection as HTML views. All
// interpolation goes through html/template, so every text field is
// escaped by default and a new call site cannot forget to escape.
package presenter

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/leafletlens/client/internal/domain"
)

// rowView is one table row. Index is the canonical zero-based lookup
// key; Ordinal is its 1-based display form.
type rowView struct {
	Index   int
	Ordinal int
	Product domain.Product
}

// detailView is the read-only projection of a single product.
type detailView struct {
	Ordinal int
	Product domain.Product
}

// PageData drives the full page render.
type PageData struct {
	Status         *StatusView
	SelectionLabel string
	TriggerEnabled bool
	ResultsVisible bool
	ProductCount   int
	Rows           template.HTML
}

// StatusView is the banner message projection.
type StatusView struct {
	Text string
	Kind string
}

const rowsTemplate = `{{range .}}<tr class="product-row" data-index="{{.Index}}">
<td>{{.Ordinal}}</td>
<td>{{.Product.ProductName}}</td>
<td class="price-cell">{{.Product.Price}}</td>
<td>{{.Product.Unit}}</td>
<td>{{.Product.Category}}</td>
<td>{{with optional .Product.SpecialOffer}}<span class="special-offer-badge">{{.}}</span>{{else}}-{{end}}</td>
<td><button class="view-btn" data-index="{{.Index}}">View</button></td>
</tr>
{{end}}`

const detailTemplate = `<div class="detail-row">
<div class="detail-label">Product ID:</div>
<div class="detail-value">{{.Ordinal}}</div>
</div>
<div class="detail-row">
<div class="detail-label">Product Name:</div>
<div class="detail-value">{{.Product.ProductName}}</div>
</div>
<div class="detail-row">
<div class="detail-label">Price:</div>
<div class="detail-value detail-price">{{.Product.Price}}</div>
</div>
<div class="detail-row">
<div class="detail-label">Unit/Quantity:</div>
<div class="detail-value">{{.Product.Unit}}</div>
</div>
<div class="detail-row">
<div class="detail-label">Category:</div>
<div class="detail-value">{{.Product.Category}}</div>
</div>
<div class="detail-row">
<div class="detail-label">Special Offer:</div>
<div class="detail-value">{{with optional .Product.SpecialOffer}}<span class="special-offer-badge">{{.}}</span>{{else}}None{{end}}</div>
</div>
<div class="detail-row">
<div class="detail-label">Additional Info:</div>
<div class="detail-value">{{with optional .Product.AdditionalInfo}}{{.}}{{else}}None{{end}}</div>
</div>
`

// Presenter renders list rows, detail projections, and the page shell.
type Presenter struct {
	rows   *template.Template
	detail *template.Template
	page   *template.Template
}

// optional unwraps a pointer field. An absent value and an empty string
// both render as the placeholder, matching the service's payloads where
// the two are interchangeable.
func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// New parses the view templates.
func New() (*Presenter, error) {
	funcs := template.FuncMap{"optional": optional}

	rows, err := template.New("rows").Funcs(funcs).Parse(rowsTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rows template: %w", err)
	}
	detail, err := template.New("detail").Funcs(funcs).Parse(detailTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse detail template: %w", err)
	}
	page, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}
	return &Presenter{rows: rows, detail: detail, page: page}, nil
}

// RenderRows renders the collection as table rows, one per product,
// replacing any previously rendered set. Both the whole row and its View
// button carry the same data-index, so a row click and a button click
// open the identical detail view.
func (p *Presenter) RenderRows(products []domain.Product) (template.HTML, error) {
	views := make([]rowView, len(products))
	for i, product := range products {
		views[i] = rowView{Index: i, Ordinal: i + 1, Product: product}
	}

	var out strings.Builder
	if err := p.rows.Execute(&out, views); err != nil {
		return "", fmt.Errorf("failed to render rows: %w", err)
	}
	return template.HTML(out.String()), nil
}

// RenderDetail renders the read-only projection of the product at the
// given zero-based index. An out-of-range index is a programming error
// on the caller's side, reported as domain.ErrIndexOutOfRange.
func (p *Presenter) RenderDetail(products []domain.Product, index int) (template.HTML, error) {
	if index < 0 || index >= len(products) {
		return "", fmt.Errorf("%w: %d of %d", domain.ErrIndexOutOfRange, index, len(products))
	}
	return p.RenderProduct(products[index], index)
}

// RenderProduct renders the detail projection for one product already
// resolved by the caller, with its zero-based index.
func (p *Presenter) RenderProduct(product domain.Product, index int) (template.HTML, error) {
	var out strings.Builder
	view := detailView{Ordinal: index + 1, Product: product}
	if err := p.detail.Execute(&out, view); err != nil {
		return "", fmt.Errorf("failed to render detail: %w", err)
	}
	return template.HTML(out.String()), nil
}

// RenderPage renders the full page shell.
func (p *Presenter) RenderPage(data PageData) (string, error) {
	var out strings.Builder
	if err := p.page.Execute(&out, data); err != nil {
		return "", fmt.Errorf("failed to render page: %w", err)
	}
	return out.String(), nil
}
