package storefront

import (
	"fmt"
	"html/template"
	"strings"
)

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"money":    func(v float64) string { return fmt.Sprintf("$%.2f", v) },
	"truncate": truncate,
}).Parse(`<section id="product-list">
{{- range .State.VisibleProducts}}
<div class="product-card" data-id="{{.ID}}">
<img src="{{$.ImageBase}}{{.Image}}" alt="{{.Name}}" />
<h3>{{.Name}}</h3>
<p>{{truncate .Description 50}}</p>
<p class="price">{{money .Price}}</p>
<p>Stock: {{.Stock}}</p>
</div>
{{- else}}
<p class="empty">No products found.</p>
{{- end}}
</section>
<section id="cart">
<span id="cart-count">{{.State.Count}}</span>
<ul id="cart-items">
{{- range .State.Cart}}
<li data-id="{{.Product.ID}}">{{.Product.Name}} - {{money .Product.Price}} x {{.Quantity}}</li>
{{- end}}
</ul>
<p>Total: <span id="cart-total">{{printf "%.2f" .State.Total}}</span></p>
</section>
{{- if .State.Authenticated}}
<section id="admin-dashboard">
<table>
<thead><tr><th>Name</th><th>Price</th><th>Stock</th><th>Category</th></tr></thead>
<tbody>
{{- range .State.Products}}
<tr data-id="{{.ID}}"><td>{{.Name}}</td><td>{{money .Price}}</td><td>{{.Stock}}</td><td>{{.Category}}</td></tr>
{{- end}}
</tbody>
</table>
</section>
{{- end}}
`))

// ImageBase is prepended to product image names.
const ImageBase = "/images/"

// Render draws the product list, the cart and, for a signed-in user, the
// admin table. It depends only on s.
func Render(s State) (string, error) {
	var b strings.Builder
	err := pageTemplate.Execute(&b, struct {
		State     State
		ImageBase string
	}{s, ImageBase})
	if err != nil {
		return "", fmt.Errorf("failed to render page: %w", err)
	}
	return b.String(), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
