package models

import "time"

// Product represents a product in the store.
type Product struct {
	ID          string    `json:"id" bson:"_id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" bson:"name" gorm:"uniqueIndex;type:varchar(255);not null" validate:"required,max=255"`
	Price       float64   `json:"price" bson:"price" validate:"gte=0"`
	Stock       int       `json:"stock" bson:"stock" validate:"gte=0"`
	Description string    `json:"description" bson:"description"`
	Image       string    `json:"image" bson:"image"`
	Category    string    `json:"category" bson:"category" gorm:"index"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// ProductPatch carries a partial product update. A nil field was not provided.
type ProductPatch struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
	Category    *string  `json:"category"`
}

// Apply merges the patch into p. Unless strict is set, a provided zero value
// ("" or 0) keeps the existing value, which is how the storefront has always
// treated partial updates.
func (patch ProductPatch) Apply(p *Product, strict bool) {
	mergeString(&p.Name, patch.Name, strict)
	mergeString(&p.Description, patch.Description, strict)
	mergeString(&p.Image, patch.Image, strict)
	mergeString(&p.Category, patch.Category, strict)
	if patch.Price != nil && (strict || *patch.Price != 0) {
		p.Price = *patch.Price
	}
	if patch.Stock != nil && (strict || *patch.Stock != 0) {
		p.Stock = *patch.Stock
	}
}

func mergeString(dst *string, src *string, strict bool) {
	if src != nil && (strict || *src != "") {
		*dst = *src
	}
}
