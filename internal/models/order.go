package models

import "time"

// OrderItem is a snapshot of a product at the moment it was ordered.
type OrderItem struct {
	ID      uint    `json:"-" bson:"-" gorm:"primaryKey"`
	OrderID string  `json:"-" bson:"-" gorm:"index;type:varchar(36)"`
	Product string  `json:"product" bson:"product" gorm:"type:varchar(36)" validate:"required"`
	Name    string  `json:"name" bson:"name"`
	Qty     int     `json:"qty" bson:"qty" validate:"gte=1"`
	Price   float64 `json:"price" bson:"price" validate:"gte=0"`
	Image   string  `json:"image" bson:"image"`
}

// ShippingAddress is where an order is delivered.
type ShippingAddress struct {
	Address    string `json:"address" bson:"address"`
	City       string `json:"city" bson:"city"`
	PostalCode string `json:"postalCode" bson:"postalCode"`
	Country    string `json:"country" bson:"country"`
}

// Order represents a customer order. Orders are immutable once stored.
type Order struct {
	ID              string          `json:"id" bson:"_id" gorm:"primaryKey;type:varchar(36)"`
	UserID          string          `json:"user" bson:"user" gorm:"index;type:varchar(36);not null"`
	OrderItems      []OrderItem     `json:"orderItems" bson:"orderItems" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ShippingAddress ShippingAddress `json:"shippingAddress" bson:"shippingAddress" gorm:"embedded;embeddedPrefix:shipping_"`
	TotalPrice      float64         `json:"totalPrice" bson:"totalPrice"`
	CreatedAt       time.Time       `json:"createdAt" bson:"createdAt"`
}

// OrderCreatedEvent is published after an order has been stored.
type OrderCreatedEvent struct {
	OrderID    string    `json:"orderID"`
	UserID     string    `json:"userID"`
	ItemCount  int       `json:"itemCount"`
	TotalPrice float64   `json:"total"`
	CreatedAt  time.Time `json:"createdAt"`
}
