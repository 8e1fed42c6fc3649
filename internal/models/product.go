package models

// ProductCategory classifies how a product response was derived.
type ProductCategory string

const (
	ProductCategoryGeneral    ProductCategory = "GENERAL"
	ProductCategoryDiscounted ProductCategory = "DISCOUNTED"
)

// ProductRequest is the body accepted by the product endpoints.
type ProductRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// ProductResponse is the derived product returned to callers.
// Price is the price actually used for TotalValue, so it is the discounted price after a discount.
type ProductResponse struct {
	ID          *int64          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       float64         `json:"price"`
	Quantity    int             `json:"quantity"`
	TotalValue  float64         `json:"totalValue"`
	Category    ProductCategory `json:"category"`
	Available   bool            `json:"available"`
}

// Product is the row stored in the products table.
type Product struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"`
	Title       string  `gorm:"type:varchar(255);not null;index"`
	Description string  `gorm:"type:text"`
	Price       float64 `gorm:"not null"`
	Quantity    int     `gorm:"not null"`
	TotalValue  float64 `gorm:"column:total_value;not null"`
	Category    string  `gorm:"type:varchar(32);not null"`
	Available   bool    `gorm:"not null"`
}

// TableName pins the table name used by GORM.
func (Product) TableName() string {
	return "products"
}

// FromResponse fills the row from a response entity.
func (p *Product) FromResponse(resp *ProductResponse) {
	if resp.ID != nil {
		p.ID = *resp.ID
	}
	p.Title = resp.Title
	p.Description = resp.Description
	p.Price = resp.Price
	p.Quantity = resp.Quantity
	p.TotalValue = resp.TotalValue
	p.Category = string(resp.Category)
	p.Available = resp.Available
}

// ToResponse rebuilds the response entity from the row.
func (p *Product) ToResponse() *ProductResponse {
	id := p.ID
	return &ProductResponse{
		ID:          &id,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		TotalValue:  p.TotalValue,
		Category:    ProductCategory(p.Category),
		Available:   p.Available,
	}
}
