package domain

import (
	"time"
)

// Unit is the sale unit of a product
type Unit string

const (
	UnitKg    Unit = "kg"
	UnitLb    Unit = "lb"
	UnitPiece Unit = "piece"
	UnitDozen Unit = "dozen"
	UnitGram  Unit = "gram"
	UnitLiter Unit = "liter"
)

// Category classifies a product
type Category string

const (
	CategoryVegetables Category = "vegetables"
	CategoryFruits     Category = "fruits"
	CategoryGrains     Category = "grains"
	CategoryDairy      Category = "dairy"
	CategoryMeat       Category = "meat"
	CategoryOther      Category = "other"
)

var validUnits = map[Unit]bool{
	UnitKg: true, UnitLb: true, UnitPiece: true,
	UnitDozen: true, UnitGram: true, UnitLiter: true,
}

var validCategories = map[Category]bool{
	CategoryVegetables: true, CategoryFruits: true, CategoryGrains: true,
	CategoryDairy: true, CategoryMeat: true, CategoryOther: true,
}

// Ratings is a product's aggregated customer rating
type Ratings struct {
	Average float64
	Count   int
}

// Product represents the product domain entity
type Product struct {
	ID          uint
	Name        string
	Price       float64
	Unit        Unit
	Stock       int
	Description string
	Category    Category
	ImageURL    string
	IsAvailable bool
	IsFeatured  bool
	Discount    float64
	Origin      string
	Tags        []string
	Ratings     Ratings
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate validates the product entity
func (p *Product) Validate() error {
	if p.Name == "" {
		return ErrNameRequired
	}
	if len(p.Name) > 100 {
		return ErrNameTooLong
	}
	if p.Price < 0 {
		return ErrNegativePrice
	}
	if !validUnits[p.Unit] {
		return ErrInvalidUnit
	}
	if p.Stock < 0 {
		return ErrNegativeStock
	}
	if len(p.Description) > 500 {
		return ErrDescriptionTooLong
	}
	if !validCategories[p.Category] {
		return ErrInvalidCategory
	}
	if p.Discount < 0 || p.Discount > 100 {
		return ErrInvalidDiscount
	}
	if len(p.Origin) > 100 {
		return ErrOriginTooLong
	}
	if p.Ratings.Average < 0 || p.Ratings.Average > 5 || p.Ratings.Count < 0 {
		return ErrInvalidRating
	}
	return nil
}

// NewProduct creates a new product with validation. Availability is derived
// from the initial stock so the stock/availability invariant holds from birth.
func NewProduct(name string, price float64, unit Unit, stock int, category Category) (*Product, error) {
	if unit == "" {
		unit = UnitKg
	}
	if category == "" {
		category = CategoryVegetables
	}

	product := &Product{
		Name:        name,
		Price:       price,
		Unit:        unit,
		Stock:       stock,
		Category:    category,
		IsAvailable: stock > 0,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := product.Validate(); err != nil {
		return nil, err
	}

	return product, nil
}

// FinalPrice returns the price after discount
func (p *Product) FinalPrice() float64 {
	if p.Discount > 0 {
		return p.Price - (p.Price * p.Discount / 100)
	}
	return p.Price
}

// InStock reports whether any units remain
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// ApplyDecrease removes quantity units of stock, flipping availability off
// when stock hits zero. Fails without mutation if stock is insufficient.
func (p *Product) ApplyDecrease(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if p.Stock < quantity {
		return NewInsufficientStock(p.Name, p.Stock, quantity)
	}
	p.Stock -= quantity
	if p.Stock == 0 {
		p.IsAvailable = false
	}
	p.UpdatedAt = time.Now()
	return nil
}

// ApplyIncrease adds quantity units of stock, flipping availability back on
func (p *Product) ApplyIncrease(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	p.Stock += quantity
	if p.Stock > 0 {
		p.IsAvailable = true
	}
	p.UpdatedAt = time.Now()
	return nil
}
