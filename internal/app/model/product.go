package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// OrderDay is the weekday a customer selects for fulfillment. Products are
// only orderable on the days listed in their AvailableDays column.
type OrderDay string

const (
	DayMonday    OrderDay = "monday"
	DayTuesday   OrderDay = "tuesday"
	DayWednesday OrderDay = "wednesday"
	DayThursday  OrderDay = "thursday"
	DayFriday    OrderDay = "friday"
	DaySaturday  OrderDay = "saturday"
	DaySunday    OrderDay = "sunday"
)

var orderDays = map[OrderDay]bool{
	DayMonday:    true,
	DayTuesday:   true,
	DayWednesday: true,
	DayThursday:  true,
	DayFriday:    true,
	DaySaturday:  true,
	DaySunday:    true,
}

// ValidOrderDay reports whether d names a weekday.
func ValidOrderDay(d OrderDay) bool {
	return orderDays[d]
}

type Product struct {
	ID            uint     `gorm:"primarykey" json:"id"`
	Name          string   `gorm:"not null" json:"name"`    // Indonesian display name
	NameEn        string   `json:"name_en"`                 // English display name
	Description   string   `gorm:"type:text" json:"description"`
	DescriptionEn string   `gorm:"type:text" json:"description_en"`
	Price         float64  `gorm:"not null" json:"price"`
	DiscountPrice *float64 `json:"discount_price,omitempty"`
	StockQuantity int      `gorm:"default:0" json:"stock_quantity"`
	AvailableDays string   `gorm:"not null" json:"available_days"` // comma-joined lowercase weekdays
	ImageURL      string   `json:"image_url"`
	JenisID       *uint    `gorm:"index" json:"jenis_id,omitempty"`
	SubJenisID    *uint    `gorm:"index" json:"sub_jenis_id,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Jenis      *Jenis         `gorm:"foreignKey:JenisID" json:"jenis,omitempty"`
	SubJenis   *SubJenis      `gorm:"foreignKey:SubJenisID" json:"sub_jenis,omitempty"`
	Addons     []ProductAddon `gorm:"foreignKey:ProductID" json:"addons,omitempty"`
	CartItems  []CartItem     `gorm:"foreignKey:ProductID" json:"-"`
	OrderItems []OrderItem    `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// OnDiscount reports whether the discount price is set and strictly below
// the base price. A discount at or above base price is ignored.
func (p *Product) OnDiscount() bool {
	return p.DiscountPrice != nil && *p.DiscountPrice < p.Price
}

// EffectivePrice is the price a cart line snapshots at add time.
func (p *Product) EffectivePrice() float64 {
	if p.OnDiscount() {
		return *p.DiscountPrice
	}
	return p.Price
}

// AvailableOn reports whether the product can be ordered for the given day.
func (p *Product) AvailableOn(day OrderDay) bool {
	for _, d := range strings.Split(p.AvailableDays, ",") {
		if OrderDay(strings.TrimSpace(d)) == day {
			return true
		}
	}
	return false
}

// SetAvailableDays stores the day set as the comma-joined column value.
func (p *Product) SetAvailableDays(days []OrderDay) {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, string(d))
	}
	p.AvailableDays = strings.Join(parts, ",")
}
