package model

import (
	"time"

	"gorm.io/gorm"
)

// ProductAddon is an optional, separately priced modifier a customer can
// attach to a cart line. Addons are independent toggles; there is no
// mutual exclusion between them.
type ProductAddon struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	ProductID       uint           `gorm:"index;not null" json:"product_id"`
	Name            string         `gorm:"not null" json:"name"`
	NameEn          string         `json:"name_en"`
	AdditionalPrice float64        `gorm:"default:0" json:"additional_price"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (ProductAddon) TableName() string {
	return "product_addons"
}
