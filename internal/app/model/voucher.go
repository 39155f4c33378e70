package model

import (
	"time"

	"gorm.io/gorm"
)

// Voucher is a discount code applied at checkout, subject to a minimum
// purchase threshold. The threshold is checked against the live subtotal
// when the voucher is validated AND again when the order is placed.
type Voucher struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Code        string         `gorm:"uniqueIndex;not null;type:varchar(50)" json:"code"`
	Discount    float64        `gorm:"not null" json:"discount"`
	MinPurchase float64        `gorm:"default:0" json:"min_purchase"`
	Active      bool           `gorm:"default:true" json:"active"`
	ExpiresAt   *time.Time     `json:"expires_at,omitempty"`
	UsageLimit  int            `gorm:"default:0" json:"usage_limit"` // 0 means unlimited
	UsedCount   int            `gorm:"default:0" json:"used_count"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Voucher) TableName() string {
	return "vouchers"
}

// Expired reports whether the voucher's expiry has passed at the given time.
func (v *Voucher) Expired(now time.Time) bool {
	return v.ExpiresAt != nil && now.After(*v.ExpiresAt)
}

// Exhausted reports whether the usage limit has been reached.
func (v *Voucher) Exhausted() bool {
	return v.UsageLimit > 0 && v.UsedCount >= v.UsageLimit
}
