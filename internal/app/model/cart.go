package model

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// CartItem is one cart line: a product for a specific order day with a
// specific addon set. The same product can appear on several lines as long
// as day or addon set differ; lines sharing all three identity parts are
// merged by the cart service instead of duplicated.
type CartItem struct {
	ID        uint     `gorm:"primarykey" json:"id"`
	CartKey   string   `gorm:"uniqueIndex;not null" json:"cart_key"` // UUID, independent of product ID
	UserID    uint     `gorm:"not null;index" json:"user_id"`
	ProductID uint     `gorm:"not null;index" json:"product_id"`
	OrderDay  OrderDay `gorm:"type:varchar(10);not null" json:"order_day"`
	Quantity  int      `gorm:"not null;default:1" json:"quantity"`
	AddonKey  string   `gorm:"index" json:"-"` // canonical sorted addon-ID key, empty for no addons

	// Snapshots taken at add time. A later catalog change must not
	// retroactively alter a line that is already in the cart.
	UnitPrice   float64 `gorm:"not null" json:"unit_price"`
	AddonTotal  float64 `gorm:"default:0" json:"addon_total"`
	ProductName string  `json:"product_name"`
	ImageURL    string  `json:"image_url"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User    User           `gorm:"foreignKey:UserID" json:"-"`
	Product Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Addons  []ProductAddon `gorm:"many2many:cart_item_addons" json:"addons,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// LineTotal is (unit price + addon prices) * quantity, on snapshot values.
func (ci *CartItem) LineTotal() float64 {
	return (ci.UnitPrice + ci.AddonTotal) * float64(ci.Quantity)
}

// AddonSetKey builds the canonical identity key for an addon selection:
// unique IDs, ascending, comma joined. Names never enter the key, so two
// selections compare equal exactly when their ID sets are equal.
func AddonSetKey(addonIDs []uint) string {
	if len(addonIDs) == 0 {
		return ""
	}
	seen := make(map[uint]bool, len(addonIDs))
	ids := make([]uint, 0, len(addonIDs))
	for _, id := range addonIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ",")
}
