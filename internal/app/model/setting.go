package model

import "time"

// StoreSetting is the single settings row for the shop. Closed gates every
// cart mutation and checkout.
type StoreSetting struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	Closed        bool      `gorm:"default:false" json:"closed"`
	ClosedMessage string    `json:"closed_message"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (StoreSetting) TableName() string {
	return "store_settings"
}
