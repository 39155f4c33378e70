package model

import (
	"time"

	"gorm.io/gorm"
)

// Jenis is the top-level product category of the bakery catalog.
type Jenis struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"uniqueIndex;not null" json:"name"`
	NameEn    string         `json:"name_en"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	SubJenis []SubJenis `gorm:"foreignKey:JenisID" json:"sub_jenis,omitempty"`
}

func (Jenis) TableName() string {
	return "jenis"
}

// SubJenis is a sub-category under one Jenis.
type SubJenis struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	JenisID   uint           `gorm:"index;not null" json:"jenis_id"`
	Name      string         `gorm:"not null" json:"name"`
	NameEn    string         `json:"name_en"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Jenis Jenis `gorm:"foreignKey:JenisID" json:"-"`
}

func (SubJenis) TableName() string {
	return "sub_jenis"
}
