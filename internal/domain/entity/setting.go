package entity

import "time"

// SettingKeyGSTRate holds the GST percentage applied to order subtotals
const SettingKeyGSTRate = "gst_rate"

// Setting is one row of the store's key/value settings table
type Setting struct {
	Key       string    `gorm:"size:100;primaryKey" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}
