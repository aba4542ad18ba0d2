package models

import "time"

// Setting keys read by the pricing engine
const (
	SettingDeliveryFees = "delivery_fees"
	SettingExpressFee   = "express_fee"
	SettingCutBendFee   = "cut_bend_fee"
)

// Setting is a JSON-valued configuration entry edited from the admin console
type Setting struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	ValueJSON string    `gorm:"column:value_json;type:text;not null" json:"value_json"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Setting model
func (Setting) TableName() string {
	return "settings"
}
