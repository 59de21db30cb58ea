package models

const (
	SettingTypeText    = "text"
	SettingTypeJSON    = "json"
	SettingTypeNumber  = "number"
	SettingTypeBoolean = "boolean"
	SettingTypeImage   = "image"

	DefaultSettingGroup = "general"
)

// SettingModel is one site configuration entry addressed by its key.
type SettingModel struct {
	SeqBase
	Key         string `json:"setting_key"   gorm:"column:setting_key;size:100;uniqueIndex;not null"`
	Value       string `json:"setting_value" gorm:"column:setting_value;type:text"`
	Type        string `json:"setting_type"  gorm:"column:setting_type;size:10;not null;default:text"`
	Group       string `json:"setting_group" gorm:"column:setting_group;size:50;not null;default:general;index"`
	Description string `json:"description"   gorm:"size:300"`
	IsPublic    bool   `json:"is_public"     gorm:"not null;default:false"`
}

func (SettingModel) TableName() string { return "settings" }
