package models

import "time"

// StoreEntry 共享文档存储（键值对，后写覆盖）
type StoreEntry struct {
	Key           string    `gorm:"column:store_key;primarykey;size:191" json:"key"`
	Value         string    `gorm:"type:text;not null" json:"value"`
	SchemaVersion int       `gorm:"not null;default:1" json:"schema_version"`
	UpdatedAt     time.Time `gorm:"index" json:"updated_at"`
}

// TableName 指定表名
func (StoreEntry) TableName() string {
	return "store_entries"
}
