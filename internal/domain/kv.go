package domain

import "time"

// KVEntry one persisted storage key when the store runs on a SQL backend
type KVEntry struct {
	Namespace string    `gorm:"primaryKey;size:64" json:"namespace"`
	Key       string    `gorm:"column:kv_key;primaryKey;size:128" json:"key"`
	Value     []byte    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (KVEntry) TableName() string {
	return "kv_entry"
}

var Tables = []interface{}{
	&KVEntry{},
}
