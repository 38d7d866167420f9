package models

import (
	"encoding/json"
	"time"
)

// Activity is one change-log row written by the log_activity() trigger.
type Activity struct {
	Idx       int64           `gorm:"column:idx;primaryKey;autoIncrement"`
	Table     string          `gorm:"column:table_name;type:text;not null"`
	Action    string          `gorm:"column:action;type:text;not null"`
	RecordID  *string         `gorm:"column:record_id;type:text"`
	OldData   json.RawMessage `gorm:"column:old_data;type:jsonb"`
	NewData   json.RawMessage `gorm:"column:new_data;type:jsonb"`
	ChangedAt time.Time       `gorm:"column:changed_at;not null;index:ix_activities_changed_at"`
}

func (Activity) TableName() string { return "activities" }
