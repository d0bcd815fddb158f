package approval

import (
	"time"

	"gorm.io/gorm"
)

// EntryModel is the database model of one approval
type EntryModel struct {
	ID        string         `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time      `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"column:deleted_at;index"`

	RecordID   string    `json:"record_id" gorm:"column:record_id;uniqueIndex;not null;size:64"`
	Collection string    `json:"collection" gorm:"column:collection;not null;size:255"`
	Kind       string    `json:"kind" gorm:"column:kind;size:32"`
	TopicName  string    `json:"topic_name" gorm:"column:topic_name;size:500"`
	ApprovedBy string    `json:"approved_by" gorm:"column:approved_by;not null;size:255"`
	ApprovedAt time.Time `json:"approved_at" gorm:"column:approved_at"`
	Confirmed  bool      `json:"confirmed" gorm:"column:confirmed;default:false"`
}

// TableName sets the table name for GORM
func (EntryModel) TableName() string {
	return "approvals"
}

func (m *EntryModel) toEntry() *Entry {
	return &Entry{
		ID:         m.ID,
		RecordID:   m.RecordID,
		Collection: m.Collection,
		Kind:       m.Kind,
		TopicName:  m.TopicName,
		ApprovedBy: m.ApprovedBy,
		ApprovedAt: m.ApprovedAt,
		Confirmed:  m.Confirmed,
	}
}
