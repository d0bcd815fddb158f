package approval

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Store keeps the ledger in MySQL
type Store struct {
	db *gorm.DB
}

// gormConfig translates driver errors so a unique index violation surfaces as
// gorm.ErrDuplicatedKey
func gormConfig() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}

// NewStore opens the ledger database and migrates its table
func NewStore(databaseURL string) (*Store, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}

	if err := store.db.AutoMigrate(&EntryModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate tables: %w", err)
	}

	return store, nil
}

// Record adds an entry
func (s *Store) Record(entry *Entry) error {
	if err := validate(entry); err != nil {
		return err
	}

	approved, err := s.IsApproved(entry.RecordID)
	if err != nil {
		return err
	}
	if approved {
		return fmt.Errorf("%w: %s", ErrAlreadyApproved, entry.RecordID)
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	model := &EntryModel{
		ID:         entry.ID,
		RecordID:   entry.RecordID,
		Collection: entry.Collection,
		Kind:       entry.Kind,
		TopicName:  entry.TopicName,
		ApprovedBy: entry.ApprovedBy,
		ApprovedAt: entry.ApprovedAt,
		Confirmed:  entry.Confirmed,
	}

	if err := s.db.Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", ErrAlreadyApproved, entry.RecordID)
		}
		return fmt.Errorf("failed to create approval: %w", err)
	}

	return nil
}

// IsApproved reports whether the record id has an entry
func (s *Store) IsApproved(recordID string) (bool, error) {
	if recordID == "" {
		return false, nil
	}

	var count int64
	if err := s.db.Model(&EntryModel{}).Where("record_id = ?", recordID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check approval: %w", err)
	}
	return count > 0, nil
}

// List returns every entry, newest first
func (s *Store) List() ([]*Entry, error) {
	var models []EntryModel
	if err := s.db.Order("approved_at desc").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list approvals: %w", err)
	}

	entries := make([]*Entry, len(models))
	for i := range models {
		entries[i] = models[i].toEntry()
	}
	return entries, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB from gorm.DB: %w", err)
	}
	return sqlDB.Close()
}
