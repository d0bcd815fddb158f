// Package approval is the ledger of approved records. A record id is approved
// at most once, across process restarts when backed by MySQL.
package approval

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ethanbaker/hq-console/pkg/utils"
	"github.com/go-sql-driver/mysql"
)

// ErrAlreadyApproved is returned when a record id already has a ledger entry
var ErrAlreadyApproved = errors.New("record already approved")

// Entry is one approval written to the remote store
type Entry struct {
	ID         string    `json:"id"`
	RecordID   string    `json:"record_id"`
	Collection string    `json:"collection"`
	Kind       string    `json:"kind"`
	TopicName  string    `json:"topic_name"`
	ApprovedBy string    `json:"approved_by"`
	ApprovedAt time.Time `json:"approved_at"`
	Confirmed  bool      `json:"confirmed"`
}

// StoreInterface is implemented by the MySQL and in-memory ledgers
type StoreInterface interface {
	// Record adds an entry, failing with ErrAlreadyApproved for a known record id
	Record(entry *Entry) error

	// IsApproved reports whether the record id has an entry
	IsApproved(recordID string) (bool, error)

	// List returns every entry, newest first
	List() ([]*Entry, error)

	Close() error
}

func validate(entry *Entry) error {
	if entry == nil || entry.RecordID == "" {
		return fmt.Errorf("record_id cannot be empty")
	}
	if entry.ApprovedBy == "" {
		return fmt.Errorf("approved_by cannot be empty")
	}
	return nil
}

// NewFromConfig opens the MySQL ledger when MYSQL_DATABASE is set and falls
// back to an in-memory ledger otherwise
func NewFromConfig(cfg *utils.Config) (StoreInterface, error) {
	dbConfig := mysql.Config{
		User:      cfg.Get("MYSQL_USER"),
		Passwd:    cfg.Get("MYSQL_ROOT_PASSWORD"),
		Net:       "tcp",
		Addr:      fmt.Sprintf("%s:%s", cfg.Get("MYSQL_HOST"), cfg.Get("MYSQL_PORT")),
		DBName:    cfg.Get("MYSQL_DATABASE"),
		ParseTime: true,
	}

	if dbConfig.DBName == "" {
		log.Println("[APPROVAL]: Warning, MYSQL_DATABASE not set, using in-memory store (approvals will not persist across restarts)")
		return NewInMemoryStore(), nil
	}

	return NewStore(dbConfig.FormatDSN())
}
