package storage

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/mzurek/gpwpulse/internal/alert"
)

var (
	alertsBucket = []byte("alerts")
	metaBucket   = []byte("metadata")
)

var (
	alertsKey  = []byte("all")
	lastRunKey = []byte("last_run")
)

// RunMeta records one completed pipeline run.
type RunMeta struct {
	At           time.Time `json:"at"`
	ArticleCount int       `json:"article_count"`
}

type Store struct {
	db *bolt.DB
}

func NewStore(dbPath string) (*Store, error) {
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{alertsBucket, metaBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveAlerts replaces the full alert list under a single key, so readers
// never see a partially updated list.
func (s *Store) SaveAlerts(alerts []alert.Alert) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(alertsBucket)
		data, err := json.Marshal(alerts)
		if err != nil {
			return err
		}
		return b.Put(alertsKey, data)
	})
}

// LoadAlerts returns the persisted alert list; an empty store yields an
// empty list, not an error.
func (s *Store) LoadAlerts() ([]alert.Alert, error) {
	var alerts []alert.Alert
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(alertsBucket)
		data := b.Get(alertsKey)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &alerts)
	})
	if err != nil {
		return nil, fmt.Errorf("loading alerts: %w", err)
	}
	if alerts == nil {
		alerts = []alert.Alert{}
	}
	return alerts, nil
}

func (s *Store) SaveLastRun(at time.Time, articleCount int) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(metaBucket)
		data, err := json.Marshal(RunMeta{At: at, ArticleCount: articleCount})
		if err != nil {
			return err
		}
		return b.Put(lastRunKey, data)
	})
}

func (s *Store) LastRun() (*RunMeta, error) {
	var meta RunMeta
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(metaBucket)
		data := b.Get(lastRunKey)
		if data == nil {
			return fmt.Errorf("no recorded run")
		}
		return json.Unmarshal(data, &meta)
	})
	if err != nil {
		return nil, err
	}
	return &meta, nil
}
