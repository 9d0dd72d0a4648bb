// Package store persists the fingerprint hash index in a single SQLite
// file, opened through GORM exactly as the rest of this stack's database
// layer would open a Postgres connection.
package store

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// HashEntry is a single row of the inverted index: one combinatorial hash,
// the recording it came from, and the anchor frame offset within that
// recording. The hash column carries a secondary index so chunked lookups
// stay fast as the corpus grows.
type HashEntry struct {
	ID          uint   `gorm:"primaryKey"`
	Hash        string `gorm:"index;size:20;not null"`
	RecordingID string `gorm:"index;not null"`
	AnchorFrame int    `gorm:"not null"`
}

// Recording is the observability-only metadata row kept alongside the hash
// index: one row per ingested known-fraud sample, used by --check rather
// than by the query path.
type Recording struct {
	ID        string `gorm:"primaryKey"`
	Path      string `gorm:"not null"`
	Category  string
	ModTime   time.Time
	SizeBytes int64
	HashCount int
}

// Store wraps the GORM handle to the fingerprint database file.
type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

// Open creates or attaches to the SQLite file at path and ensures its
// schema is current.
func Open(path string, log *zap.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}

	if err := db.AutoMigrate(&HashEntry{}, &Recording{}); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}

	return &Store{db: db, log: log}, nil
}

// Close releases the underlying SQLite file handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("store: underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// ReplaceRecording deletes any existing hash rows and metadata for
// recordingID, then inserts entries and meta as a single write. Callers
// (ingest) are responsible for serializing calls to ReplaceRecording so
// writes never interleave.
func (s *Store) ReplaceRecording(recordingID string, entries []HashEntry, meta Recording) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recording_id = ?", recordingID).Delete(&HashEntry{}).Error; err != nil {
			return fmt.Errorf("store: delete existing hashes for %s: %w", recordingID, err)
		}
		if err := tx.Where("id = ?", recordingID).Delete(&Recording{}).Error; err != nil {
			return fmt.Errorf("store: delete existing recording %s: %w", recordingID, err)
		}

		meta.ID = recordingID
		meta.HashCount = len(entries)
		if err := tx.Create(&meta).Error; err != nil {
			return fmt.Errorf("store: insert recording %s: %w", recordingID, err)
		}

		if len(entries) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(entries, 500).Error; err != nil {
			return fmt.Errorf("store: insert hashes for %s: %w", recordingID, err)
		}
		return nil
	})
}

// lookupChunkSize bounds how many hash values go into a single IN clause,
// keeping the generated SQL's parameter list small regardless of how many
// hashes a query recording produced.
const lookupChunkSize = 500

// Lookup returns every HashEntry whose Hash matches one of hashes, querying
// in bounded-size chunks. Repeated values in hashes are probed once, so each
// matching row appears once in the result.
func (s *Store) Lookup(hashes []string) ([]HashEntry, error) {
	seen := make(map[string]bool, len(hashes))
	unique := make([]string, 0, len(hashes))
	for _, h := range hashes {
		if !seen[h] {
			seen[h] = true
			unique = append(unique, h)
		}
	}
	hashes = unique

	var all []HashEntry
	for start := 0; start < len(hashes); start += lookupChunkSize {
		end := start + lookupChunkSize
		if end > len(hashes) {
			end = len(hashes)
		}
		chunk := hashes[start:end]

		var rows []HashEntry
		if err := s.db.Where("hash IN ?", chunk).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("store: lookup chunk [%d:%d]: %w", start, end, err)
		}
		all = append(all, rows...)
	}
	return all, nil
}

// Recordings returns every recording's metadata, used by --check.
func (s *Store) Recordings() ([]Recording, error) {
	var rows []Recording
	if err := s.db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("store: list recordings: %w", err)
	}
	return rows, nil
}

// RecordingCategory returns the stored category for a recording ID, used
// when translating a match back into a scam category.
func (s *Store) RecordingCategory(recordingID string) (string, error) {
	var rec Recording
	if err := s.db.Where("id = ?", recordingID).First(&rec).Error; err != nil {
		return "", fmt.Errorf("store: recording %s: %w", recordingID, err)
	}
	return rec.Category, nil
}
