// Package ingest walks a corpus directory, fingerprints every audio file in
// parallel, and writes each recording's hash set into the store under a
// single-writer discipline.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/scamguard/fpengine/internal/audio"
	"github.com/scamguard/fpengine/internal/category"
	"github.com/scamguard/fpengine/internal/config"
	"github.com/scamguard/fpengine/internal/fingerprint"
	"github.com/scamguard/fpengine/internal/logger"
	"github.com/scamguard/fpengine/internal/peaks"
	"github.com/scamguard/fpengine/internal/spectrogram"
	"github.com/scamguard/fpengine/internal/store"
)

// progressEvery controls how often a build reports progress, per file
// count, matching the cadence named for the ingest CLI.
const progressEvery = 10

// ErrStoreUnavailable wraps any error from a write to the index, per the
// same propagate-unchanged contract queries use: ingest aborts the current
// batch rather than silently continuing against a broken index.
var ErrStoreUnavailable = errors.New("ingest: fingerprint store unavailable")

// Report summarizes one ingest run.
type Report struct {
	FilesProcessed int
	FilesSkipped   int
}

// Build walks root (skipping any directory named in exclude), fingerprints
// every supported audio file, and replaces that file's rows in st. A
// per-file decode or hashing failure is logged and skipped; it never aborts
// the run. A write failure against st is different: the index itself is
// unavailable, so Build stops and returns ErrStoreUnavailable, leaving the
// recordings already committed by prior ReplaceRecording calls in place.
// Files are fingerprinted across a worker pool sized to runtime.NumCPU, but
// writes to st are serialized in file-discovery order so the single-writer
// discipline on the index holds.
func Build(ctx context.Context, st *store.Store, root string, exclude map[string]bool, cats category.Mapping, cfg config.FingerprintConfig, log *zap.Logger) (Report, error) {
	files, err := discover(root, exclude)
	if err != nil {
		return Report{}, fmt.Errorf("ingest: discover %s: %w", root, err)
	}

	type job struct {
		path string
		info os.FileInfo
	}
	type fingerprinted struct {
		job
		hashes []fingerprint.Hash
		err    error
	}

	jobs := make(chan job)
	results := make(chan fingerprinted)

	var wg sync.WaitGroup
	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				select {
				case <-ctx.Done():
					results <- fingerprinted{job: j, err: ctx.Err()}
					continue
				default:
				}

				hashes, err := fingerprintOne(j.path, cfg)
				results <- fingerprinted{job: j, hashes: hashes, err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		defer close(jobs)
		for _, f := range files {
			select {
			case <-ctx.Done():
				return
			case jobs <- job{path: f.path, info: f.info}:
			}
		}
	}()

	byPath := make(map[string]fingerprinted, len(files))
	for r := range results {
		byPath[r.path] = r
	}

	var report Report
	for i, f := range files {
		r := byPath[f.path]
		recordingID := filepath.Base(f.path)

		if r.err != nil {
			log.Warn("skipping file after fingerprint error",
				logger.WithRecordingID(recordingID), zap.Error(r.err))
			report.FilesSkipped++
			continue
		}

		entries := make([]store.HashEntry, len(r.hashes))
		for hi, h := range r.hashes {
			entries[hi] = store.HashEntry{
				Hash:        h.Value,
				RecordingID: recordingID,
				AnchorFrame: h.AnchorFrame,
			}
		}

		meta := store.Recording{
			Path:      f.path,
			Category:  cats.CategoryOf(recordingID),
			ModTime:   modTime(f.info),
			SizeBytes: f.info.Size(),
		}

		if err := st.ReplaceRecording(recordingID, entries, meta); err != nil {
			log.Error("aborting batch after store write error",
				logger.WithRecordingID(recordingID), zap.Error(err))
			return report, fmt.Errorf("ingest: write %s: %w: %v", recordingID, ErrStoreUnavailable, err)
		}

		report.FilesProcessed++
		log.Debug("recording committed",
			logger.WithRecordingID(recordingID), logger.WithHashCount(len(entries)))
		if (i+1)%progressEvery == 0 {
			log.Info("ingest progress",
				zap.Int("processed", i+1), zap.Int("total", len(files)))
		}
	}

	return report, nil
}

func fingerprintOne(path string, cfg config.FingerprintConfig) ([]fingerprint.Hash, error) {
	signal, err := audio.Load(path)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if len(signal.Samples) == 0 {
		return nil, nil
	}

	specDB := spectrogram.Compute(signal.Samples, cfg.Spectrogram)
	detected := peaks.Pick(specDB, cfg.Spectrogram.AmpMin)
	return fingerprint.Generate(detected, cfg.Fingerprint), nil
}

type discoveredFile struct {
	path string
	info os.FileInfo
}

// discover enumerates audio files under root in a stable (lexicographic)
// order, skipping any directory whose name is in exclude.
func discover(root string, exclude map[string]bool) ([]discoveredFile, error) {
	var files []discoveredFile

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && exclude[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !audio.IsSupported(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		files = append(files, discoveredFile{path: path, info: info})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].path < files[j].path
	})
	return files, nil
}

func modTime(info os.FileInfo) time.Time {
	if info == nil {
		return time.Time{}
	}
	return info.ModTime()
}
