// Package backup automates database dumps and filesystem archives with
// a JSON-lines manifest and age-based retention.
package backup

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/locvowork/hr_data_bridge/internal/database"
	"github.com/locvowork/hr_data_bridge/internal/logger"
)

// Config drives the backup service.
type Config struct {
	// Dir is where dump and archive files land.
	Dir string
	// RetentionDays bounds how long backups are kept. Zero disables
	// cleanup.
	RetentionDays int
	// ManifestPath is the JSON-lines manifest file. Empty means no
	// manifest is written.
	ManifestPath string
}

// Record is one manifest entry, one JSON object per line.
type Record struct {
	Name       string    `json:"name"`
	Kind       string    `json:"kind"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	DurationMs int64     `json:"duration_ms"`
	SizeBytes  int64     `json:"size_bytes"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
}

// CommandRunner abstracts pg_dump execution so the service can be
// tested without a PostgreSQL server.
type CommandRunner interface {
	Run(ctx context.Context, env []string, name string, args ...string) error
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, env []string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), env...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Service produces backups for the primary store and arbitrary
// directories.
type Service struct {
	cfg Config
	db  database.Config
	run CommandRunner
	now func() time.Time
}

func NewService(cfg Config, db database.Config) *Service {
	return NewServiceWithRunner(cfg, db, execRunner{})
}

// NewServiceWithRunner injects a command runner, mainly for tests.
func NewServiceWithRunner(cfg Config, db database.Config, run CommandRunner) *Service {
	return &Service{cfg: cfg, db: db, run: run, now: time.Now}
}

// DumpDatabase runs pg_dump in custom format against the primary store
// and records the result in the manifest.
func (s *Service) DumpDatabase(ctx context.Context) (*Record, error) {
	start := s.now().UTC()
	name := fmt.Sprintf("%s_%s.dump", s.db.DBName, start.Format("20060102_150405"))
	path := filepath.Join(s.cfg.Dir, name)

	rec := &Record{Name: name, Kind: "pg_dump", StartedAt: start}
	err := s.runDump(ctx, path)
	s.finish(ctx, rec, path, err)
	if err != nil {
		return rec, fmt.Errorf("failed to dump database %s: %w", s.db.DBName, err)
	}
	return rec, nil
}

func (s *Service) runDump(ctx context.Context, path string) error {
	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return err
	}
	env := []string{"PGPASSWORD=" + s.db.Password}
	return s.run.Run(ctx, env, "pg_dump",
		"-h", s.db.Host,
		"-p", strconv.Itoa(s.db.Port),
		"-U", s.db.User,
		"-d", s.db.DBName,
		"-F", "c",
		"-f", path,
	)
}

// ArchiveDir packs srcDir into a tar.gz under the backup directory and
// records the result in the manifest.
func (s *Service) ArchiveDir(ctx context.Context, srcDir string) (*Record, error) {
	start := s.now().UTC()
	name := fmt.Sprintf("%s_%s.tar.gz", filepath.Base(srcDir), start.Format("20060102_150405"))
	path := filepath.Join(s.cfg.Dir, name)

	rec := &Record{Name: name, Kind: "archive", StartedAt: start}
	err := writeTarGz(srcDir, path)
	s.finish(ctx, rec, path, err)
	if err != nil {
		return rec, fmt.Errorf("failed to archive %s: %w", srcDir, err)
	}
	return rec, nil
}

func (s *Service) finish(ctx context.Context, rec *Record, path string, err error) {
	rec.FinishedAt = s.now().UTC()
	rec.DurationMs = rec.FinishedAt.Sub(rec.StartedAt).Milliseconds()
	if err != nil {
		rec.Error = err.Error()
		logger.ErrorLog(ctx, "Backup %s failed: %v", rec.Name, err)
	} else {
		rec.Success = true
		if info, statErr := os.Stat(path); statErr == nil {
			rec.SizeBytes = info.Size()
		}
		logger.InfoLog(ctx, "Backup %s completed (%d bytes in %dms)", rec.Name, rec.SizeBytes, rec.DurationMs)
	}
	if mErr := s.appendManifest(rec); mErr != nil {
		logger.ErrorLog(ctx, "Failed to write backup manifest: %v", mErr)
	}
}

func (s *Service) appendManifest(rec *Record) error {
	if s.cfg.ManifestPath == "" {
		return nil
	}
	f, err := os.OpenFile(s.cfg.ManifestPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(rec)
}

// Cleanup removes backup files older than the retention window and
// returns how many were deleted.
func (s *Service) Cleanup(ctx context.Context) (int, error) {
	if s.cfg.RetentionDays <= 0 {
		return 0, nil
	}
	cutoff := s.now().AddDate(0, 0, -s.cfg.RetentionDays)

	entries, err := os.ReadDir(s.cfg.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read backup directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(s.cfg.Dir, entry.Name())
		if err := os.Remove(path); err != nil {
			logger.ErrorLog(ctx, "Failed to remove expired backup %s: %v", path, err)
			continue
		}
		removed++
	}
	if removed > 0 {
		logger.InfoLog(ctx, "Removed %d expired backups older than %d days", removed, s.cfg.RetentionDays)
	}
	return removed, nil
}

// Manifest reads all manifest records, oldest first.
func (s *Service) Manifest() ([]Record, error) {
	f, err := os.Open(s.cfg.ManifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var records []Record
	dec := json.NewDecoder(f)
	for {
		var rec Record
		if err := dec.Decode(&rec); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("failed to parse backup manifest: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// writeTarGz packs the directory tree rooted at srcDir into a gzipped
// tarball at dst. Entry names are relative to srcDir.
func writeTarGz(srcDir, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	err = filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		tw.Close()
		gz.Close()
		return err
	}

	if err := tw.Close(); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}
	return out.Close()
}
