package backup

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/hr_data_bridge/internal/database"
	"github.com/locvowork/hr_data_bridge/internal/logger"
)

func TestMain(m *testing.M) {
	logger.InitLogging("")
	os.Exit(m.Run())
}

type fakeRunner struct {
	err     error
	lastEnv []string
	args    []string
}

func (f *fakeRunner) Run(_ context.Context, env []string, name string, args ...string) error {
	f.lastEnv = env
	f.args = append([]string{name}, args...)
	if f.err != nil {
		return f.err
	}
	// pg_dump writes to the path after -f.
	for i, a := range args {
		if a == "-f" && i+1 < len(args) {
			return os.WriteFile(args[i+1], []byte("dump-data"), 0o644)
		}
	}
	return nil
}

func testDBConfig() database.Config {
	return database.Config{Host: "localhost", Port: 5432, User: "postgres", Password: "secret", DBName: "hr_bridge"}
}

func TestDumpDatabase(t *testing.T) {
	dir := t.TempDir()
	run := &fakeRunner{}
	svc := NewServiceWithRunner(Config{
		Dir:          dir,
		ManifestPath: filepath.Join(dir, "manifest.log"),
	}, testDBConfig(), run)

	rec, err := svc.DumpDatabase(context.Background())
	require.NoError(t, err)
	assert.True(t, rec.Success)
	assert.Equal(t, "pg_dump", rec.Kind)
	assert.Equal(t, int64(len("dump-data")), rec.SizeBytes)
	assert.Contains(t, rec.Name, "hr_bridge_")

	assert.Contains(t, run.lastEnv, "PGPASSWORD=secret")
	assert.Equal(t, "pg_dump", run.args[0])

	records, err := svc.Manifest()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Success)
	assert.Equal(t, rec.Name, records[0].Name)
}

func TestDumpDatabaseFailureRecorded(t *testing.T) {
	dir := t.TempDir()
	run := &fakeRunner{err: errors.New("pg_dump: connection refused")}
	svc := NewServiceWithRunner(Config{
		Dir:          dir,
		ManifestPath: filepath.Join(dir, "manifest.log"),
	}, testDBConfig(), run)

	rec, err := svc.DumpDatabase(context.Background())
	require.Error(t, err)
	assert.False(t, rec.Success)
	assert.Contains(t, rec.Error, "connection refused")

	records, err := svc.Manifest()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].Success)
}

func TestArchiveDir(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("alpha"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "nested", "b.txt"), []byte("beta"), 0o644))

	dir := t.TempDir()
	svc := NewServiceWithRunner(Config{Dir: dir}, testDBConfig(), &fakeRunner{})

	rec, err := svc.ArchiveDir(context.Background(), src)
	require.NoError(t, err)
	assert.True(t, rec.Success)
	assert.Equal(t, "archive", rec.Kind)
	assert.Greater(t, rec.SizeBytes, int64(0))

	got := readTarGz(t, filepath.Join(dir, rec.Name))
	assert.Equal(t, "alpha", got["a.txt"])
	assert.Equal(t, "beta", got["nested/b.txt"])
}

func readTarGz(t *testing.T, path string) map[string]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	tr := tar.NewReader(gz)

	out := map[string]string{}
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if header.Typeflag != tar.TypeReg {
			continue
		}
		data, err := io.ReadAll(tr)
		require.NoError(t, err)
		out[header.Name] = string(data)
	}
	return out
}

func TestCleanupRemovesExpiredBackups(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "hr_bridge_old.dump")
	fresh := filepath.Join(dir, "hr_bridge_fresh.dump")
	require.NoError(t, os.WriteFile(old, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(fresh, []byte("x"), 0o644))

	stale := time.Now().AddDate(0, 0, -31)
	require.NoError(t, os.Chtimes(old, stale, stale))

	svc := NewServiceWithRunner(Config{Dir: dir, RetentionDays: 30}, testDBConfig(), &fakeRunner{})

	removed, err := svc.Cleanup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	assert.NoFileExists(t, old)
	assert.FileExists(t, fresh)
}

func TestCleanupDisabledWithoutRetention(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "keep.dump")
	require.NoError(t, os.WriteFile(old, []byte("x"), 0o644))
	stale := time.Now().AddDate(-1, 0, 0)
	require.NoError(t, os.Chtimes(old, stale, stale))

	svc := NewServiceWithRunner(Config{Dir: dir}, testDBConfig(), &fakeRunner{})
	removed, err := svc.Cleanup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
	assert.FileExists(t, old)
}
