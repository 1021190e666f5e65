package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mindcheck/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalUploadAndDelete(t *testing.T) {
	root := t.TempDir()
	p := NewLocalProvider(config.StorageConfig{LocalPath: root, LocalURLPrefix: "/exports/"})

	body := "<html>report</html>"
	url, err := p.Upload(context.Background(), "reports/c1/PSY-1.html", strings.NewReader(body), int64(len(body)), "text/html")
	require.NoError(t, err)
	assert.Equal(t, "/exports/reports/c1/PSY-1.html", url)

	data, err := os.ReadFile(filepath.Join(root, "reports", "c1", "PSY-1.html"))
	require.NoError(t, err)
	assert.Equal(t, body, string(data))

	require.NoError(t, p.Delete(context.Background(), "reports/c1/PSY-1.html"))
	_, err = os.Stat(filepath.Join(root, "reports", "c1", "PSY-1.html"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalRejectsEscapingNames(t *testing.T) {
	p := NewLocalProvider(config.StorageConfig{LocalPath: t.TempDir()})
	for _, name := range []string{"../evil.html", "a/../../evil.html", ""} {
		_, err := p.Upload(context.Background(), name, strings.NewReader("x"), 1, "text/html")
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestLocalUnavailable(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	// a regular file where the directory should be
	p := NewLocalProvider(config.StorageConfig{LocalPath: blocker})
	_, err := p.Upload(context.Background(), "reports/a.html", strings.NewReader("x"), 1, "text/html")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestNewSelectsProvider(t *testing.T) {
	p, err := New(config.StorageConfig{Type: "local", LocalPath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalProvider{}, p)

	p, err = New(config.StorageConfig{Type: "minio", MinioEndpoint: "localhost:9000", MinioBucket: "reports"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/reports/reports/c1/PSY-1.html", p.URL("reports/c1/PSY-1.html"))

	_, err = New(config.StorageConfig{Type: "ftp"})
	assert.Error(t, err)
}
