package source

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainer_String(t *testing.T) {
	tests := []struct {
		container Container
		want      string
	}{
		{JSON, "JSON"},
		{Zip, "Zip"},
		{Unknown, "Unknown"},
		{Container(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.container.String(); got != tt.want {
			t.Errorf("Container(%d).String() = %q, want %q", tt.container, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Container
	}{
		{"structuredData.json", JSON},
		{"RESULT.JSON", JSON},
		{"extract.zip", Zip},
		{"document.pdf", Unknown},
		{"noext", Unknown},
	}

	for _, tt := range tests {
		if got := Detect(tt.filename); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestDetectFromMagic(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Container
	}{
		{"zip", []byte("PK\x03\x04rest"), Zip},
		{"json", []byte(`{"elements": []}`), JSON},
		{"json with whitespace", []byte("\n\t  {}"), JSON},
		{"json with bom", []byte("\xef\xbb\xbf{}"), JSON},
		{"array", []byte(`[1, 2]`), Unknown},
		{"pdf", []byte("%PDF-1.7"), Unknown},
		{"empty", nil, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFromMagic(tt.data))
		})
	}
}

// zipArchive builds an archive holding the given files
func zipArchive(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestFile_Load(t *testing.T) {
	sample := loadSample(t)
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "result")
	require.NoError(t, os.WriteFile(jsonPath, sample, 0o600))

	zipPath := filepath.Join(dir, "result.zip")
	require.NoError(t, os.WriteFile(zipPath, zipArchive(t, map[string][]byte{
		"figures/fileoutpart0.png":      {0x89, 'P', 'N', 'G'},
		"output/structuredData.json":    sample,
		"output/structuredData.json.md": []byte("# not this one"),
	}), 0o600))

	for _, path := range []string{jsonPath, zipPath} {
		payload, err := File{Path: path}.Load(context.Background())
		require.NoError(t, err, path)
		assert.Len(t, payload.Elements, 19, path)
	}
}

func TestFile_LoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := File{Path: filepath.Join(dir, "missing.json")}.Load(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)

	empty := filepath.Join(dir, "empty.zip")
	require.NoError(t, os.WriteFile(empty, zipArchive(t, map[string][]byte{"readme.txt": []byte("hi")}), 0o600))
	_, err = File{Path: empty}.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoStructuredData)

	garbage := filepath.Join(dir, "garbage.bin")
	require.NoError(t, os.WriteFile(garbage, []byte("%PDF-1.4"), 0o600))
	_, err = File{Path: garbage}.Load(context.Background())
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = File{Path: garbage}.Load(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestPayload_IsSource(t *testing.T) {
	var src Source = &Payload{Metadata: map[string]string{"k": "v"}}

	payload, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v", payload.Metadata["k"])
}

func TestRead(t *testing.T) {
	sample := loadSample(t)

	payload, err := Read(bytes.NewReader(sample))
	require.NoError(t, err)
	assert.Len(t, payload.Elements, 19)

	payload, err = Read(bytes.NewReader(zipArchive(t, map[string][]byte{StructuredDataName: sample})))
	require.NoError(t, err)
	assert.Len(t, payload.Elements, 19)

	_, err = Read(bytes.NewReader([]byte("<html></html>")))
	assert.Error(t, err)
}
