package source

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
)

// Container identifies how an element stream is packaged
type Container int

const (
	// Unknown indicates an unrecognized container
	Unknown Container = iota
	// JSON indicates a bare structuredData.json document
	JSON
	// Zip indicates a zip archive holding structuredData.json
	Zip
)

// String returns the string representation of the container
func (c Container) String() string {
	switch c {
	case JSON:
		return "JSON"
	case Zip:
		return "Zip"
	default:
		return "Unknown"
	}
}

// Detect determines the container from a filename extension
func Detect(filename string) Container {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return JSON
	case ".zip":
		return Zip
	default:
		return Unknown
	}
}

// DetectFromMagic checks the leading bytes of the data. It is more
// reliable than the extension since services often omit one.
func DetectFromMagic(data []byte) Container {
	if len(data) >= 4 && data[0] == 0x50 && data[1] == 0x4B && data[2] == 0x03 && data[3] == 0x04 {
		return Zip
	}

	trimmed := bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	trimmed = bytes.TrimLeft(trimmed, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return JSON
	}
	return Unknown
}

// Read decodes an element stream from r, which may hold either the JSON
// document or a zip archive containing it
func Read(r io.Reader) (*Payload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading element stream: %w", err)
	}
	return decodeBytes(data)
}

// decodeBytes decodes data according to its detected container
func decodeBytes(data []byte) (*Payload, error) {
	switch DetectFromMagic(data) {
	case Zip:
		return decodeZip(bytes.NewReader(data), int64(len(data)))
	case JSON:
		return Decode(bytes.NewReader(data))
	}
	return nil, fmt.Errorf("source: unrecognized content (%d bytes)", len(data))
}

// decodeZip finds structuredData.json in the archive, at the root or in
// any folder, and decodes it
func decodeZip(r io.ReaderAt, size int64) (*Payload, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}

	for _, f := range zr.File {
		if f.FileInfo().IsDir() || path.Base(f.Name) != StructuredDataName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", f.Name, err)
		}
		payload, err := Decode(rc)
		rc.Close()
		return payload, err
	}
	return nil, ErrNoStructuredData
}
