package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"abapsim/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		encoding string
		want     string
	}{
		{"plain utf-8", []byte("WRITE 'x'."), "", "WRITE 'x'."},
		{"utf-8 bom dropped", []byte("\xEF\xBB\xBFWRITE 'x'."), EncodingUTF8, "WRITE 'x'."},
		{"latin1", []byte("WRITE 'caf\xE9'."), "latin1", "WRITE 'café'."},
		{"windows-1252", []byte("WRITE '\x80'."), "windows-1252", "WRITE '€'."},
		{"shift_jis", []byte("WRITE '\x82\xA0'."), "shift_jis", "WRITE 'あ'."},
		{"auto keeps utf-8", []byte("WRITE 'あ'."), EncodingAuto, "WRITE 'あ'."},
		{"auto falls back to shift_jis", []byte("WRITE '\x82\xA0'."), EncodingAuto, "WRITE 'あ'."},
		{"names are case insensitive", []byte("WRITE 'caf\xE9'."), "ISO-8859-1", "WRITE 'café'."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.data, tt.encoding)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeUnknownEncoding(t *testing.T) {
	_, err := Decode([]byte("x"), "klingon")
	require.Error(t, err)
	execErr, ok := errors.AsExecutionError(err)
	require.True(t, ok)
	assert.Equal(t, errors.CodeSourceRead, execErr.Code)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "p.abap")
	require.NoError(t, os.WriteFile(path, []byte("WRITE 'caf\xE9'."), 0o644))

	text, err := LoadFile(path, "latin1")
	require.NoError(t, err)
	assert.Equal(t, "WRITE 'café'.", text)

	_, err = LoadFile(filepath.Join(dir, "missing.abap"), "")
	require.Error(t, err)
	execErr, ok := errors.AsExecutionError(err)
	require.True(t, ok)
	assert.Equal(t, path[:len(dir)]+string(filepath.Separator)+"missing.abap", execErr.Context["path"])
}

func TestLoad(t *testing.T) {
	text, err := Load(strings.NewReader("DATA: x TYPE i."), "")
	require.NoError(t, err)
	assert.Equal(t, "DATA: x TYPE i.", text)
}
