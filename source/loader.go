// Package source reads program text from files and streams, decoding
// legacy encodings to UTF-8.
package source

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"abapsim/errors"
)

const (
	// EncodingUTF8 is the default; a leading byte order mark is dropped.
	EncodingUTF8 = "utf-8"
	// EncodingAuto keeps valid UTF-8 and decodes anything else as Shift-JIS.
	EncodingAuto = "auto"
)

// Stdin is the path that reads from standard input
const Stdin = "-"

// LoadFile reads path (or stdin for "-") and decodes it
func LoadFile(path, encodingName string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == Stdin {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", errors.WrapError(err, errors.CodeSourceRead, "failed to read source").
			WithContext("path", path)
	}
	text, err := Decode(data, encodingName)
	if err != nil {
		return "", fmt.Errorf("encoding error in %s: %w", path, err)
	}
	return text, nil
}

// Load reads r to the end and decodes it
func Load(r io.Reader, encodingName string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.WrapError(err, errors.CodeSourceRead, "failed to read source")
	}
	return Decode(data, encodingName)
}

// Decode converts data in the named encoding to a UTF-8 string. Names are
// resolved through the WHATWG index (shift_jis, windows-1252, euc-jp, ...).
func Decode(data []byte, encodingName string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(encodingName))
	switch name {
	case "", EncodingUTF8, "utf8":
		return decodeWith(data, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	case EncodingAuto:
		if utf8.Valid(data) {
			return decodeWith(data, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
		}
		return decodeWith(data, japanese.ShiftJIS.NewDecoder())
	}

	enc, err := Lookup(name)
	if err != nil {
		return "", err
	}
	return decodeWith(data, enc.NewDecoder())
}

// Lookup resolves an encoding name
func Lookup(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "latin1", "latin-1", "iso-8859-1":
		// htmlindex maps these to windows-1252
		return charmap.ISO8859_1, nil
	case "sjis", "shiftjis":
		return japanese.ShiftJIS, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, errors.NewValidationError(errors.CodeSourceRead,
			fmt.Sprintf("unsupported encoding %q", name)).Wrap(err)
	}
	return enc, nil
}

func decodeWith(data []byte, t transform.Transformer) (string, error) {
	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), t))
	if err != nil {
		return "", fmt.Errorf("failed to decode: %w", err)
	}
	return string(out), nil
}
