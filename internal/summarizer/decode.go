package summarizer

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// MinTranscriptLength is the shortest accepted transcript, in characters after trimming.
const MinTranscriptLength = 100

// ErrTranscriptTooShort is returned for files below MinTranscriptLength.
var ErrTranscriptTooShort = errors.New("summarizer: transcript too short")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeTranscript returns the text of raw and the encoding it was read with:
// UTF-8, UTF-8 with a byte order mark, or Windows-1252 as the fallback.
func decodeTranscript(raw []byte) (string, string, error) {
	if bytes.HasPrefix(raw, utf8BOM) && utf8.Valid(raw[len(utf8BOM):]) {
		return string(raw[len(utf8BOM):]), "utf-8-sig", nil
	}
	if utf8.Valid(raw) {
		return string(raw), "utf-8", nil
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return "", "", fmt.Errorf("decode transcript: %w", err)
	}
	return string(decoded), "windows-1252", nil
}
