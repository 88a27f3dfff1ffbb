package summarizer

import "testing"

func TestDecodeTranscript(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      []byte
		text     string
		encoding string
	}{
		{name: "utf-8", raw: []byte("namaste, club"), text: "namaste, club", encoding: "utf-8"},
		{name: "utf-8 with bom", raw: append([]byte{0xEF, 0xBB, 0xBF}, "hello"...), text: "hello", encoding: "utf-8-sig"},
		{name: "windows-1252", raw: []byte{0x93, 'h', 'i', 0x94, ' ', 0xE9}, text: "\u201chi\u201d \u00e9", encoding: "windows-1252"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			text, encoding, err := decodeTranscript(tc.raw)
			if err != nil {
				t.Fatalf("decodeTranscript() error = %v", err)
			}
			if text != tc.text || encoding != tc.encoding {
				t.Fatalf("decodeTranscript() = %q, %q; want %q, %q", text, encoding, tc.text, tc.encoding)
			}
		})
	}
}
