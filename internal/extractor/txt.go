package extractor

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ExtractTXT decodes a transcript. Apart from the byte-order mark, the
// charset and line endings the text is returned exactly as written.
func ExtractTXT(data []byte) (string, error) {
	text, err := decodeText(data)
	if err != nil {
		return "", err
	}
	return normalizeNewlines(text), nil
}

func decodeText(data []byte) (string, error) {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return string(data[3:]), nil
	}

	if len(data) >= 2 && data[0] == 0xFF && data[1] == 0xFE {
		return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder(), data)
	}

	if len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF {
		return decodeWith(unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder(), data)
	}

	if utf8.Valid(data) {
		return string(data), nil
	}

	// Legacy single-byte files, mostly exported from Windows tools.
	if text, err := decodeWith(charmap.Windows1252.NewDecoder(), data); err == nil {
		return text, nil
	}
	return decodeWith(charmap.ISO8859_1.NewDecoder(), data)
}

func decodeWith(t transform.Transformer, data []byte) (string, error) {
	decoded, _, err := transform.Bytes(t, data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

func normalizeNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
