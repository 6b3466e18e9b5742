package youtrack

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"io"
	"strconv"
	"strings"
)

// decodeIfGzipBase64 unpacks YouTrack's base64 (optionally gzipped) text.
// Input that is not base64 or whose gzip stream is corrupt comes back unchanged.
func decodeIfGzipBase64(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}

	decoded, err := base64.StdEncoding.DecodeString(input)
	if err != nil {
		return input
	}

	if len(decoded) < 2 || decoded[0] != 0x1f || decoded[1] != 0x8b {
		return string(decoded)
	}

	zr, err := gzip.NewReader(bytes.NewReader(decoded))
	if err != nil {
		return input
	}
	defer zr.Close()

	plain, err := io.ReadAll(zr)
	if err != nil {
		return input
	}
	return string(plain)
}

// scalarText renders a JSON scalar as text. Objects yield their "name"
// member; arrays, null and missing values yield "".
func scalarText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '{':
		var named struct {
			Name json.RawMessage `json:"name"`
		}
		if err := json.Unmarshal(raw, &named); err != nil {
			return ""
		}
		return scalarText(named.Name)
	case '[':
		return ""
	case 't', 'f':
		b, err := strconv.ParseBool(string(raw))
		if err != nil {
			return ""
		}
		return strconv.FormatBool(b)
	default:
		return string(raw)
	}
}
