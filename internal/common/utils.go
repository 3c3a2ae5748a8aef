package common

import (
	"crypto/sha256"
	"fmt"
	"os"
	"strings"
)

// ContentHash computes the SHA256 hex digest of content, used to
// fingerprint recorded artifacts.
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

// FileSizeAndHash reads a file and returns its size plus SHA256 hex
// digest. Unreadable files yield zero values so artifact recording
// stays best-effort.
func FileSizeAndHash(path string) (int64, string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, ""
	}
	return int64(len(data)), ContentHash(data)
}

// SplitList splits a comma-separated CLI flag value, trimming blanks
// and dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
