package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashBytes computes SHA256 hash of bytes and returns hex string.
func HashBytes(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// HashRows computes a content hash over a sheet's rows. Cells are joined
// with the unit separator and rows with the record separator so that
// ("a,b") and ("a", "b") hash differently.
func HashRows(rows [][]string) string {
	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(strings.Join(row, "\x1f"))
		sb.WriteByte('\x1e')
	}
	return HashBytes([]byte(sb.String()))
}
