package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey builds "<kind>:<digest>" where digest covers each part's JSON
// encoding, one per line. Parts must be JSON-encodable.
func hashKey(kind string, parts ...any) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, p := range parts {
		if err := enc.Encode(p); err != nil {
			panic("cache: unencodable key part: " + err.Error())
		}
	}
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}
