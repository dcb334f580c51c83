package ids

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// New returns a prefixed ID derived from value, e.g. "p_a1b2c3d4".
// The same (prefix, value) pair always yields the same ID, so analysis
// output stays stable across runs on identical input.
func New(prefix, value string) string {
	sum := md5.Sum([]byte(value))
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(sum[:])[:8])
}
