package checkout

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

var codeRange = big.NewInt(900000)

// newOrderCode returns a random 6-digit numeric code (100000-999999).
// Uniqueness is enforced by the database index, not here.
func newOrderCode() string {
	n, err := rand.Int(rand.Reader, codeRange)
	if err != nil {
		// crypto/rand only fails when the platform source is broken;
		// the caller's duplicate-retry loop covers the degenerate fallback.
		return "100000"
	}
	return strconv.FormatInt(n.Int64()+100000, 10)
}
