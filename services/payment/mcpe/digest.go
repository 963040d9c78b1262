package mcpe

import (
	"crypto/md5"
	"encoding/hex"
)

// Digest computes the payout verification hash. The field order is fixed by
// the vendor and the parts are joined without separators; any other order
// yields a digest the gateway rejects.
func Digest(instID, cardNumber, amount, currency, secret string) string {
	sum := md5.Sum([]byte(instID + cardNumber + amount + currency + secret))
	return hex.EncodeToString(sum[:])
}
