package payment

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

const (
	txnPrefix    = "TRX"
	txnSuffixLen = 8
)

var txnAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateTransactionNumber produces a human-shareable payment identifier:
// a fixed prefix followed by 8 random uppercase-alphanumeric characters.
// Uniqueness is enforced by the store, not here.
func GenerateTransactionNumber() (string, error) {
	var sb strings.Builder
	sb.Grow(len(txnPrefix) + txnSuffixLen)
	sb.WriteString(txnPrefix)

	max := big.NewInt(int64(len(txnAlphabet)))
	for i := 0; i < txnSuffixLen; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", errors.Wrap(err, "reading random source")
		}
		sb.WriteByte(txnAlphabet[n.Int64()])
	}
	return sb.String(), nil
}
