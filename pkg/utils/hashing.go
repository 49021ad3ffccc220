package utils

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

const tokenLength = 32

// TokenizeCard derives a non-reversible token from a card number. Spaces and
// dashes are ignored so that formatted and raw numbers tokenize the same.
func TokenizeCard(cardNumber string, key []byte) (string, error) {
	h, err := blake2b.New256(key)
	if err != nil {
		return "", err
	}
	h.Write([]byte(NormalizeCardNumber(cardNumber)))
	return hex.EncodeToString(h.Sum(nil))[:tokenLength], nil
}

func NormalizeCardNumber(cardNumber string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(cardNumber)
}

// LastFour returns the trailing four digits of a card number, or the whole
// normalized number when it is shorter.
func LastFour(cardNumber string) string {
	n := NormalizeCardNumber(cardNumber)
	if len(n) <= 4 {
		return n
	}
	return n[len(n)-4:]
}
