package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// referenceCharset deliberately omits 0/O and 1/I so a reference read
// over the phone or copied from a printout cannot be mistyped.
const referenceCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// ReferencePrefix is prepended to every public reference number
const ReferencePrefix = "LS"

// referenceLength is the number of random characters after the prefix
const referenceLength = 8

// GenerateReference generates a public reference number, e.g. "LS-7KQ2MWXN".
// The reference is the only thing the applicant needs for status lookups.
func GenerateReference() string {
	return fmt.Sprintf("%s-%s", ReferencePrefix, RandomToken(referenceLength))
}

// RandomToken returns n characters drawn from the unambiguous charset
func RandomToken(n int) string {
	var sb strings.Builder
	max := big.NewInt(int64(len(referenceCharset)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken
			panic(fmt.Sprintf("random source unavailable: %v", err))
		}
		sb.WriteByte(referenceCharset[idx.Int64()])
	}
	return sb.String()
}

// ValidReference reports whether ref looks like a reference this service
// could have issued.
func ValidReference(ref string) bool {
	if !strings.HasPrefix(ref, ReferencePrefix+"-") {
		return false
	}
	body := strings.TrimPrefix(ref, ReferencePrefix+"-")
	if len(body) != referenceLength {
		return false
	}
	for i := 0; i < len(body); i++ {
		if !strings.ContainsRune(referenceCharset, rune(body[i])) {
			return false
		}
	}
	return true
}
