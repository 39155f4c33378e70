package util

import (
	"math/rand"
	"strings"
)

const voucherCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateVoucherCode builds a random voucher code with the given prefix,
// e.g. "ROTI-7KQ2M9". Ambiguous characters (0/O, 1/I) are excluded.
func GenerateVoucherCode(prefix string, length int) string {
	var sb strings.Builder
	if prefix != "" {
		sb.WriteString(prefix)
		sb.WriteByte('-')
	}
	for i := 0; i < length; i++ {
		sb.WriteByte(voucherCodeAlphabet[rand.Intn(len(voucherCodeAlphabet))])
	}
	return sb.String()
}
