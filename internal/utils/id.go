package utils

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

const idempotencyAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewID returns a random UUIDv4 string with an optional prefix ("txn_" for transactions).
func NewID(prefix string) string {
	return prefix + uuid.New().String()
}

// NewIdempotencyKey builds a client-side key of the form idem_<unix ms>_<9 chars>.
func NewIdempotencyKey(now time.Time) string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = idempotencyAlphabet[rand.IntN(len(idempotencyAlphabet))]
	}
	return fmt.Sprintf("idem_%d_%s", now.UnixMilli(), suffix)
}
