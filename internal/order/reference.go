package order

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// NewReference returns an order reference such as ORD-20260102-030405-123-4567.
// It is logged and returned to the caller; the chat message does not carry it.
func NewReference(now time.Time) string {
	now = now.UTC()
	millis := now.Nanosecond() / int(time.Millisecond)

	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		n = big.NewInt(now.UnixNano() % 10000)
	}

	return fmt.Sprintf("ORD-%s-%03d-%04d", now.Format("20060102-150405"), millis, n.Int64())
}
