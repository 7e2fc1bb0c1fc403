package zpay

import (
	"fmt"
	"time"

	"github.com/jaevor/go-nanoid"
)

const orderNoLayout = "20060102150405"

// NewOutTradeNo returns YYYYMMDDHHMMSS followed by six random digits.
// Uniqueness is enforced by the store, callers regenerate on conflict.
func NewOutTradeNo(now time.Time) (string, error) {
	suffix, err := nanoid.CustomASCII("0123456789", 6)
	if err != nil {
		return "", fmt.Errorf("failed to init order number generator: %w", err)
	}
	return now.Format(orderNoLayout) + suffix(), nil
}
