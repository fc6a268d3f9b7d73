package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateTrackingNo produces a human-readable order tracking number,
// e.g. SM-20250114-7F3A2B. The suffix comes from a v4 UUID so two orders
// created in the same second never collide.
func GenerateTrackingNo() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:6]
	return fmt.Sprintf("SM-%s-%s", time.Now().Format("20060102"), suffix)
}
