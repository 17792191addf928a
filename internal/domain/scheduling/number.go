package scheduling

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewAppointmentNumber builds the human-readable identifier printed on
// confirmations, e.g. "APT-20250610-7F3A2C1B". The random suffix keeps it
// unique; the date prefix keeps call-center lookups sane.
func NewAppointmentNumber(date time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("APT-%s-%s", date.Format("20060102"), suffix)
}
