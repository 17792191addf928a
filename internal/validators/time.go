package validators

import "time"

const (
	TimeLayout = "15:04"
	DateLayout = "2006-01-02"
)

// IsValidTimeOfDay accepts 24-hour "HH:mm" only.
func IsValidTimeOfDay(hm string) bool {
	if len(hm) != 5 {
		return false
	}
	_, err := time.Parse(TimeLayout, hm)
	return err == nil
}

func IsValidDate(d string) bool {
	_, err := time.Parse(DateLayout, d)
	return err == nil
}
