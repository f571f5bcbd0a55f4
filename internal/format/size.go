package format

import "fmt"

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// HumanSize renders a byte count with binary multiples and one decimal place.
// A nil size renders as "Unknown".
func HumanSize(size *int64) string {
	if size == nil {
		return "Unknown"
	}
	v := float64(*size)
	for _, unit := range sizeUnits {
		if v < 1024 {
			return fmt.Sprintf("%.1f %s", v, unit)
		}
		v /= 1024
	}
	return fmt.Sprintf("%.1f TB", v)
}
