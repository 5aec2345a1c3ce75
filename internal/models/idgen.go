package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// NextVehicleID generates the next id in the day-scoped "MMDD-NN"
// sequence, scanning the current list for the highest NN issued under the
// given day's prefix. The scheme is readable but not globally unique: two
// devices generating offline on the same day can collide, which is why
// every queued action also carries a UUID idempotency key.
func NextVehicleID(existing []Vehicle, day time.Time) string {
	prefix := day.Format("0102")
	max := 0
	for _, v := range existing {
		rest, ok := strings.CutPrefix(v.ID, prefix+"-")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s-%02d", prefix, max+1)
}

// NextStaffID generates an id from the initials of the staff name plus a
// sequence number, e.g. "Nguyen Van An" -> "NVA-01". Like vehicle ids it
// is derived from the in-memory list and is not safe against concurrent
// offline creation.
func NextStaffID(name string, existing []Staff) string {
	var initials strings.Builder
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			if unicode.IsLetter(r) {
				initials.WriteRune(unicode.ToUpper(r))
			}
			break
		}
	}
	prefix := initials.String()
	if prefix == "" {
		prefix = "NV"
	}

	max := 0
	for _, s := range existing {
		rest, ok := strings.CutPrefix(s.ID, prefix+"-")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s-%02d", prefix, max+1)
}
