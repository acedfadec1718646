package directory

import (
	"strconv"
	"time"
)

// Directory timestamps are 100-nanosecond ticks since the directory epoch
// (January 1, 1601 UTC).
const (
	ticksPerSecond = 10_000_000

	// epochOffsetSeconds is the offset between the directory epoch and the
	// Unix epoch. The value is pinned against what the directory's own admin
	// tooling displays for known samples, which differs slightly from the
	// constant in the protocol documentation; see TestTimeFromTicksPinned.
	epochOffsetSeconds = 11_644_473_600

	// neverExpiresTicks is the sentinel the directory stores for accounts
	// that never expire. Zero carries the same meaning.
	neverExpiresTicks = int64(0x7FFFFFFFFFFFFFFF)
)

// TimeFromTicks converts a directory tick timestamp to calendar time in UTC.
func TimeFromTicks(ticks int64) time.Time {
	return time.Unix(ticks/ticksPerSecond-epochOffsetSeconds, 0).UTC()
}

// ParseTicks parses a string tick value from a directory attribute. The
// second return value is false when the attribute is absent, unparsable, or
// one of the never-expires sentinels.
func ParseTicks(value string) (time.Time, bool) {
	if value == "" || value == "0" {
		return time.Time{}, false
	}

	ticks, err := strconv.ParseInt(value, 10, 64)
	if err != nil || ticks <= 0 || ticks == neverExpiresTicks {
		return time.Time{}, false
	}

	return TimeFromTicks(ticks), true
}
