package identity

import "time"

type clockFunc func() time.Time

func defaultClock() time.Time {
	return time.Now()
}
