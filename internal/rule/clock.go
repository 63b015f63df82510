package rule

import "time"

// Clock supplies the current instant. Injected so evaluation and completion
// timestamps are testable without real time.
type Clock func() time.Time

// SystemClock is the production clock.
func SystemClock() time.Time { return time.Now() }
