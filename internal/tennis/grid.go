package tennis

import (
	"fmt"
	"time"
)

// Grid lays time slots out back to back from Start, measured from midnight.
type Grid struct {
	Start time.Duration
	Slot  time.Duration
}

func DefaultGrid() Grid {
	return Grid{Start: 8 * time.Hour, Slot: time.Hour}
}

// Label formats slot i as "8:00-9:00".
func (g Grid) Label(i int) string {
	from := g.Start + time.Duration(i)*g.Slot
	return clock(from) + "-" + clock(from+g.Slot)
}

func clock(d time.Duration) string {
	mins := int(d / time.Minute)
	return fmt.Sprintf("%d:%02d", (mins/60)%24, mins%60)
}
