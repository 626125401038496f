package limits

import (
	"fmt"
	"strings"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
)

var weekdayByName = func() map[string]time.Weekday {
	m := make(map[string]time.Weekday, 14)
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		m[name] = d
		m[name[:3]] = d
	}
	return m
}()

func weekdayOf(name string) (time.Weekday, bool) {
	d, ok := weekdayByName[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}

// DaySet is a set of weekdays.
type DaySet struct {
	days *roaring.Bitmap
}

// ParseDays compiles weekday names into a DaySet. Unknown names are an error.
func ParseDays(names []string) (DaySet, error) {
	set := DaySet{days: roaring.New()}
	for _, name := range names {
		d, ok := weekdayOf(name)
		if !ok {
			return DaySet{}, fmt.Errorf("unknown weekday %q", name)
		}
		set.days.Add(uint32(d))
	}
	return set, nil
}

// lenientDays skips names that are not weekdays.
func lenientDays(names []string) DaySet {
	set := DaySet{days: roaring.New()}
	for _, name := range names {
		if d, ok := weekdayOf(name); ok {
			set.days.Add(uint32(d))
		}
	}
	return set
}

func (s DaySet) Contains(d time.Weekday) bool {
	return s.days != nil && s.days.Contains(uint32(d))
}

func (s DaySet) Len() int {
	if s.days == nil {
		return 0
	}
	return int(s.days.GetCardinality())
}
