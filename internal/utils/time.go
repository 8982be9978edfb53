package util

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"sync"
	"time"
)

// LocalDateTime is a wall-clock timestamp exchanged as "2006-01-02T15:04:05"
// in the application time zone and stored in UTC.
type LocalDateTime struct {
	time.Time
}

const layout = "2006-01-02T15:04:05"

var (
	locMu    sync.RWMutex
	location = time.UTC
)

// SetLocation selects the zone LocalDateTime values are read and written in.
func SetLocation(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("load time zone %q: %w", name, err)
	}
	locMu.Lock()
	location = loc
	locMu.Unlock()
	return nil
}

func Location() *time.Location {
	locMu.RLock()
	defer locMu.RUnlock()
	return location
}

func ParseLocal(s string) (LocalDateTime, error) {
	t, err := time.ParseInLocation(layout, s, Location())
	if err != nil {
		return LocalDateTime{}, err
	}
	return LocalDateTime{Time: t}, nil
}

func ToTimePtr(ldt *LocalDateTime) *time.Time {
	if ldt == nil || ldt.IsZero() {
		return nil
	}
	t := ldt.Time
	return &t
}

func (ldt *LocalDateTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	parsed, err := ParseLocal(s)
	if err != nil {
		return err
	}
	*ldt = parsed
	return nil
}

func (ldt LocalDateTime) MarshalJSON() ([]byte, error) {
	if ldt.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + ldt.In(Location()).Format(layout) + `"`), nil
}

func (ldt LocalDateTime) Equal(other LocalDateTime) bool {
	return ldt.Time.Equal(other.Time)
}

func (LocalDateTime) GormDataType() string {
	return "timestamp"
}

func (ldt LocalDateTime) Value() (driver.Value, error) {
	if ldt.IsZero() {
		return nil, nil
	}
	return ldt.Time.UTC(), nil
}

func (ldt *LocalDateTime) Scan(value interface{}) error {
	if value == nil {
		ldt.Time = time.Time{}
		return nil
	}

	switch v := value.(type) {
	case time.Time:
		ldt.Time = v
		return nil
	case []byte:
		return ldt.scanString(string(v))
	case string:
		return ldt.scanString(v)
	default:
		return fmt.Errorf("cannot scan type %T into LocalDateTime", value)
	}
}

func (ldt *LocalDateTime) scanString(s string) error {
	for _, l := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05", layout} {
		if t, err := time.Parse(l, s); err == nil {
			ldt.Time = t
			return nil
		}
	}
	return fmt.Errorf("cannot parse %q as LocalDateTime", s)
}
