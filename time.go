package prsqc

import (
	"fmt"
	"time"
)

// bgiTimeLayout is the text form sqlite uses for datetime values.
const bgiTimeLayout = "2006-01-02 15:04:05"

// Time reads the timestamps of the .bgi Metadata table, which are stored as
// unix seconds by some writers and as text by others.
type Time time.Time

func (t *Time) Scan(v interface{}) error {
	switch which := v.(type) {
	case nil:
		*t = Time{}
	case int64:
		*t = Time(time.Unix(which, 0).UTC())
	case time.Time:
		*t = Time(which)
	case []byte:
		return t.parse(string(which))
	case string:
		return t.parse(which)
	default:
		return fmt.Errorf("cannot read a bgi timestamp from %T", v)
	}
	return nil
}

func (t *Time) parse(text string) error {
	vt, err := time.Parse(bgiTimeLayout, text)
	if err != nil {
		return err
	}
	*t = Time(vt)
	return nil
}

// String formats the time like sqlite does, or "" for the zero time.
func (t Time) String() string {
	if time.Time(t).IsZero() {
		return ""
	}
	return time.Time(t).Format(bgiTimeLayout)
}
