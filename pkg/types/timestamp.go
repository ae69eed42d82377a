package types

import "time"

// TimestampLayout is used for display and for parsing textual timestamps.
const TimestampLayout = time.RFC3339Nano

// TimestampField represents a point in time. Values are normalized to UTC.
type TimestampField struct {
	Value time.Time
}

func NewTimestampField(value time.Time) *TimestampField {
	return &TimestampField{Value: value.UTC()}
}

// ParseTimestamp accepts RFC 3339 timestamps and plain dates.
func ParseTimestamp(s string) (*TimestampField, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewTimestampField(t), nil
		}
	}
	_, err := time.Parse(time.RFC3339Nano, s)
	return nil, err
}

func (f *TimestampField) Type() Type {
	return TimestampType
}

func (f *TimestampField) IsNull() bool {
	return false
}

func (f *TimestampField) String() string {
	return f.Value.Format(TimestampLayout)
}

func (f *TimestampField) Key() string {
	return "t:" + f.Value.Format(time.RFC3339Nano)
}
