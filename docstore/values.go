package docstore

import (
	"time"

	"github.com/spf13/cast"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Has reports whether the document carries a non-nil value for key.
func (d Document) Has(key string) bool {
	v, ok := d.Fields[key]
	return ok && v != nil
}

func (d Document) String(key string) string {
	return cast.ToString(d.Fields[key])
}

// Int coerces numeric encodings (int32, int64, float64, numeric strings) to int.
func (d Document) Int(key string) int {
	return cast.ToInt(d.Fields[key])
}

func (d Document) Float(key string) float64 {
	return cast.ToFloat64(d.Fields[key])
}

func (d Document) Bool(key string) bool {
	return cast.ToBool(d.Fields[key])
}

func (d Document) Strings(key string) []string {
	v := d.Fields[key]
	if v == nil {
		return nil
	}
	return cast.ToStringSlice(v)
}

// Time reads a timestamp field through ToTime.
func (d Document) Time(key string) time.Time {
	return ToTime(d.Fields[key])
}

// ToTime normalises the timestamp encodings found in stored documents to a
// UTC time.Time: native store timestamps (time.Time, BSON dates, exported
// {seconds, nanoseconds} objects) and ISO-8601 strings written by older
// clients. Missing or unparseable values yield the zero time.
func ToTime(v any) time.Time {
	switch t := v.(type) {
	case nil:
		return time.Time{}
	case time.Time:
		return t.UTC()
	case *time.Time:
		if t == nil {
			return time.Time{}
		}
		return t.UTC()
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.Timestamp:
		return time.Unix(int64(t.T), 0).UTC()
	case string:
		if t == "" {
			return time.Time{}
		}
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed.UTC()
		}
		if parsed, err := cast.ToTimeE(t); err == nil {
			return parsed.UTC()
		}
		return time.Time{}
	case Fields:
		return timestampObject(t)
	case map[string]any:
		return timestampObject(t)
	default:
		return time.Time{}
	}
}

func timestampObject(m map[string]any) time.Time {
	secs, ok := m["seconds"]
	if !ok {
		secs, ok = m["_seconds"]
	}
	if !ok {
		return time.Time{}
	}
	nanos, ok := m["nanoseconds"]
	if !ok {
		nanos = m["_nanoseconds"]
	}
	return time.Unix(cast.ToInt64(secs), cast.ToInt64(nanos)).UTC()
}
