/*
 * Copyright 2025 the bookkeeper authors.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package types

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// DateTimeLayout is the canonical ISO-8601 encoding used for timestamp
// columns. Timestamps are stored as TEXT regardless of dialect so that a
// database file written by one driver reads back identically on another.
const DateTimeLayout = time.RFC3339Nano

// dateTimeFallbackLayouts are accepted on read for rows written by other
// tools (naive ISO strings, SQLite's default datetime rendering).
var dateTimeFallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// DateTime is a timestamp attribute stored as canonical ISO-8601 text.
// The zero value encodes and decodes like any other instant.
type DateTime struct {
	time.Time
}

// NewDateTime wraps a time.Time into a DateTime.
func NewDateTime(t time.Time) DateTime { return DateTime{Time: t} }

// Now returns the current instant as a DateTime.
func Now() DateTime { return DateTime{Time: time.Now()} }

// Value implements driver.Valuer.
func (d DateTime) Value() (driver.Value, error) {
	return d.Time.Format(DateTimeLayout), nil
}

// Scan implements sql.Scanner. It accepts native time values and the
// canonical or fallback text encodings.
func (d *DateTime) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		d.Time = time.Time{}
		return nil
	case time.Time:
		d.Time = v
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into DateTime", value)
	}
}

func (d *DateTime) parse(s string) error {
	if t, err := time.Parse(DateTimeLayout, s); err == nil {
		d.Time = t
		return nil
	}
	for _, layout := range dateTimeFallbackLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("cannot parse %q as DateTime", s)
}

// Equal reports whether two timestamps denote the same instant.
func (d DateTime) Equal(other DateTime) bool { return d.Time.Equal(other.Time) }

func (d DateTime) String() string { return d.Time.Format(DateTimeLayout) }
