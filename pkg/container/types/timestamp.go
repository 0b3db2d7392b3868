// Copyright 2024 Pallet Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Timestamp is a 64-bit packed date+time instant with no timezone: the
// upper 44 bits hold seconds since the Unix epoch, the lower 20 bits hold
// the microseconds within the second. Packing keeps instant ordering
// identical to integer ordering, so comparison and hashing treat the
// value as a plain int64.

package types

import (
	"fmt"
	gotime "time"
)

type Timestamp int64

const microsecondBits = 20

// FromUnix packs seconds+microseconds. usec must be < 1e6.
func FromUnix(sec int64, usec uint32) Timestamp {
	return Timestamp(sec<<microsecondBits | int64(usec))
}

// FromTime packs a Go time, truncated to microseconds, as a UTC instant.
func FromTime(t gotime.Time) Timestamp {
	return FromUnix(t.Unix(), uint32(t.Nanosecond()/1000))
}

// FromClockUTC packs a broken-down UTC clock reading.
func FromClockUTC(year int, month gotime.Month, day, hour, min, sec int, usec uint32) Timestamp {
	t := gotime.Date(year, month, day, hour, min, sec, 0, gotime.UTC)
	return FromUnix(t.Unix(), usec)
}

func (ts Timestamp) Unix() int64 {
	return int64(ts) >> microsecondBits
}

func (ts Timestamp) Microseconds() uint32 {
	return uint32(int64(ts) & (1<<microsecondBits - 1))
}

func (ts Timestamp) ToTime() gotime.Time {
	return gotime.Unix(ts.Unix(), int64(ts.Microseconds())*1000).UTC()
}

func (ts Timestamp) String() string {
	t := ts.ToTime()
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d.%06d",
		t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(),
		ts.Microseconds())
}
