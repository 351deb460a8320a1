package inspection

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// KeyGenerator produces ComponentKeys. index is the row sequence number.
type KeyGenerator interface {
	Key(index int) string
}

// TimestampKeys builds keys as
// YYYY_MM_DD_HH_MM_SS_mmm<16 hex random chars><index>.
type TimestampKeys struct {
	Now    func() time.Time
	Random func() string
}

// NewTimestampKeys uses the wall clock and UUIDv4 entropy.
func NewTimestampKeys() *TimestampKeys {
	return &TimestampKeys{Now: time.Now, Random: randomHex}
}

func (k *TimestampKeys) Key(index int) string {
	now, random := time.Now, randomHex
	if k.Now != nil {
		now = k.Now
	}
	if k.Random != nil {
		random = k.Random
	}
	t := now()
	return fmt.Sprintf("%s_%03d%s%d", t.Format("2006_01_02_15_04_05"), t.Nanosecond()/int(time.Millisecond), random(), index)
}

func randomHex() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:16]
}
