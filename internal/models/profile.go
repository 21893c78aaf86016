package models

import (
	"encoding/binary"
	"fmt"
	"time"
)

// profileImageSize is the size of the raw profile image: three uint16
// fields, little-endian, in declaration order.
const profileImageSize = 6

// ConfigRecord is the persisted profile of a pump bank: the lifetime cycle
// counters and the configured cycle time. It is always saved and loaded as a
// whole record; there are no partial updates.
type ConfigRecord struct {
	ActiveCycles uint16    `json:"active_cycles"`
	Overflows    uint16    `json:"overflows"`
	CycleTimeMs  uint16    `json:"cycle_time_ms"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MarshalBinary encodes the record in the layout the original controller
// kept in EEPROM. UpdatedAt is bookkeeping for the store and is not part of
// the image.
func (r ConfigRecord) MarshalBinary() ([]byte, error) {
	b := make([]byte, profileImageSize)
	binary.LittleEndian.PutUint16(b[0:2], r.ActiveCycles)
	binary.LittleEndian.PutUint16(b[2:4], r.Overflows)
	binary.LittleEndian.PutUint16(b[4:6], r.CycleTimeMs)
	return b, nil
}

// UnmarshalBinary decodes a dumped profile image, used to seed a fresh store
// from a controller being migrated.
func (r *ConfigRecord) UnmarshalBinary(b []byte) error {
	if len(b) != profileImageSize {
		return fmt.Errorf("profile image: want %d bytes, got %d", profileImageSize, len(b))
	}
	r.ActiveCycles = binary.LittleEndian.Uint16(b[0:2])
	r.Overflows = binary.LittleEndian.Uint16(b[2:4])
	r.CycleTimeMs = binary.LittleEndian.Uint16(b[4:6])
	return nil
}
