// Package backup provides the persistent counter store over a byte-addressable
// backup register block. The real implementation is a small write-through
// file standing in for battery-backed SRAM; the fake allows testing without
// touching the filesystem.
package backup

import (
	"log"

	"github.com/sweeney/tally-tracker/internal/face"
)

// Size is the number of backup bytes used.
const Size = 8

// Register layout. Each value is a 16-bit little-endian pair; the high bytes
// of tally B and goal B are reserved and always written as 0.
const (
	offTallyALo = 0
	offTallyAHi = 1
	offTallyBLo = 2
	offTallyBHi = 3
	offGoalALo  = 4
	offGoalAHi  = 5
	offGoalBLo  = 6
	offGoalBHi  = 7
)

// Registers is the byte-level storage collaborator.
type Registers interface {
	ReadByte(offset int) (byte, error)
	WriteByte(offset int, b byte) error
	Close() error
}

// Store reads and writes the four persisted tracker values. All anomalies
// are handled by normalization or suppression: corrupt values are silently
// clamped or defaulted on load, and write failures are logged and dropped so
// the in-memory state stays authoritative.
type Store struct {
	regs Registers
}

// NewStore creates a Store over the given registers.
func NewStore(regs Registers) *Store {
	return &Store{regs: regs}
}

// Load returns the persisted values, validated: a goal outside [1, max] is
// replaced by its default, a tally above its maximum is clamped down.
func (s *Store) Load() (tallyA, tallyB, goalA, goalB uint16) {
	tallyA = s.readU16(offTallyALo, offTallyAHi)
	tallyB = s.readU16(offTallyBLo, offTallyBHi)
	goalA = s.readU16(offGoalALo, offGoalAHi)
	goalB = s.readU16(offGoalBLo, offGoalBHi)

	if goalA < face.MinGoal || goalA > face.MaxGoalA {
		goalA = face.DefaultGoalA
	}
	if goalB < face.MinGoal || goalB > face.MaxGoalB {
		goalB = face.DefaultGoalB
	}
	if tallyA > face.MaxTallyA {
		tallyA = face.MaxTallyA
	}
	if tallyB > face.MaxTallyB {
		tallyB = face.MaxTallyB
	}
	return tallyA, tallyB, goalA, goalB
}

// StoreTallyA writes tally A through to the registers.
func (s *Store) StoreTallyA(v uint16) { s.writeU16(offTallyALo, offTallyAHi, v) }

// StoreTallyB writes tally B through to the registers.
func (s *Store) StoreTallyB(v uint16) { s.writeU16(offTallyBLo, offTallyBHi, v) }

// StoreGoalA writes goal A through to the registers.
func (s *Store) StoreGoalA(v uint16) { s.writeU16(offGoalALo, offGoalAHi, v) }

// StoreGoalB writes goal B through to the registers.
func (s *Store) StoreGoalB(v uint16) { s.writeU16(offGoalBLo, offGoalBHi, v) }

// Close releases the underlying registers.
func (s *Store) Close() error {
	return s.regs.Close()
}

func (s *Store) readU16(lo, hi int) uint16 {
	lb, err := s.regs.ReadByte(lo)
	if err != nil {
		log.Printf("backup: read byte %d: %v", lo, err)
		return 0
	}
	hb, err := s.regs.ReadByte(hi)
	if err != nil {
		log.Printf("backup: read byte %d: %v", hi, err)
		return 0
	}
	return uint16(lb) | uint16(hb)<<8
}

func (s *Store) writeU16(lo, hi int, v uint16) {
	if err := s.regs.WriteByte(lo, byte(v&0xFF)); err != nil {
		log.Printf("backup: write byte %d: %v", lo, err)
		return
	}
	if err := s.regs.WriteByte(hi, byte(v>>8)); err != nil {
		log.Printf("backup: write byte %d: %v", hi, err)
	}
}
