package dbw

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/brutella/can"
)

// SignalDef describes one bit-packed field of a message payload.
// Bits are numbered little-endian over the 8-byte payload (Intel
// byte order): bit 0 is the least significant bit of byte 0.
type SignalDef struct {
	Name   string
	Start  uint8
	Length uint8
	Signed bool
	Factor float64
}

// Signal is a SignalDef resolved against its message, ready for
// per-frame pack/unpack without any name lookup.
type Signal struct {
	def SignalDef
}

// factor returns the signal's scale, treating an unset zero as the
// unit scale so a raw-valued signal never divides by zero.
func (s *Signal) factor() float64 {
	if s.def.Factor == 0 {
		return 1
	}
	return s.def.Factor
}

// Unpack extracts the signal's physical value from a payload.
func (s *Signal) Unpack(data [8]byte) float64 {
	u := binary.LittleEndian.Uint64(data[:])
	mask := uint64(1)<<s.def.Length - 1
	raw := (u >> s.def.Start) & mask

	if s.def.Signed && raw&(1<<(s.def.Length-1)) != 0 {
		return float64(int64(raw|^mask)) * s.factor()
	}
	return float64(raw) * s.factor()
}

// Bool extracts a one-bit signal as a boolean.
func (s *Signal) Bool(data [8]byte) bool {
	return s.Unpack(data) != 0
}

// Pack stores a physical value into the payload, saturating at the
// raw range bounds of the field.
func (s *Signal) Pack(data *[8]byte, value float64) {
	raw := int64(math.Round(value / s.factor()))

	var min, max int64
	if s.def.Signed {
		max = 1<<(s.def.Length-1) - 1
		min = -(max + 1)
	} else {
		max = 1<<s.def.Length - 1
		min = 0
	}
	if raw > max {
		raw = max
	} else if raw < min {
		raw = min
	}

	mask := uint64(1)<<s.def.Length - 1
	u := binary.LittleEndian.Uint64(data[:])
	u &^= mask << s.def.Start
	u |= (uint64(raw) & mask) << s.def.Start
	binary.LittleEndian.PutUint64(data[:], u)
}

// PackBool stores a boolean into a one-bit signal.
func (s *Signal) PackBool(data *[8]byte, value bool) {
	if value {
		s.Pack(data, 1)
	} else {
		s.Pack(data, 0)
	}
}

// MessageDef is one entry of the message-definition table: a fixed
// CAN id, expected length, and the named signals of the payload.
type MessageDef struct {
	Name    string
	ID      uint32
	DLC     uint8
	signals map[string]*Signal
}

// Signal resolves a named signal. Resolution happens while the table
// is built, so a missing or misnamed signal fails at startup rather
// than on a live frame.
func (m *MessageDef) Signal(name string) (*Signal, error) {
	s, ok := m.signals[name]
	if !ok {
		return nil, fmt.Errorf("message %s has no signal %q", m.Name, name)
	}
	return s, nil
}

// MustSignal is Signal for table-construction time.
func (m *MessageDef) MustSignal(name string) *Signal {
	s, err := m.Signal(name)
	if err != nil {
		panic(err)
	}
	return s
}

// NeutralFrame returns the message's all-zero frame: every signal at
// raw zero, standard identifier. Encoders start from a copy of this,
// which is what guarantees a fully neutral frame on the disabled path.
func (m *MessageDef) NeutralFrame() can.Frame {
	return can.Frame{
		ID:     m.ID,
		Length: m.DLC,
	}
}

// MessageSet is the message-definition table, keyed by id and name.
type MessageSet struct {
	byID   map[uint32]*MessageDef
	byName map[string]*MessageDef
}

func newMessageDef(name string, id uint32, dlc uint8, defs []SignalDef) (*MessageDef, error) {
	if dlc > 8 {
		return nil, fmt.Errorf("message %s: dlc %d out of range", name, dlc)
	}
	m := &MessageDef{
		Name:    name,
		ID:      id,
		DLC:     dlc,
		signals: make(map[string]*Signal, len(defs)),
	}
	var used uint64
	for _, d := range defs {
		if d.Length == 0 || d.Length > 64 || uint16(d.Start)+uint16(d.Length) > uint16(dlc)*8 {
			return nil, fmt.Errorf("message %s: signal %s does not fit payload", name, d.Name)
		}
		mask := (uint64(1)<<d.Length - 1) << d.Start
		if used&mask != 0 {
			return nil, fmt.Errorf("message %s: signal %s overlaps another signal", name, d.Name)
		}
		used |= mask
		if _, dup := m.signals[d.Name]; dup {
			return nil, fmt.Errorf("message %s: duplicate signal %s", name, d.Name)
		}
		m.signals[d.Name] = &Signal{def: d}
	}
	return m, nil
}

func newMessageSet(msgs []*MessageDef) (*MessageSet, error) {
	set := &MessageSet{
		byID:   make(map[uint32]*MessageDef, len(msgs)),
		byName: make(map[string]*MessageDef, len(msgs)),
	}
	for _, m := range msgs {
		if _, dup := set.byID[m.ID]; dup {
			return nil, fmt.Errorf("duplicate message id 0x%03X", m.ID)
		}
		if _, dup := set.byName[m.Name]; dup {
			return nil, fmt.Errorf("duplicate message name %s", m.Name)
		}
		set.byID[m.ID] = m
		set.byName[m.Name] = m
	}
	return set, nil
}

// ByID looks a message up by CAN id.
func (s *MessageSet) ByID(id uint32) (*MessageDef, bool) {
	m, ok := s.byID[id]
	return m, ok
}

// ByName looks a message up by name.
func (s *MessageSet) ByName(name string) (*MessageDef, bool) {
	m, ok := s.byName[name]
	return m, ok
}
