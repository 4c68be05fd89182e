package machine

import "sync/atomic"

// SystemCommonState holds system common values. The MIDI 2.0 protocol
// carries them unchanged, so both machines share this type.
type SystemCommonState struct {
	mtcQuarterFrame     atomic.Uint32
	songPositionPointer atomic.Uint32
	songSelect          atomic.Uint32
}

func (s *SystemCommonState) MTCQuarterFrame() uint8 { return uint8(s.mtcQuarterFrame.Load()) }

// SongPositionPointer is in MIDI beats (sixteenth notes), 14 bits.
func (s *SystemCommonState) SongPositionPointer() uint16 {
	return uint16(s.songPositionPointer.Load())
}

func (s *SystemCommonState) SongSelect() uint8 { return uint8(s.songSelect.Load()) }

func (s *SystemCommonState) setMTCQuarterFrame(v uint8) { s.mtcQuarterFrame.Store(uint32(v & 0x7F)) }

func (s *SystemCommonState) setSongPositionPointer(lsb, msb uint8) {
	s.songPositionPointer.Store(uint32(msb&0x7F)<<7 | uint32(lsb&0x7F))
}

func (s *SystemCommonState) setSongSelect(v uint8) { s.songSelect.Store(uint32(v & 0x7F)) }

func (s *SystemCommonState) Reset() {
	s.mtcQuarterFrame.Store(0)
	s.songPositionPointer.Store(0)
	s.songSelect.Store(0)
}
