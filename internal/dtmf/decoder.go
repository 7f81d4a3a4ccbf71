// Package dtmf extracts DTMF digit sequences embedded in YSF voice-mode-2
// payload bytes, synthesizing CONNECT/DISCONNECT events for handsets that
// signal a talk-group change in-band instead of via a WIRES-X command
// frame. The original CDTMF class (referenced from YSF2DMR.cpp as
// `m_dtmf->decodeVDMode2`) did not survive in the retrieval pack — only
// its call sites did — so the nibble-per-superframe extraction and the
// "*TG#"/"*#" command grammar below are this port's own reconstruction
// from the spec, not a byte-exact translation; see DESIGN.md.
package dtmf

import (
	"time"
)

// digitTable maps a 4-bit nibble read from the payload's DTMF sub-channel
// to its ASCII digit, the same 0-9/*/#/A-D alphabet as RFC 2833
// telephone-events.
var digitTable = [16]byte{
	'0', '1', '2', '3', '4', '5', '6', '7',
	'8', '9', 'A', 'B', 'C', 'D', '*', '#',
}

// Event is the result of feeding one voice-mode-2 payload into the
// decoder.
type Event int

const (
	EventNone Event = iota
	EventConnect
	EventDisconnect
)

// sequenceTimeout resets an in-progress digit sequence if no new digit
// arrives for this long, mirroring the WIRES-X 12-second TG-selection
// watchdog (spec.md §3).
const sequenceTimeout = 12 * time.Second

// Decoder accumulates DTMF digits across successive voice-mode-2 frames
// of a single transmission and recognizes two command shapes:
// "*" + 1-8 digits + "#" → connect to that numeric talk group, and
// "*#" alone → disconnect.
type Decoder struct {
	digits     []byte
	lastByte   byte
	lastDigit  time.Time
	dstID      uint32
	debugEnabled bool
}

// NewDecoder creates an empty decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// SetDebug enables verbose logging of decoded digits.
func (d *Decoder) SetDebug(enabled bool) {
	d.debugEnabled = enabled
}

// Reset clears any in-progress digit sequence, called at the start of a
// new over (matches the original's `m_dtmf->reset()` on call end).
func (d *Decoder) Reset() {
	d.digits = d.digits[:0]
	d.lastByte = 0
}

// DecodeVDMode2 extracts a DTMF nibble from a YSF mode-2 voice payload
// slice (the bytes at offset 35 of the frame, per YSF2DMR.cpp) and folds
// it into the current digit sequence. hasData mirrors the original's
// `(buffer[34] & 0x01) == 0x01` data-present flag; frames without it
// carry no DTMF nibble and are ignored. Returns the recognized command,
// if the sequence just completed one.
func (d *Decoder) DecodeVDMode2(payload []byte, hasData bool) Event {
	if !hasData || len(payload) == 0 {
		return EventNone
	}

	b := payload[0]
	if b == d.lastByte {
		// Same nibble repeated across consecutive frames of one digit
		// press; only the transition counts as a new digit.
		return EventNone
	}
	d.lastByte = b

	if time.Since(d.lastDigit) > sequenceTimeout {
		d.digits = d.digits[:0]
	}
	d.lastDigit = time.Now()

	digit := digitTable[b&0x0F]
	d.digits = append(d.digits, digit)

	return d.evaluate()
}

func (d *Decoder) evaluate() Event {
	if len(d.digits) == 0 {
		return EventNone
	}

	if d.digits[0] != '*' {
		// Not the start of a recognized command; drop noise so a long
		// over doesn't grow this buffer unbounded.
		d.digits = d.digits[:0]
		return EventNone
	}

	if len(d.digits) == 2 && d.digits[1] == '#' {
		d.digits = d.digits[:0]
		return EventDisconnect
	}

	if d.digits[len(d.digits)-1] == '#' && len(d.digits) >= 3 {
		tg, ok := parseDigits(d.digits[1 : len(d.digits)-1])
		d.digits = d.digits[:0]
		if !ok {
			return EventNone
		}
		d.dstID = tg
		return EventConnect
	}

	if len(d.digits) > 9 {
		// Runaway sequence with no terminator; give up on it.
		d.digits = d.digits[:0]
	}

	return EventNone
}

// DstID returns the talk-group ID parsed by the most recent EventConnect.
func (d *Decoder) DstID() uint32 {
	return d.dstID
}

func parseDigits(digits []byte) (uint32, bool) {
	var v uint32
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, false
		}
		v = v*10 + uint32(c-'0')
	}
	return v, true
}
