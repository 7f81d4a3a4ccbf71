package dtmf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func feed(t *testing.T, d *Decoder, digits string) Event {
	t.Helper()
	var last Event
	for _, c := range digits {
		var nibble byte
		for i, v := range digitTable {
			if v == byte(c) {
				nibble = byte(i)
			}
		}
		// force a byte transition between identical consecutive digits
		// by inverting the decoder's remembered last byte
		ev := d.DecodeVDMode2([]byte{nibble}, true)
		d.lastByte = ^d.lastByte
		if ev != EventNone {
			last = ev
		}
	}
	return last
}

func TestDecodeConnect(t *testing.T) {
	d := NewDecoder()
	ev := feed(t, d, "*91#")
	require.Equal(t, EventConnect, ev)
	require.Equal(t, uint32(91), d.DstID())
}

func TestDecodeDisconnect(t *testing.T) {
	d := NewDecoder()
	ev := feed(t, d, "*#")
	require.Equal(t, EventDisconnect, ev)
}

func TestDecodeIgnoresNonStarPrefix(t *testing.T) {
	d := NewDecoder()
	ev := feed(t, d, "123#")
	require.Equal(t, EventNone, ev)
}

func TestResetClearsSequence(t *testing.T) {
	d := NewDecoder()
	feed(t, d, "*9")
	d.Reset()
	require.Empty(t, d.digits)
}

func TestNoDataFlagIgnored(t *testing.T) {
	d := NewDecoder()
	ev := d.DecodeVDMode2([]byte{0x09}, false)
	require.Equal(t, EventNone, ev)
}
