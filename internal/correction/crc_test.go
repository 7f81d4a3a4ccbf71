package correction

import "testing"

func TestCRC8(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected uint8
	}{
		{name: "empty data", input: []byte{}, expected: 0x00},
		{name: "single byte", input: []byte{0x01}, expected: 0x07},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CRC8(tt.input); got != tt.expected {
				t.Errorf("CRC8() = 0x%02X, want 0x%02X", got, tt.expected)
			}
		})
	}
}

func TestCRC8Deterministic(t *testing.T) {
	data := []byte{0xD4, 0x71, 0xC9, 0x63, 0x4D}
	first := CRC8(data)
	second := CRC8(data)
	if first != second {
		t.Errorf("CRC8 is not deterministic: 0x%02X != 0x%02X", first, second)
	}
}

func TestAdditiveCRC(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected uint8
	}{
		{name: "empty data", input: []byte{}, expected: 0x00},
		{name: "single byte", input: []byte{0x01}, expected: 0x01},
		{name: "multiple bytes", input: []byte{0x12, 0x34, 0x56, 0x78}, expected: 0x14},
		{name: "overflow wraps mod 256", input: []byte{0xFF, 0xFF, 0x01}, expected: 0xFF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AddCRC(tt.input); got != tt.expected {
				t.Errorf("AddCRC() = 0x%02X, want 0x%02X", got, tt.expected)
			}
		})
	}
}

func TestCCITT161RoundTrip(t *testing.T) {
	payloads := [][]byte{
		{},
		{0x01},
		{0x00, 0x12, 0x34, 0x56, 0x78},
		{0xD4, 0x71, 0xC9, 0x63, 0x4D, 0x20, 0x00, 0x01, 0x00},
	}

	for _, payload := range payloads {
		buf := make([]byte, len(payload)+2)
		copy(buf, payload)

		AddCCITT161(buf)

		if !CheckCCITT161(buf) {
			t.Errorf("CheckCCITT161 rejected a buffer it just stamped, payload=%v", payload)
		}

		buf[len(buf)-1] ^= 0xFF
		if CheckCCITT161(buf) {
			t.Errorf("CheckCCITT161 accepted a corrupted CRC byte, payload=%v", payload)
		}
	}
}

func TestCCITT162RoundTrip(t *testing.T) {
	payloads := [][]byte{
		{},
		{0x01},
		{0xAA, 0xBB, 0xCC, 0xDD, 0xEE},
	}

	for _, payload := range payloads {
		buf := make([]byte, len(payload)+2)
		copy(buf, payload)

		AddCCITT162(buf)

		if !CheckCCITT162(buf) {
			t.Errorf("CheckCCITT162 rejected a buffer it just stamped, payload=%v", payload)
		}

		buf[len(buf)-2] ^= 0xFF
		if CheckCCITT162(buf) {
			t.Errorf("CheckCCITT162 accepted a corrupted CRC byte, payload=%v", payload)
		}
	}
}

func TestFiveBitCRC(t *testing.T) {
	allZeros := make([]bool, 72)
	if got := EncodeFiveBit(allZeros); got != 0 {
		t.Errorf("EncodeFiveBit(all zeros) = %d, want 0", got)
	}
	if !CheckFiveBit(allZeros, 0) {
		t.Errorf("CheckFiveBit(all zeros, 0) should pass")
	}

	allOnes := make([]bool, 72)
	for i := range allOnes {
		allOnes[i] = true
	}
	crc := EncodeFiveBit(allOnes)
	if !CheckFiveBit(allOnes, crc) {
		t.Errorf("CheckFiveBit failed to validate its own EncodeFiveBit output")
	}
	if CheckFiveBit(allOnes, (crc+1)&0x1F) {
		t.Errorf("CheckFiveBit accepted an incorrect CRC value")
	}
}

func BenchmarkCRC8(b *testing.B) {
	data := make([]byte, 120)
	for i := range data {
		data[i] = byte(i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		CRC8(data)
	}
}

func BenchmarkCCITT161(b *testing.B) {
	data := make([]byte, 155)
	for i := range data {
		data[i] = byte(i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		AddCCITT161(data)
	}
}
