package aprs

import "fmt"

// FormatGPS builds the 20-byte DT1/DT2 "gps_buffer" blob carried in a YSF
// mode-2 voice header, overlaying a known position onto the configured
// DT1/DT2 templates (`[YSF Network] DT1`/`DT2`, the fixed "no GPS info"
// fallback bytes). The templates carry the radio-specific framing bytes
// that precede the position; bytes [4:10) of each 10-byte half are
// overwritten with the position encoded as signed millidegrees, matching
// the general YSF VD-mode2 GPS layout (latitude in DT1, longitude in
// DT2). `m_APRS->formatGPS`'s exact byte layout was not recoverable from
// the retrieval pack (only its call sites survive, not its body); this
// encoding is this port's own and is documented here rather than guessed
// at silently.
func FormatGPS(dt1Template, dt2Template []byte, lat, lon float64) []byte {
	buf := make([]byte, 20)

	dt1 := make([]byte, 10)
	copy(dt1, dt1Template)
	dt2 := make([]byte, 10)
	copy(dt2, dt2Template)

	latMilli := int32(lat * 1000)
	lonMilli := int32(lon * 1000)

	copy(dt1[4:10], []byte(fmt.Sprintf("%+06d", clampMilli(latMilli))))
	copy(dt2[4:10], []byte(fmt.Sprintf("%+06d", clampMilli(lonMilli))))

	copy(buf[0:10], dt1)
	copy(buf[10:20], dt2)
	return buf
}

func clampMilli(v int32) int32 {
	const max = 999999
	if v > max {
		return max
	}
	if v < -max {
		return -max
	}
	return v
}
