// Package aprs formats and transmits APRS position reports and ID beacons
// for the bridge's own node, and caches inbound reverse-GPS lookups for
// radios that report a callsign without an in-band GPS blob.
package aprs

import (
	"bufio"
	"fmt"
	"log"
	"math"
	"net"
	"strings"
	"sync"
	"time"
)

// radio icon table, keyed by the YSF "radio ID" byte carried in mode-2
// voice headers (matches APRSWriter.cpp's switch on `radio`).
const (
	radioYT4 = 0x24
	radioFT1 = 0x25
	radioFT2 = 0x26
	radioFT3 = 0x27
	radioFTM = 0x28
	radioFT70 = 0x29
)

// Writer formats position reports and periodic ID beacons and ships them
// to an APRS-IS server over a plain TCP login session.
type Writer struct {
	callsign      string
	nodeCallsign  string
	password      string
	address       string
	port          uint32

	txFrequency uint32
	rxFrequency uint32
	latitude    float64
	longitude   float64
	height      int32
	desc        string
	icon        string
	beaconText  string

	mu   sync.Mutex
	conn net.Conn

	beaconInterval time.Duration
	sinceBeacon    time.Duration

	// fm_latitude/fm_longitude in the original: the node's own last-seen
	// position, caught off in-band traffic, preferred over the static
	// config position when present.
	selfLat, selfLon float64

	debugEnabled bool
}

// NewWriter builds an APRS writer. callsign/suffix form the login
// callsign (APRSWriter's m_callsign, with a single-char SSID appended).
func NewWriter(callsign, suffix, password, address string, port uint32) *Writer {
	login := callsign
	if suffix != "" {
		login += "-" + suffix[:1]
	}

	return &Writer{
		callsign: login,
		password: password,
		address:  address,
		port:     port,
		icon:     "YY",
	}
}

// SetInfo configures the node's static position and beacon text, matching
// APRSWriter::setInfo. beaconMinutes is the ID-beacon period.
func (w *Writer) SetInfo(nodeCallsign string, txFrequency, rxFrequency uint32, latitude, longitude float64, height int32, desc, icon, beaconText string, beaconMinutes uint32) {
	w.nodeCallsign = nodeCallsign
	w.txFrequency = txFrequency
	w.rxFrequency = rxFrequency
	w.latitude = latitude
	w.longitude = longitude
	w.height = height
	w.desc = desc

	if icon != "" {
		w.icon = icon
	}
	if beaconText != "" {
		w.beaconText = beaconText
	} else {
		w.beaconText = "YSF2DMR - Private HotSpot"
	}

	if beaconMinutes == 0 {
		beaconMinutes = 20
	}
	w.beaconInterval = time.Duration(beaconMinutes) * time.Minute
}

// SetDebug enables verbose logging of the APRS-IS session.
func (w *Writer) SetDebug(enabled bool) {
	w.debugEnabled = enabled
}

// Open dials the APRS-IS server and sends the login line. The ID beacon
// is sent immediately after a successful login, matching open()'s
// sendIdFrames() call in the original.
func (w *Writer) Open() error {
	conn, err := net.DialTimeout("tcp", fmt.Sprintf("%s:%d", w.address, w.port), 10*time.Second)
	if err != nil {
		return fmt.Errorf("aprs: dial %s:%d: %w", w.address, w.port, err)
	}

	login := fmt.Sprintf("user %s pass %s vers dvbridge 1.0\r\n", w.callsign, w.password)
	if _, err := conn.Write([]byte(login)); err != nil {
		conn.Close()
		return fmt.Errorf("aprs: login: %w", err)
	}

	w.mu.Lock()
	w.conn = conn
	w.mu.Unlock()

	w.logDebug("APRS-IS connected to %s:%d as %s", w.address, w.port, w.callsign)
	w.sendIDFrames()
	return nil
}

// Close shuts down the APRS-IS session.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.conn == nil {
		return nil
	}
	err := w.conn.Close()
	w.conn = nil
	return err
}

// Write sends a position report for a heard radio, matching
// CAPRSWriter::write. source is the 10-byte YSF source-callsign field,
// frameType is the short descriptive text appended to the comment (e.g.
// "YSF"/"DMR"), radio is the YSF radio-ID byte (selects the map symbol),
// and tgQRV is the talk group currently selected.
func (w *Writer) Write(source []byte, frameType string, radio byte, latitude, longitude float64, tgQRV uint32) {
	callsign := strings.TrimRight(string(source), " \x00")
	callsign = trimToAlnum(callsign)

	if w.nodeCallsign != "" && callsign == strings.TrimSpace(w.nodeCallsign) {
		w.logDebug("Catching %s position", w.nodeCallsign)
		w.selfLat = latitude
		w.selfLon = longitude
	}

	symbol, suffix := radioSymbol(radio)

	lat, latHemi := formatLatitude(latitude)
	lon, lonHemi := formatLongitude(longitude)

	line := fmt.Sprintf("%s%s>APDPRS,C4FM*,qAR,%s:!%s%c/%s%c%c %s QRV TG %d via MMDVM",
		callsign, suffix, w.callsign, lat, latHemi, lon, lonHemi, symbol, frameType, tgQRV)

	w.send(line)
}

// Clock drives the ID-beacon timer; call once per orchestrator tick with
// the time elapsed since the last call.
func (w *Writer) Clock(elapsed time.Duration) {
	if w.beaconInterval == 0 {
		return
	}

	w.sinceBeacon += elapsed
	if w.sinceBeacon >= w.beaconInterval {
		w.sendIDFrames()
		w.sinceBeacon = 0
	}
}

// sendIDFrames emits the node's own position beacon, matching
// CAPRSWriter::sendIdFrames. A zeroed lat/long (the "default values
// aren't passed on" case in the original) suppresses the beacon.
func (w *Writer) sendIDFrames() {
	if w.latitude == 0 && w.longitude == 0 {
		return
	}

	lat := w.selfLat
	if lat == 0 {
		lat = w.latitude
	}
	lon := w.selfLon
	if lon == 0 {
		lon = w.longitude
	}

	latStr, latHemi := formatLatitude(lat)
	lonStr, lonHemi := formatLongitude(lon)

	mobile := ""
	if w.selfLat != 0 {
		mobile = "/mobile"
	}

	var icon0, icon1 byte = 'Y', 'Y'
	if len(w.icon) >= 2 {
		icon0, icon1 = w.icon[0], w.icon[1]
	}

	line := fmt.Sprintf("%s>APDG03,TCPIP*,qAC,%s:!%s%c%c%s%c%c%s%s",
		w.nodeCallsign, w.nodeCallsign,
		latStr, latHemi, icon0,
		lonStr, lonHemi, icon1,
		w.beaconText, mobile)

	w.send(line)
}

func (w *Writer) send(line string) {
	w.mu.Lock()
	conn := w.conn
	w.mu.Unlock()

	if conn == nil {
		w.logDebug("APRS write skipped (not connected): %s", line)
		return
	}

	writer := bufio.NewWriter(conn)
	if _, err := writer.WriteString(line + "\r\n"); err != nil {
		log.Printf("aprs: write error: %v", err)
		return
	}
	if err := writer.Flush(); err != nil {
		log.Printf("aprs: flush error: %v", err)
	}
}

func (w *Writer) logDebug(format string, args ...interface{}) {
	if w.debugEnabled {
		log.Printf("APRS: "+format, args...)
	}
}

func radioSymbol(radio byte) (symbol byte, suffix string) {
	switch radio {
	case radioYT4, radioFTM:
		return '[', "-7"
	case radioFT1, radioFT70:
		return '>', "-9"
	case radioFT2:
		return 'r', "-1"
	case radioFT3:
		return '-', "-2"
	default:
		return '-', "-2"
	}
}

func trimToAlnum(s string) string {
	for i, r := range s {
		if !(r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return s[:i]
		}
	}
	return s
}

// formatLatitude converts a signed decimal latitude into APRS's
// DDMM.mm format plus hemisphere letter, matching APRSWriter's lat/long
// conversion (`"%07.2lf"` of minutes-scaled degrees).
func formatLatitude(lat float64) (string, byte) {
	hemi := byte('N')
	if lat < 0 {
		hemi = 'S'
	}
	deg, min := splitDegrees(math.Abs(lat))
	return fmt.Sprintf("%02d%05.2f", deg, min), hemi
}

// formatLongitude is formatLatitude's 3-digit-degree counterpart.
func formatLongitude(lon float64) (string, byte) {
	hemi := byte('E')
	if lon < 0 {
		hemi = 'W'
	}
	deg, min := splitDegrees(math.Abs(lon))
	return fmt.Sprintf("%03d%05.2f", deg, min), hemi
}

func splitDegrees(abs float64) (int, float64) {
	deg := math.Floor(abs)
	min := (abs - deg) * 60.0
	return int(deg), min
}
