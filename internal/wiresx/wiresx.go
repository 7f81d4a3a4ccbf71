package wiresx

import (
	"bufio"
	"fmt"
	"hash/fnv"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dbehnke/dvbridge/internal/correction"
	"github.com/dbehnke/dvbridge/internal/protocol"
	"github.com/dbehnke/dvbridge/internal/protocol/ysf"
	"github.com/dbehnke/dvbridge/internal/storage"
)

// WiresX command patterns
var (
	DX_REQ   = []byte{0x5D, 0x71, 0x5F}
	CONN_REQ = []byte{0x5D, 0x23, 0x5F}
	DISC_REQ = []byte{0x5D, 0x2A, 0x5F}
	ALL_REQ  = []byte{0x5D, 0x66, 0x5F}
	CAT_REQ  = []byte{0x5D, 0x67, 0x5F}
	NEWS_REQ = []byte{0x5D, 0x63, 0x5F}
	LIST_REQ = []byte{0x5D, 0x6C, 0x5F}
	GET_RSC  = []byte{0x5D, 0x72, 0x5F}

	MESSAGE_REC     = []byte{0x47, 0x65, 0x5F}
	MESSAGE_REC_GPS = []byte{0x47, 0x66, 0x5F}
	PICT_REC        = []byte{0x47, 0x67, 0x5F}
	PICT_REC_GPS    = []byte{0x47, 0x68, 0x5F}
	PICT_DATA       = []byte{0x4E, 0x62, 0x5F}

	DX_RESP   = []byte{0x5D, 0x51, 0x5F, 0x26}
	CONN_RESP = []byte{0x5D, 0x41, 0x5F, 0x26}
	DISC_RESP = []byte{0x5D, 0x41, 0x5F, 0x26}
	ALL_RESP  = []byte{0x5D, 0x46, 0x5F, 0x26}
	LIST_RESP = []byte{0x5D, 0x4C, 0x5F, 0x26}
	NEWS_RESP = []byte{0x5D, 0x43, 0x5F, 0x26}
	GET_RESP  = []byte{0x5D, 0x54, 0x5F, 0x26}

	PICT_PREAMBLE_RESP = []byte{0x5D, 0x50, 0x5F, 0x26}
	PICT_BEGIN_RESP    = []byte{0x4E, 0x64, 0x5F, 0x26}
	PICT_DATA_RESP     = []byte{0x4E, 0x62, 0x5F, 0x26}
	PICT_END_RESP      = []byte{0x4E, 0x65, 0x5F, 0x26}
	UPLOAD_RESP        = []byte{0x47, 0x30, 0x5F, 0x26}

	DEFAULT_FICH = []byte{0x20, 0x00, 0x01, 0x00}
	NET_HEADER   = []byte("YSFD                    ALL      ")
)

// Status represents WiresX processing status
type Status int

const (
	StatusNone Status = iota
	StatusConnect
	StatusDisconnect
	StatusDX
	StatusAll
	StatusFail
	StatusNews
	StatusList
	StatusGetMessage
	StatusUploadMessage
	StatusUploadPicture
)

// InternalStatus represents internal WiresX state
type InternalStatus int

const (
	InternalStatusNone InternalStatus = iota
	InternalStatusDX
	InternalStatusConnect
	InternalStatusDisconnect
	InternalStatusAll
	InternalStatusSearch
	InternalStatusCategory
	InternalStatusNews
	InternalStatusList
	InternalStatusGetMessage
	InternalStatusUpload
)

// PictureState tracks the separate picture-download state machine, driven
// by its own timer independent of the main command/reply timer.
type PictureState int

const (
	PictureNone PictureState = iota
	PictureBegin
	PictureData
	PictureEnd
)

// TalkGroup represents a talk group/reflector entry
type TalkGroup struct {
	ID   string // 7-digit ID with leading zeros
	Opt  string // Options
	Name string // Name (16 chars, space-padded)
	Desc string // Description (14 chars, space-padded)
}

// TalkGroupRegistry manages talk group lists
type TalkGroupRegistry struct {
	talkGroups []TalkGroup
	makeUpper  bool
}

// NewTalkGroupRegistry creates a new talk group registry
func NewTalkGroupRegistry(makeUpper bool) *TalkGroupRegistry {
	return &TalkGroupRegistry{
		talkGroups: make([]TalkGroup, 0),
		makeUpper:  makeUpper,
	}
}

// LoadFromString loads talk groups from string data (used for testing)
func (r *TalkGroupRegistry) LoadFromString(data string) error {
	scanner := bufio.NewScanner(strings.NewReader(data))

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		parts := strings.Split(line, ";")
		if len(parts) < 4 {
			continue
		}

		id := strings.TrimSpace(parts[0])
		opt := strings.TrimSpace(parts[1])
		name := strings.TrimSpace(parts[2])
		desc := strings.TrimSpace(parts[3])

		// Pad ID to 7 digits with leading zeros
		if len(id) < 7 {
			id = strings.Repeat("0", 7-len(id)) + id
		}

		// Process case conversion if requested
		if r.makeUpper {
			name = strings.ToUpper(name)
			desc = strings.ToUpper(desc)
		}

		// Pad name to 16 chars and desc to 14 chars
		if len(name) > 16 {
			name = name[:16]
		} else {
			name = name + strings.Repeat(" ", 16-len(name))
		}

		if len(desc) > 14 {
			desc = desc[:14]
		} else {
			desc = desc + strings.Repeat(" ", 14-len(desc))
		}

		tg := TalkGroup{
			ID:   id,
			Opt:  opt,
			Name: name,
			Desc: desc,
		}

		r.talkGroups = append(r.talkGroups, tg)
	}

	return scanner.Err()
}

// FindByID finds a talk group by numeric ID
func (r *TalkGroupRegistry) FindByID(id uint32) *TalkGroup {
	idStr := fmt.Sprintf("%07d", id)

	for i := range r.talkGroups {
		if r.talkGroups[i].ID == idStr {
			return &r.talkGroups[i]
		}
	}

	return nil
}

// Search searches for talk groups by name
func (r *TalkGroupRegistry) Search(searchTerm string) []TalkGroup {
	searchTerm = strings.ToUpper(strings.TrimSpace(searchTerm))
	if len(searchTerm) == 0 {
		return nil
	}

	var results []TalkGroup

	for _, tg := range r.talkGroups {
		name := strings.ToUpper(strings.TrimSpace(tg.Name))
		if strings.HasPrefix(name, searchTerm) {
			results = append(results, tg)
		}
	}

	// Sort results by name
	sort.Slice(results, func(i, j int) bool {
		return strings.TrimSpace(results[i].Name) < strings.TrimSpace(results[j].Name)
	})

	return results
}

// GetAll returns all talk groups with pagination
func (r *TalkGroupRegistry) GetAll(start, count int) []TalkGroup {
	if start >= len(r.talkGroups) {
		return nil
	}

	end := start + count
	if end > len(r.talkGroups) {
		end = len(r.talkGroups)
	}

	return r.talkGroups[start:end]
}

// GetCount returns total number of talk groups
func (r *TalkGroupRegistry) GetCount() int {
	return len(r.talkGroups)
}

// LoadFromFile reads and parses a TG-list file on disk (see LoadFromString
// for the line format). Used both for the initial load and for the
// periodic reload timer.
func (r *TalkGroupRegistry) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return r.LoadFromString(string(data))
}

// WiresX represents the WiresX protocol handler
type WiresX struct {
	callsign      string
	node          string
	id            string
	name          string
	txFrequency   uint32
	rxFrequency   uint32
	dstID         uint32
	fullDstID     uint32
	network       NetworkWriter
	command       []byte
	timer         *time.Timer
	timerDuration time.Duration
	seqNo         uint8
	header        []byte
	csd1          []byte
	csd2          []byte
	csd3          []byte
	status        InternalStatus
	start         int
	search        string
	category      []TalkGroup
	registry      *TalkGroupRegistry
	bufferTX      [][]byte
	lastTX        time.Time

	storage        *storage.Storage
	newsSource     string
	listType       byte
	getNumber      uint32
	lastSource     string
	serial         []byte
	lastPictureRef byte
	pictureState   PictureState
	pictureCount   uint32
	ptimer         *time.Timer

	tgFile     string
	regMu      sync.RWMutex
	reloadCron *cron.Cron
}

// NetworkWriter interface for writing network data
type NetworkWriter interface {
	Write(data []byte) error
}

// NewWiresX creates a new WiresX handler
func NewWiresX(callsign, suffix string, network NetworkWriter, tgFile string, makeUpper bool) *WiresX {
	wx := &WiresX{
		callsign:      callsign,
		network:       network,
		command:       make([]byte, 1100),
		timerDuration: time.Second,
		header:        make([]byte, 34),
		csd1:          make([]byte, 20),
		csd2:          make([]byte, 20),
		csd3:          make([]byte, 20),
		status:        InternalStatusNone,
		registry:      NewTalkGroupRegistry(makeUpper),
		bufferTX:      make([][]byte, 0),
		lastTX:        time.Now(),
		tgFile:        tgFile,
	}

	if tgFile != "" {
		if err := wx.registry.LoadFromFile(tgFile); err != nil {
			// Absent/unreadable TG-list file is not fatal at construction
			// time; the registry simply starts empty and a later reload
			// (or a corrected path) can populate it.
			_ = err
		}
	}

	// Build node name from callsign and suffix
	wx.node = callsign
	if len(suffix) > 0 {
		wx.node += "-" + suffix
	}

	// Pad to 10 characters
	if len(wx.node) > 10 {
		wx.node = wx.node[:10]
	} else {
		wx.node = wx.node + strings.Repeat(" ", 10-len(wx.node))
	}

	// Pad callsign to 10 characters
	if len(wx.callsign) > 10 {
		wx.callsign = wx.callsign[:10]
	} else {
		wx.callsign = wx.callsign + strings.Repeat(" ", 10-len(wx.callsign))
	}

	return wx
}

// currentRegistry returns the active TG registry under the reload mutex so
// a reload in progress is never observed half-swapped.
func (wx *WiresX) currentRegistry() *TalkGroupRegistry {
	wx.regMu.RLock()
	defer wx.regMu.RUnlock()
	return wx.registry
}

// StartTGListReload starts the periodic TG-list reload timer. Every
// `minutes` the configured TG-list file is re-parsed into a fresh registry
// and swapped in atomically under regMu; a parse failure leaves the
// previous list in place. No-op if minutes <= 0 or no TG-list file was
// configured.
func (wx *WiresX) StartTGListReload(minutes int) error {
	if minutes <= 0 || wx.tgFile == "" {
		return nil
	}

	wx.reloadCron = cron.New()
	spec := fmt.Sprintf("@every %dm", minutes)
	if _, err := wx.reloadCron.AddFunc(spec, wx.reloadTGList); err != nil {
		wx.reloadCron = nil
		return err
	}
	wx.reloadCron.Start()
	return nil
}

// StopTGListReload stops the reload timer, if running.
func (wx *WiresX) StopTGListReload() {
	if wx.reloadCron != nil {
		wx.reloadCron.Stop()
		wx.reloadCron = nil
	}
}

func (wx *WiresX) reloadTGList() {
	next := NewTalkGroupRegistry(wx.registry.makeUpper)
	if err := next.LoadFromFile(wx.tgFile); err != nil {
		return
	}

	wx.regMu.Lock()
	wx.registry = next
	wx.regMu.Unlock()
}

// SetStorage attaches the news-board store used by the NEWS/LIST/GET-MESSAGE
// and picture upload/download handlers. WiresX works without one: NEWS is
// still answered and picture uploads are still acknowledged but not stored,
// while LIST, GET-MESSAGE and picture-download requests get no reply. This
// matches a node that runs with WIRES-X command parsing but no configured
// news board path.
func (wx *WiresX) SetStorage(store *storage.Storage) {
	wx.storage = store
}

// SetInfo sets the repeater information
func (wx *WiresX) SetInfo(name string, txFrequency, rxFrequency uint32, dstID uint32) {
	wx.name = name
	wx.txFrequency = txFrequency
	wx.rxFrequency = rxFrequency
	wx.dstID = dstID

	// Truncate/pad name to 14 characters
	if len(name) > 14 {
		wx.name = name[:14]
	} else {
		wx.name = name + strings.Repeat(" ", 14-len(name))
	}

	// Generate repeater ID using hash
	hasher := fnv.New32a()
	hasher.Write([]byte(name))
	hash := hasher.Sum32()
	wx.id = fmt.Sprintf("%05d", hash%100000)

	// Initialize CSD fields
	for i := range wx.csd1 {
		wx.csd1[i] = '*'
	}
	for i := range wx.csd2 {
		wx.csd2[i] = ' '
	}
	for i := range wx.csd3 {
		wx.csd3[i] = ' '
	}

	// Set node in CSD1
	copy(wx.csd1[10:], wx.node[:10])

	// Set callsign in CSD2
	copy(wx.csd2[0:], wx.callsign[:10])

	// Set ID in CSD3
	copy(wx.csd3[0:], wx.id[:5])
	copy(wx.csd3[15:], wx.id[:5])

	// Initialize header
	copy(wx.header, NET_HEADER)
	copy(wx.header[4:], wx.callsign[:10])
	copy(wx.header[14:], wx.node[:10])
}

// wiresxBlockSize is the per-block span of wx.command, matching the
// original's m_command[bn*260 + ...] addressing: one fn==1 slice (20 bytes)
// plus up to six fn>=2 slices (40 bytes each).
const wiresxBlockSize = 260

// Process processes a WiresX command. bn/bt are the block-number/block-type
// FICH fields; a command spanning more than one block (e.g. a ~1024-byte
// UPLOAD-PICTURE DATA block) is only complete when both (fn,bn) == (ft,bt).
func (wx *WiresX) Process(data []byte, source []byte, fi, dt, fn, ft, bn, bt uint8) Status {
	// Only process data FR mode communications frames
	if dt != 1 || fi != 1 { // YSF_DT_DATA_FR_MODE, YSF_FI_COMMUNICATIONS
		return StatusNone
	}

	if fn == 0 {
		return StatusNone
	}

	blockBase := int(bn) * wiresxBlockSize

	// Extract command data (simplified - real implementation would use YSFPayload)
	if fn == 1 {
		// First frame of the block contains up to 20 bytes
		copyLen := 20
		if len(data) < copyLen {
			copyLen = len(data)
		}
		if blockBase+copyLen <= len(wx.command) {
			copy(wx.command[blockBase:blockBase+copyLen], data[:copyLen])
		}
	} else {
		// Subsequent frames of the block contain up to 40 bytes each
		offset := blockBase + int(fn-2)*40 + 20
		copyLen := 40
		if len(data) < copyLen {
			copyLen = len(data)
		}
		if offset+copyLen <= len(wx.command) {
			copy(wx.command[offset:offset+copyLen], data[:copyLen])
		}
	}

	// Check if this is the final frame of the final block
	if fn == ft && bn == bt {
		// Find the end marker (0x03) and verify the trailing additive checksum
		cmdLen := blockBase + int(fn-1)*40 + 20
		valid := false
		markerIdx := -1

		for i := cmdLen; i > 0; i-- {
			if i < len(wx.command) && wx.command[i] == 0x03 {
				if i+1 < len(wx.command) && correction.AddCRC(wx.command[:i+1]) == wx.command[i+1] {
					valid = true
					markerIdx = i
				}
				break
			}
		}

		if !valid {
			return StatusNone
		}

		if len(source) >= 10 {
			wx.lastSource = strings.TrimRight(string(source[:10]), " ")
		} else {
			wx.lastSource = strings.TrimRight(string(source), " ")
		}

		// Process different command types
		if len(wx.command) >= 4 {
			cmd := wx.command[1:4]

			switch {
			case bytesEqual(cmd, DX_REQ):
				wx.processDX(source)
				return StatusDX
			case bytesEqual(cmd, ALL_REQ):
				wx.processAll(source, wx.command[5:])
				return StatusAll
			case bytesEqual(cmd, CONN_REQ):
				return wx.processConnect(source, wx.command[4:])
			case bytesEqual(cmd, NEWS_REQ):
				wx.processNews(wx.command[5:])
				return StatusNews
			case bytesEqual(cmd, LIST_REQ):
				wx.processListDown(wx.command[5:])
				return StatusList
			case bytesEqual(cmd, GET_RSC):
				wx.processGetMessage(wx.command[5:])
				return StatusGetMessage
			case bytesEqual(cmd, MESSAGE_REC):
				return wx.processUploadMessage(source, wx.command[5:], false)
			case bytesEqual(cmd, MESSAGE_REC_GPS):
				return wx.processUploadMessage(source, wx.command[5:], true)
			case bytesEqual(cmd, PICT_REC_GPS):
				return wx.processUploadPicture(source, wx.command[5:], true)
			case bytesEqual(cmd, PICT_REC):
				return wx.processUploadPicture(source, wx.command[5:], false)
			case bytesEqual(cmd, PICT_DATA):
				wx.processPictureData(markerIdx)
				return StatusNone
			case bytesEqual(cmd, DISC_REQ):
				wx.processDisconnect(source)
				return StatusDisconnect
			case bytesEqual(cmd, CAT_REQ):
				wx.processCategory(source, wx.command[5:])
				return StatusNone
			}
		}

		return StatusFail
	}

	return StatusNone
}

// GetDstID returns the current destination ID
func (wx *WiresX) GetDstID() uint32 {
	return wx.dstID
}

// GetOpt returns the option value for a given ID
func (wx *WiresX) GetOpt(id uint32) uint32 {
	tg := wx.currentRegistry().FindByID(id)
	if tg != nil {
		opt, _ := strconv.ParseUint(tg.Opt, 10, 32)
		idFull, _ := strconv.ParseUint(tg.ID, 10, 32)
		wx.fullDstID = uint32(idFull)
		return uint32(opt)
	}

	wx.fullDstID = id
	return 0
}

// GetFullDstID returns the full destination ID
func (wx *WiresX) GetFullDstID() uint32 {
	return wx.fullDstID
}

// GetRepeaterID returns the repeater ID
func (wx *WiresX) GetRepeaterID() string {
	return wx.id
}

// ProcessConnect handles external connect requests
func (wx *WiresX) ProcessConnect(reflector uint32) {
	wx.dstID = reflector
	wx.status = InternalStatusConnect
	wx.startTimer()
}

// ProcessDisconnect handles external disconnect requests
func (wx *WiresX) ProcessDisconnect() {
	wx.status = InternalStatusDisconnect
	wx.startTimer()
}

// Clock updates the WiresX timer and processes pending responses
func (wx *WiresX) Clock(ms uint32) {
	// Check timer expiration
	if wx.timer != nil {
		select {
		case <-wx.timer.C:
			wx.handleTimerExpiry()
		default:
		}
	}

	// Check picture-download timer expiration (runs independently of the
	// main command/reply timer above)
	if wx.ptimer != nil {
		select {
		case <-wx.ptimer.C:
			wx.handlePictureTimerExpiry()
		default:
		}
	}

	// Handle TX buffer with rate limiting
	if time.Since(wx.lastTX) > 90*time.Millisecond && len(wx.bufferTX) > 0 {
		frame := wx.bufferTX[0]
		wx.bufferTX = wx.bufferTX[1:]

		if wx.network != nil {
			wx.network.Write(frame)
		}

		wx.lastTX = time.Now()
	}
}

// Private methods

func (wx *WiresX) processDX(source []byte) {
	wx.status = InternalStatusDX
	wx.startTimer()
}

func (wx *WiresX) processAll(source []byte, data []byte) {
	if len(data) < 5 {
		return
	}

	if data[0] == '0' && data[1] == '1' {
		// ALL request
		startStr := string(data[2:5])
		start, _ := strconv.Atoi(startStr)
		if start > 0 {
			start--
		}
		wx.start = start
		wx.status = InternalStatusAll
		wx.startTimer()
	} else if data[0] == '1' && data[1] == '1' {
		// SEARCH request
		startStr := string(data[2:5])
		start, _ := strconv.Atoi(startStr)
		if start > 0 {
			start--
		}
		wx.start = start

		if len(data) >= 21 {
			wx.search = string(data[5:21])
		}

		wx.status = InternalStatusSearch
		wx.startTimer()
	}
}

func (wx *WiresX) processConnect(source []byte, data []byte) Status {
	if len(data) < 6 {
		return StatusNone
	}

	idStr := string(data[:6])
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		return StatusNone
	}

	wx.dstID = uint32(id)
	wx.status = InternalStatusConnect
	wx.startTimer()

	return StatusConnect
}

func (wx *WiresX) processDisconnect(source []byte) {
	wx.status = InternalStatusDisconnect
	wx.startTimer()
}

func (wx *WiresX) processCategory(source []byte, data []byte) {
	// Category processing (simplified)
	wx.status = InternalStatusCategory
	wx.startTimer()
}

func (wx *WiresX) processNews(data []byte) {
	if len(data) < 5 {
		return
	}

	wx.newsSource = string(data[0:5])
	wx.status = InternalStatusNews
	wx.startTimer()
}

func (wx *WiresX) processListDown(data []byte) {
	if len(data) < 19 {
		return
	}

	wx.newsSource = string(data[0:5])
	wx.listType = data[10]

	start, _ := strconv.Atoi(string(data[17:19]))
	if start > 0 {
		start = (start - 1) / 2
	}
	wx.start = start

	wx.status = InternalStatusList
	wx.startTimer()
}

func (wx *WiresX) processGetMessage(data []byte) {
	if len(data) < 19 {
		return
	}

	number, _ := strconv.Atoi(string(data[14:19]))
	wx.getNumber = uint32(number)

	wx.status = InternalStatusGetMessage
	wx.startTimer()
}

// toMatchesUs reports whether a 5-digit "to" field from an upload addresses
// either the talk group currently in use or this node's own repeater ID.
func (wx *WiresX) toMatchesUs(to string) bool {
	return to == fmt.Sprintf("%05d", wx.dstID) || to == wx.id
}

func (wx *WiresX) processUploadMessage(source []byte, data []byte, hasGPS bool) Status {
	toOffset := 30
	serialOffset := 0
	if hasGPS {
		toOffset = 48
		serialOffset = 18
	}

	if len(data) < toOffset+5 {
		return StatusNone
	}

	if !wx.toMatchesUs(string(data[toOffset : toOffset+5])) {
		return StatusNone
	}

	if len(data) >= serialOffset+6 {
		wx.serial = append(wx.serial[:0], data[serialOffset:serialOffset+6]...)
	}

	if wx.storage != nil {
		wx.storage.StoreTextMessage(data, wx.lastSource, hasGPS)
	}

	wx.status = InternalStatusUpload
	wx.startTimer()

	return StatusUploadMessage
}

func (wx *WiresX) processUploadPicture(source []byte, data []byte, hasGPS bool) Status {
	toOffset := 30
	serialOffset := 0
	if hasGPS {
		toOffset = 48
		serialOffset = 18
	}

	if len(data) < toOffset+5 {
		return StatusNone
	}

	if !wx.toMatchesUs(string(data[toOffset : toOffset+5])) {
		return StatusNone
	}

	if len(data) >= serialOffset+6 {
		wx.serial = append(wx.serial[:0], data[serialOffset:serialOffset+6]...)
	}

	if wx.storage != nil {
		wx.storage.StorePicture(data, wx.lastSource, hasGPS)
	}

	// Unlike a message upload, a picture upload is only acknowledged once
	// its final data block arrives, in processPictureData below.
	return StatusUploadPicture
}

// processPictureData appends one picture-data block to the upload staged by
// processUploadPicture. markerIdx is the 0x03 end-of-command marker found by
// Process - the block itself runs from absolute offset 10 in wx.command up
// to that marker, skipping the 10-byte op-code and address header.
func (wx *WiresX) processPictureData(markerIdx int) {
	if markerIdx <= 10 || markerIdx > len(wx.command) {
		return
	}

	ref := wx.command[7]
	if wx.lastPictureRef == ref {
		return
	}
	wx.lastPictureRef = ref

	size := markerIdx - 10

	if wx.storage != nil {
		wx.storage.AddPictureData(wx.command[10:markerIdx])
	}

	if size < 1027 {
		wx.status = InternalStatusUpload
		wx.startTimer()
	}
}

func (wx *WiresX) startTimer() {
	if wx.timer != nil {
		wx.timer.Stop()
	}
	wx.timer = time.NewTimer(wx.timerDuration)
}

func (wx *WiresX) handleTimerExpiry() {
	switch wx.status {
	case InternalStatusDX:
		wx.sendDXReply()
	case InternalStatusAll:
		wx.sendAllReply()
	case InternalStatusSearch:
		wx.sendSearchReply()
	case InternalStatusConnect:
		// Connect response is handled externally
	case InternalStatusDisconnect:
		// Disconnect response is handled externally
	case InternalStatusCategory:
		wx.sendCategoryReply()
	case InternalStatusNews:
		wx.sendNewsReply()
	case InternalStatusList:
		wx.sendListReply()
	case InternalStatusGetMessage:
		wx.sendGetMessageReply()
	case InternalStatusUpload:
		wx.sendUploadReply()
	}

	wx.status = InternalStatusNone
	wx.timer = nil
}

func (wx *WiresX) startPictureTimer(d time.Duration) {
	if wx.ptimer != nil {
		wx.ptimer.Stop()
	}
	wx.ptimer = time.NewTimer(d)
}

func (wx *WiresX) handlePictureTimerExpiry() {
	switch wx.pictureState {
	case PictureBegin:
		wx.sendPictureBegin()
	case PictureData:
		wx.sendPictureData()
	case PictureEnd:
		wx.sendPictureEnd()
	}

	wx.ptimer = nil
}

func (wx *WiresX) sendDXReply() {
	data := wx.createDXResponse()
	wx.createReply(data)
	wx.seqNo++
}

func (wx *WiresX) sendAllReply() {
	data := wx.createAllResponse()
	wx.createReply(data)
	wx.seqNo++
}

func (wx *WiresX) sendSearchReply() {
	if len(wx.search) == 0 {
		wx.sendSearchNotFoundReply()
		return
	}

	results := wx.currentRegistry().Search(wx.search)
	if len(results) == 0 {
		wx.sendSearchNotFoundReply()
		return
	}

	data := wx.createSearchResponse(results)
	wx.createReply(data)
	wx.seqNo++
}

func (wx *WiresX) sendSearchNotFoundReply() {
	data := wx.createSearchNotFoundResponse()
	wx.createReply(data)
	wx.seqNo++
}

func (wx *WiresX) sendCategoryReply() {
	data := wx.createCategoryResponse()
	wx.createReply(data)
	wx.seqNo++
}

// SendConnectReply sends a connect response
func (wx *WiresX) SendConnectReply(dstID uint32) {
	wx.dstID = dstID
	data := wx.createConnectResponse(dstID)
	wx.createReply(data)
	wx.seqNo++
}

// SendDisconnectReply sends a disconnect response
func (wx *WiresX) SendDisconnectReply() {
	data := wx.createDisconnectResponse()
	wx.createReply(data)
	wx.seqNo++
}

func (wx *WiresX) sendNewsReply() {
	data := make([]byte, 25)
	data[0] = wx.seqNo
	copy(data[1:5], NEWS_RESP)
	copy(data[5:7], "01")
	copy(data[7:12], padField(wx.newsSource, 5))
	copy(data[12:22], "     00000")
	data[22] = 0x0D
	data[23] = 0x03
	data[24] = correction.AddCRC(data[:24])

	wx.createReply(data)
	wx.seqNo++
}

func (wx *WiresX) sendListReply() {
	if wx.storage == nil {
		return
	}

	body, err := wx.storage.GetList(wx.listType, wx.newsSource, uint32(wx.start))
	if err != nil {
		return
	}

	offset := 5 + len(body)
	data := make([]byte, offset+2)
	data[0] = wx.seqNo
	copy(data[1:5], LIST_RESP)
	copy(data[5:], body)
	data[offset] = 0x03
	data[offset+1] = correction.AddCRC(data[:offset+1])

	wx.createReply(data)
	wx.seqNo++
}

func (wx *WiresX) sendGetMessageReply() {
	if wx.storage == nil {
		return
	}

	body, err := wx.storage.GetMessage(wx.getNumber, wx.newsSource)
	if err != nil || len(body) == 0 {
		return
	}

	data := make([]byte, len(body)+2)
	copy(data, body)
	data[0] = wx.seqNo
	if body[0] == 'T' {
		copy(data[1:5], GET_RESP)
	} else {
		copy(data[1:5], PICT_PREAMBLE_RESP)
	}
	data[len(body)] = 0x03
	data[len(body)+1] = correction.AddCRC(data[:len(body)+1])

	if body[0] == 'T' {
		wx.createReply(data)
		wx.seqNo++
		return
	}

	wx.createReply(data)
	wx.seqNo += 3

	wx.pictureState = PictureBegin
	wx.startPictureTimer(1500 * time.Millisecond)
}

func (wx *WiresX) sendPictureBegin() {
	if wx.storage == nil {
		return
	}

	body, err := wx.storage.GetPictureHeader(wx.getNumber, wx.newsSource)
	if err != nil || len(body) == 0 {
		return
	}

	data := make([]byte, len(body)+2)
	copy(data, body)
	data[0] = wx.seqNo
	copy(data[1:5], PICT_BEGIN_RESP)
	data[len(body)] = 0x03
	data[len(body)+1] = correction.AddCRC(data[:len(body)+1])

	wx.createReply(data)
	wx.seqNo++

	wx.pictureCount = 0
	wx.pictureState = PictureData
	wx.startPictureTimer(1500 * time.Millisecond)
}

func (wx *WiresX) sendPictureData() {
	if wx.storage == nil {
		return
	}

	body, err := wx.storage.GetPictureData(wx.pictureCount)
	if err != nil {
		return
	}

	written := len(body) - 5
	wx.pictureCount += uint32(written)

	offset := 5 + len(body)
	data := make([]byte, offset+2)
	data[0] = wx.seqNo
	copy(data[1:5], PICT_DATA_RESP)
	copy(data[5:], body)
	data[offset] = 0x03
	data[offset+1] = correction.AddCRC(data[:offset+1])

	wx.createReply(data)
	wx.seqNo++

	if written == 1024 {
		wx.pictureState = PictureData
		wx.startPictureTimer(4500 * time.Millisecond)
	} else {
		wx.pictureState = PictureEnd
		ms := written * 5000 / 1024
		wx.startPictureTimer(time.Duration(ms) * time.Millisecond)
	}
}

func (wx *WiresX) sendPictureEnd() {
	if wx.storage == nil {
		return
	}

	seq := wx.storage.GetPictureSeq()
	sum := wx.storage.GetSumCheck()

	data := make([]byte, 14)
	data[0] = wx.seqNo
	copy(data[1:5], PICT_END_RESP)
	data[5] = 0x50
	data[6] = 0x00
	data[7] = seq
	data[8] = 0x00
	data[9] = byte((sum >> 16) & 0xFF)
	data[10] = byte((sum >> 8) & 0xFF)
	data[11] = byte(sum & 0xFF)
	data[12] = 0x03
	data[13] = correction.AddCRC(data[:13])

	wx.createReply(data)
	wx.seqNo++

	wx.pictureState = PictureNone
}

func (wx *WiresX) sendUploadReply() {
	data := make([]byte, 28)
	data[0] = wx.seqNo
	copy(data[1:5], UPLOAD_RESP)
	copy(data[5:11], wx.serial)
	copy(data[11:16], padField(wx.talkyKey(), 5))
	copy(data[16:26], padField(wx.lastSource, 10))
	data[26] = 0x03
	data[27] = correction.AddCRC(data[:27])

	wx.createReply(data)
	wx.seqNo++
}

// talkyKey returns the configured news-board talky key, or an empty string
// when no storage is attached.
func (wx *WiresX) talkyKey() string {
	if wx.storage == nil {
		return ""
	}
	return wx.storage.TalkyKey()
}

// padField truncates or space-pads s to exactly n bytes and returns the
// result as a byte slice.
func padField(s string, n int) []byte {
	if len(s) >= n {
		return []byte(s[:n])
	}
	return []byte(s + strings.Repeat(" ", n-len(s)))
}

// calculateFT picks the YSF frame-type value that tells a receiver how many
// more 40-byte blocks remain in the current 260-byte block, given the total
// reply length and how far into it this frame starts.
func calculateFT(length, offset int) uint8 {
	remaining := length - offset

	switch {
	case remaining > 220:
		return 7
	case remaining > 180:
		return 6
	case remaining > 140:
		return 5
	case remaining > 100:
		return 4
	case remaining > 60:
		return 3
	case remaining > 20:
		return 2
	default:
		return 1
	}
}

// createReply splits a command reply into 155-byte YSF frames: one HEADER
// frame, a run of COMMUNICATIONS frames carrying the reply payload 20 (or,
// for the first frame of a block after the first, 19 plus a leading zero
// byte) bytes at FN=1 and 40 bytes at FN>=2, and a final TERMINATOR frame.
// The per-frame net-counter byte (offset 34) starts at 0 and increments by
// 2 per frame; the terminator's counter has its low bit set so a receiver
// can recognise the end of the reply without re-parsing FI.
//
// A zero-length reply emits just the HEADER and TERMINATOR frames.
func (wx *WiresX) createReply(data []byte) {
	dst := wx.lastSource
	if dst == "" {
		dst = "ALL"
	}

	type pendingFrame struct {
		fi, bn, bt, fn, ft uint8
		payload            []byte
	}

	var frames []pendingFrame

	length := len(data)
	var bt uint8
	if length > 260 {
		bt = 1 + uint8((length-260)/259)
	}

	padded := length
	if padded > 20 {
		blocks := (padded - 20) / 40
		if (padded-20)%40 > 0 {
			blocks++
		}
		padded = blocks*40 + 20
	} else {
		padded = 20
	}

	ft := calculateFT(padded, 0)
	frames = append(frames, pendingFrame{fi: protocol.YSF_FI_HEADER, bt: bt, ft: ft})

	if length > 0 {
		fn := uint8(0)
		bn := uint8(0)
		offset := 0

		for offset < padded {
			var payload []byte

			switch fn {
			case 0:
				ft = calculateFT(padded, offset)
			case 1:
				chunk := make([]byte, 20)
				take := 20
				start := 0
				if bn > 0 {
					take = 19
					start = 1
				}
				n := min(take, max(0, length-offset))
				copy(chunk[start:start+n], data[offset:offset+n])
				payload = chunk
				offset += take
			default:
				chunk := make([]byte, 40)
				n := min(40, max(0, length-offset))
				copy(chunk[:n], data[offset:offset+n])
				payload = chunk
				offset += 40
			}

			frames = append(frames, pendingFrame{fi: protocol.YSF_FI_COMMUNICATIONS, bn: bn, bt: bt, fn: fn, ft: ft, payload: payload})

			fn++
			if fn >= 8 {
				fn = 0
				bn++
			}
		}

		frames = append(frames, pendingFrame{fi: protocol.YSF_FI_TERMINATOR, bn: bn, bt: bt, fn: fn, ft: ft})
	} else {
		frames = append(frames, pendingFrame{fi: protocol.YSF_FI_TERMINATOR})
	}

	seq := uint8(0)
	for i, pf := range frames {
		payload := make([]byte, 90)
		copy(payload, pf.payload)

		frame := (&ysf.Frame{
			SourceCallsign: strings.TrimRight(wx.node, " "),
			DestCallsign:   dst,
			FICH: ysf.FICH{
				FI: pf.fi,
				DT: protocol.YSF_DT_DATA_FR_MODE,
				BN: pf.bn,
				BT: pf.bt,
				FN: pf.fn,
				FT: pf.ft,
			},
			Payload: payload,
		}).Build()

		s := seq
		if i == len(frames)-1 {
			s |= 0x01
		}
		frame[34] = s
		seq += 2

		wx.bufferTX = append(wx.bufferTX, frame)
	}
}

// Response creation methods
func (wx *WiresX) createDXResponse() []byte {
	data := make([]byte, 129)

	// Initialize with spaces
	for i := 0; i < 128; i++ {
		data[i] = ' '
	}

	data[0] = wx.seqNo

	// Response type
	copy(data[1:], DX_RESP)

	// Repeater ID
	copy(data[5:], wx.id[:5])

	// Node
	copy(data[10:], wx.node[:10])

	// Name
	copy(data[20:], wx.name[:14])

	if wx.dstID == 0 {
		data[34] = '1'
		data[35] = '2'
		copy(data[57:], "000")
	} else {
		data[34] = '1'
		data[35] = '5'

		dstIDStr := fmt.Sprintf("%05d", wx.dstID)
		copy(data[36:], dstIDStr)

		var name string
		if wx.dstID == 9 {
			name = "LOCAL"
		} else if wx.dstID == 9990 {
			name = "PARROT"
		} else if wx.dstID == 4000 {
			name = "UNLINK"
		} else {
			name = fmt.Sprintf("TG %d", wx.dstID)
		}

		if len(name) < 16 {
			name = name + strings.Repeat(" ", 16-len(name))
		}

		copy(data[41:], name[:16])
		copy(data[57:], "000")
		copy(data[70:], "Descripcion   ")
	}

	// Frequency information
	var offset uint32
	var sign byte
	if wx.txFrequency >= wx.rxFrequency {
		offset = wx.txFrequency - wx.rxFrequency
		sign = '-'
	} else {
		offset = wx.rxFrequency - wx.txFrequency
		sign = '+'
	}

	freqHz := wx.txFrequency % 1000000
	freqkHz := (freqHz + 500) / 1000

	freq := fmt.Sprintf("%05d.%03d000%c%03d.%06d",
		wx.txFrequency/1000000, freqkHz, sign,
		offset/1000000, offset%1000000)

	copy(data[84:], freq[:23])

	data[127] = 0x03 // End marker
	data[128] = correction.AddCRC(data[:128])

	return data
}

func (wx *WiresX) createConnectResponse(dstID uint32) []byte {
	data := make([]byte, 91)

	// Initialize with spaces
	for i := 0; i < 90; i++ {
		data[i] = ' '
	}

	data[0] = wx.seqNo
	copy(data[1:], CONN_RESP)
	copy(data[5:], wx.id[:5])
	copy(data[10:], wx.node[:10])
	copy(data[20:], wx.name[:14])

	data[34] = '1'
	data[35] = '5'

	dstIDStr := fmt.Sprintf("%05d", dstID)
	copy(data[36:], dstIDStr)

	var name string
	if dstID == 9 {
		name = "LOCAL"
	} else if dstID == 9990 {
		name = "PARROT"
	} else if dstID == 4000 {
		name = "UNLINK"
	} else {
		name = fmt.Sprintf("TG %d", dstID)
	}

	if len(name) < 16 {
		name = name + strings.Repeat(" ", 16-len(name))
	}

	copy(data[41:], name[:16])
	copy(data[57:], "000")
	copy(data[70:], "Descripcion   ")
	copy(data[84:], "00000")

	data[89] = 0x03 // End marker
	data[90] = correction.AddCRC(data[:90])

	return data
}

func (wx *WiresX) createDisconnectResponse() []byte {
	data := make([]byte, 91)

	// Initialize with spaces
	for i := 0; i < 90; i++ {
		data[i] = ' '
	}

	data[0] = wx.seqNo
	copy(data[1:], DISC_RESP)
	copy(data[5:], wx.id[:5])
	copy(data[10:], wx.node[:10])
	copy(data[20:], wx.name[:14])

	data[34] = '1'
	data[35] = '2'
	copy(data[57:], "000")

	data[89] = 0x03 // End marker
	data[90] = correction.AddCRC(data[:90])

	return data
}

func (wx *WiresX) createAllResponse() []byte {
	total := wx.currentRegistry().GetCount()
	if total > 999 {
		total = 999
	}

	n := total - wx.start
	if n > 20 {
		n = 20
	}

	talkGroups := wx.currentRegistry().GetAll(wx.start, n)

	// Calculate response size
	size := 29 + n*50 + (1029-29-n*50) + 2
	data := make([]byte, size)

	data[0] = wx.seqNo
	copy(data[1:], ALL_RESP)
	data[5] = '2'
	data[6] = '1'
	copy(data[7:], wx.id[:5])
	copy(data[12:], wx.node[:10])

	countStr := fmt.Sprintf("%03d%03d", n, total)
	copy(data[22:], countStr)
	data[28] = 0x0D

	offset := 29
	for _, tg := range talkGroups {
		// Initialize with spaces
		for j := 0; j < 50; j++ {
			data[offset+j] = ' '
		}

		data[offset] = '5'
		copy(data[offset+1:], tg.ID[2:7]) // Use last 5 digits
		copy(data[offset+6:], tg.Name)
		copy(data[offset+22:], "000")
		copy(data[offset+35:], tg.Desc)
		data[offset+49] = 0x0D

		offset += 50
	}

	// Pad to 1029
	for i := offset; i < 1029; i++ {
		data[i] = 0x20
	}
	offset = 1029

	data[offset] = 0x03 // End marker
	data[offset+1] = correction.AddCRC(data[:offset+1])

	return data[:offset+2]
}

func (wx *WiresX) createSearchResponse(results []TalkGroup) []byte {
	total := len(results)
	if total > 999 {
		total = 999
	}

	n := len(results) - wx.start
	if n > 20 {
		n = 20
	}

	if wx.start < len(results) {
		results = results[wx.start:]
	} else {
		results = nil
		n = 0
	}

	if n > len(results) {
		n = len(results)
	}

	// Calculate response size
	size := 29 + n*50 + (1029-29-n*50) + 2
	data := make([]byte, size)

	data[0] = wx.seqNo
	copy(data[1:], ALL_RESP)
	data[5] = '0'
	data[6] = '2'
	copy(data[7:], wx.id[:5])
	copy(data[12:], wx.node[:10])
	data[22] = '1'

	countStr := fmt.Sprintf("%02d%03d", n, total)
	copy(data[23:], countStr)
	data[28] = 0x0D

	offset := 29
	for i := 0; i < n; i++ {
		tg := results[i]

		// Initialize with spaces
		for j := 0; j < 50; j++ {
			data[offset+j] = ' '
		}

		data[offset] = '1'
		copy(data[offset+1:], tg.ID[2:7]) // Use last 5 digits
		copy(data[offset+6:], strings.ToUpper(tg.Name))
		copy(data[offset+22:], "000")
		copy(data[offset+35:], tg.Desc)
		data[offset+49] = 0x0D

		offset += 50
	}

	// Pad to 1029
	for i := offset; i < 1029; i++ {
		data[i] = 0x20
	}
	offset = 1029

	data[offset] = 0x03 // End marker
	data[offset+1] = correction.AddCRC(data[:offset+1])

	return data[:offset+2]
}

func (wx *WiresX) createSearchNotFoundResponse() []byte {
	data := make([]byte, 31)

	data[0] = wx.seqNo
	copy(data[1:], ALL_RESP)
	data[5] = '0'
	data[6] = '1'
	copy(data[7:], wx.id[:5])
	copy(data[12:], wx.node[:10])
	data[22] = '1'
	copy(data[23:], "00000")
	data[28] = 0x0D
	data[29] = 0x03 // End marker
	data[30] = correction.AddCRC(data[:30])

	return data
}

func (wx *WiresX) createCategoryResponse() []byte {
	// Simplified category response
	return wx.createAllResponse()
}

// Utility function
func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}