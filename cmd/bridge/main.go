package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dbehnke/dvbridge/internal/aprs"
	"github.com/dbehnke/dvbridge/internal/codec"
	"github.com/dbehnke/dvbridge/internal/config"
	"github.com/dbehnke/dvbridge/internal/database"
	"github.com/dbehnke/dvbridge/internal/dtmf"
	"github.com/dbehnke/dvbridge/internal/logging"
	"github.com/dbehnke/dvbridge/internal/lookup"
	"github.com/dbehnke/dvbridge/internal/metrics"
	"github.com/dbehnke/dvbridge/internal/network"
	"github.com/dbehnke/dvbridge/internal/protocol"
	"github.com/dbehnke/dvbridge/internal/protocol/dmr"
	"github.com/dbehnke/dvbridge/internal/protocol/ysf"
	"github.com/dbehnke/dvbridge/internal/radioid"
	"github.com/dbehnke/dvbridge/internal/storage"
	"github.com/dbehnke/dvbridge/internal/wiresx"
)

const (
	VERSION      = "1.0.0-go"
	DMR_FRAME_PER = 55 * time.Millisecond // DMR frame period
	YSF_FRAME_PER = 90 * time.Millisecond // YSF frame period
)

var (
	HEADER1 = "This software is for use on amateur radio networks only,"
	HEADER2 = "it is to be used for educational purposes only. Its use on"
	HEADER3 = "commercial networks is strictly prohibited."
	HEADER4 = "Copyright(C) 2018,2019 by CA6JAU, EA7EE, G4KLX, AD8DP and others"
	HEADER5 = "Go bridge implementation"
)

// CallState represents the current call state
type CallState int

const (
	CallStateIdle CallState = iota
	CallStateYSF            // Receiving YSF, transmitting DMR
	CallStateDMR            // Receiving DMR, transmitting YSF
)

// Gateway bridges a YSF reflector and a DMR network, converting AMBE voice
// traffic between the two in real time.
type Gateway struct {
	config     *config.Config
	log        *logging.Logger
	wiresX     *wiresx.WiresX
	modeConv   *codec.ModeConv
	ysfNetwork *network.YSFNetwork
	dmrNetwork *network.DMRNetwork
	dmrLookup  lookup.DMRLookupInterface // Can be file-based or database-backed
	running    bool
	mu         sync.RWMutex

	// Database components (when database mode is enabled)
	db     *database.DB
	syncer *radioid.Syncer

	// APRS position beaconing and reverse-GPS cache
	aprsWriter *aprs.Writer
	aprsReader *aprs.Reader

	// In-band DTMF talk-group selection (YSF voice mode 2)
	dtmfDecoder *dtmf.Decoder

	// Prometheus metrics and HTTP exporter
	metrics         *metrics.Metrics
	metricsRegistry *prometheus.Registry
	metricsServer   *http.Server

	// Conversion state
	ysfFrames uint32
	dmrFrames uint32

	// Network state
	networkWatchdog time.Time
	ysfWatch        time.Time
	dmrWatch        time.Time

	// Current call state
	callState     CallState
	currentSrcID  uint32
	currentDstID  uint32
	currentStream uint32
	hangTimer     *time.Timer
	hangTime      time.Duration

	// Network timing for Clock() calls
	lastClock time.Time

	// Network error recovery
	dmrReconnectTimer *time.Timer
	dmrLastConnected  time.Time
	ysfErrorCount     int
	dmrErrorCount     int
}

// Define call hang time constants
const (
	DEFAULT_HANG_TIME = 3 * time.Second
	DMR_SLOT_1        = 1
	DMR_SLOT_2        = 2

	// Network error recovery constants
	DMR_RECONNECT_INTERVAL   = 30 * time.Second
	DMR_CONNECTION_CHECK     = 60 * time.Second
	MAX_NETWORK_ERRORS       = 5
	NETWORK_ERROR_RESET_TIME = 5 * time.Minute
)

// NewGateway creates a new bridge gateway from a configuration file.
func NewGateway(configFile string, log *logging.Logger) (*Gateway, error) {
	cfg := config.NewConfig(configFile)
	if err := cfg.Load(); err != nil {
		return nil, fmt.Errorf("failed to load config: %v", err)
	}

	modeConv := codec.NewModeConv()
	modeConv.SetDebug(cfg.GetYSFDebug() || cfg.GetDMRNetworkDebug())
	modeConv.LoadTable(cfg.GetAMBECompA(), cfg.GetAMBECompB())

	// Initialize YSF Network - use server mode to listen for incoming YSF packets
	ysfNet := network.NewYSFNetworkServer(
		cfg.GetLocalAddress(),
		int(cfg.GetLocalPort()),
		cfg.GetCallsign(),
		cfg.GetYSFDebug(),
	)

	// Set destination for outgoing YSF packets
	err := ysfNet.SetDestinationByString(cfg.GetDstAddress(), int(cfg.GetDstPort()))
	if err != nil {
		return nil, fmt.Errorf("failed to set YSF destination: %v", err)
	}

	// Initialize DMR Network
	dmrNet, err := network.NewDMRNetwork(
		cfg.GetDMRNetworkAddress(),
		int(cfg.GetDMRNetworkPort()),
		cfg.GetDMRNetworkLocal(), // Local port for DMR socket binding (0 = any port)
		cfg.GetDMRId(),
		cfg.GetDMRNetworkPassword(),
		cfg.GetDMRNetworkOptions() != "", // duplex mode if options exist
		VERSION,
		cfg.GetDMRNetworkDebug(),
		true, // slot1 - use default for now
		true, // slot2 - use default for now
		protocol.HW_TYPE_HOMEBREW, // Default to homebrew for now
		int(cfg.GetDMRNetworkJitter()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create DMR network: %v", err)
	}

	// Set DMR network configuration
	dmrNet.SetConfig(
		cfg.GetCallsign(),
		cfg.GetRxFrequency(),
		cfg.GetTxFrequency(),
		cfg.GetPower(),
		uint32(cfg.GetDMRColorCode()),
		float32(cfg.GetLatitude()),
		float32(cfg.GetLongitude()),
		int(cfg.GetHeight()),
		cfg.GetLocation(),
		cfg.GetDescription(),
		cfg.GetURL(),
	)

	// Set DMR options if provided
	if cfg.GetDMRNetworkOptions() != "" {
		dmrNet.SetOptions(cfg.GetDMRNetworkOptions())
	}

	// Initialize WiresX if enabled
	var wx *wiresx.WiresX
	if cfg.GetEnableWiresX() {
		wx = wiresx.NewWiresX(
			cfg.GetCallsign(),
			cfg.GetSuffix(),
			ysfNet,
			cfg.GetDMRTGListFile(),
			cfg.GetWiresXMakeUpper(),
		)
		wx.SetInfo(
			cfg.GetDescription(),
			cfg.GetTxFrequency(),
			cfg.GetRxFrequency(),
			cfg.GetDMRDstId(),
		)
		wx.SetStorage(storage.New(cfg.GetNewsBoardPath(), cfg.GetWiresXTalkyKey()))
	}

	// Initialize DMR Lookup (database-backed or file-based)
	dmrLookup, db, syncer := initializeDMRLookup(cfg, log)

	// Initialize APRS position beaconing and reverse-GPS cache, if enabled
	var aprsWriter *aprs.Writer
	var aprsReader *aprs.Reader
	if cfg.GetAPRSEnabled() {
		aprsWriter = aprs.NewWriter(cfg.GetAPRSCallsign(), cfg.GetSuffix(), cfg.GetAPRSPassword(), cfg.GetAPRSServer(), cfg.GetAPRSPort())
		aprsWriter.SetInfo(
			cfg.GetCallsign(),
			cfg.GetTxFrequency(),
			cfg.GetRxFrequency(),
			cfg.GetLatitude(),
			cfg.GetLongitude(),
			cfg.GetHeight(),
			cfg.GetAPRSDescription(),
			cfg.GetAPRSIcon(),
			cfg.GetAPRSBeaconText(),
			cfg.GetAPRSBeaconTime(),
		)
		if cfg.GetAPRSAPIKey() != "" {
			aprsReader = aprs.NewReader(cfg.GetAPRSAPIKey())
		}
	}

	// Prometheus metrics, registered regardless of whether the HTTP exporter
	// is enabled so counters are never nil in the hot path.
	registry := prometheus.NewRegistry()
	met := metrics.New(registry)

	now := time.Now()
	gateway := &Gateway{
		config:           cfg,
		log:              log,
		wiresX:           wx,
		modeConv:         modeConv,
		ysfNetwork:       ysfNet,
		dmrNetwork:       dmrNet,
		dmrLookup:        dmrLookup,
		db:               db,
		syncer:           syncer,
		aprsWriter:       aprsWriter,
		aprsReader:       aprsReader,
		dtmfDecoder:      dtmf.NewDecoder(),
		metrics:          met,
		metricsRegistry:  registry,
		callState:        CallStateIdle,
		networkWatchdog:  now,
		ysfWatch:         now,
		dmrWatch:         now,
		lastClock:        now,
		hangTime:         time.Duration(cfg.GetHangTime()) * time.Second,
		currentDstID:     cfg.GetDMRDstId(), // Default destination
		dmrLastConnected: now,
		ysfErrorCount:    0,
		dmrErrorCount:    0,
	}

	// Set default hang time if not configured
	if gateway.hangTime == 0 {
		gateway.hangTime = DEFAULT_HANG_TIME
	}

	return gateway, nil
}

// formatDMRAddress formats a DMR ID with callsign lookup (matching C++ behavior)
func (g *Gateway) formatDMRAddress(id uint32, isGroup bool) string {
	if g.dmrLookup != nil {
		callsign := g.dmrLookup.FindCS(id)
		if isGroup {
			return fmt.Sprintf("TG %s", callsign)
		}
		return callsign
	}

	// Fallback if no lookup available
	if isGroup {
		return fmt.Sprintf("TG %d", id)
	}
	return fmt.Sprintf("%d", id)
}

// Run starts the gateway main loop
func (g *Gateway) Run(ctx context.Context) error {
	g.mu.Lock()
	g.running = true
	g.mu.Unlock()

	g.log.Sugar().Infof("bridge v%s starting", VERSION)
	g.log.Sugar().Infof("Callsign: %s-%s", g.config.GetCallsign(), g.config.GetSuffix())
	g.log.Sugar().Infof("YSF: %s:%d -> %s:%d",
		g.config.GetLocalAddress(), g.config.GetLocalPort(),
		g.config.GetDstAddress(), g.config.GetDstPort())
	g.log.Sugar().Infof("DMR: %s:%d (ID: %d)",
		g.config.GetDMRNetworkAddress(), g.config.GetDMRNetworkPort(),
		g.config.GetDMRId())

	if g.config.GetEnableWiresX() {
		g.log.Sugar().Info("WiresX enabled")
	}

	// Open networks
	if err := g.ysfNetwork.Open(); err != nil {
		return fmt.Errorf("failed to open YSF network: %v", err)
	}

	if err := g.dmrNetwork.Open(); err != nil {
		g.ysfNetwork.Close()
		return fmt.Errorf("failed to open DMR network: %v", err)
	}

	// Enable DMR network
	g.dmrNetwork.Enable(true)

	// Open the APRS-IS session, if configured
	aprsTicker := time.NewTicker(time.Second)
	if g.aprsWriter != nil {
		if err := g.aprsWriter.Open(); err != nil {
			g.log.Sugar().Warnf("APRS-IS connection failed: %v", err)
		}
	}

	// Start the WIRES-X TG-list periodic reload, if configured
	if g.wiresX != nil {
		if err := g.wiresX.StartTGListReload(int(g.config.GetTGListReloadTime())); err != nil {
			g.log.Sugar().Warnf("WiresX TG-list reload not started: %v", err)
		}
	}

	// Start the Prometheus /metrics HTTP exporter, if enabled
	if g.config.GetMetricsEnabled() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(g.metricsRegistry))
		g.metricsServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", g.config.GetMetricsPort()),
			Handler: mux,
		}
		go func() {
			if err := g.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				g.log.Sugar().Warnf("metrics server error: %v", err)
			}
		}()
		g.log.Sugar().Infof("Metrics exporter listening on :%d/metrics", g.config.GetMetricsPort())
	}

	// Setup periodic timers
	ysfTicker := time.NewTicker(YSF_FRAME_PER)
	dmrTicker := time.NewTicker(DMR_FRAME_PER)
	statsTicker := time.NewTicker(30 * time.Second)
	networkTicker := time.NewTicker(10 * time.Millisecond) // Network Clock() timing
	ysfPollTicker := time.NewTicker(5 * time.Second)       // YSF keep-alive poll messages

	defer func() {
		ysfTicker.Stop()
		dmrTicker.Stop()
		statsTicker.Stop()
		aprsTicker.Stop()
		if g.wiresX != nil {
			g.wiresX.StopTGListReload()
		}
		if g.aprsWriter != nil {
			g.aprsWriter.Close()
		}
		if g.metricsServer != nil {
			g.metricsServer.Close()
		}
		networkTicker.Stop()
		ysfPollTicker.Stop()
		if g.hangTimer != nil {
			g.hangTimer.Stop()
		}
		if g.dmrReconnectTimer != nil {
			g.dmrReconnectTimer.Stop()
		}
		g.ysfNetwork.Close()
		g.dmrNetwork.Close()
		if g.dmrLookup != nil {
			g.dmrLookup.Stop()
		}
	}()

	g.log.Sugar().Info("Gateway running - press Ctrl+C to stop")

	for {
		select {
		case <-ctx.Done():
			g.log.Sugar().Info("Shutdown requested")
			g.mu.Lock()
			g.running = false
			g.mu.Unlock()
			return nil

		case <-networkTicker.C:
			// Call Clock() methods for networks - this is critical for DMR authentication
			now := time.Now()
			elapsed := int(now.Sub(g.lastClock).Milliseconds())
			g.lastClock = now

			g.ysfNetwork.Clock(elapsed)
			g.dmrNetwork.Clock(elapsed)

			// Process network data after Clock() calls
			if err := g.processNetworks(); err != nil {
				g.log.Sugar().Warnf("Network processing error: %v", err)
			}

		case <-ysfTicker.C:
			if err := g.processYSFTimer(); err != nil {
				g.log.Sugar().Warnf("YSF timer error: %v", err)
			}

		case <-dmrTicker.C:
			if err := g.processDMRTimer(); err != nil {
				g.log.Sugar().Warnf("DMR timer error: %v", err)
			}

		case <-statsTicker.C:
			g.printStats()

		case <-aprsTicker.C:
			if g.aprsWriter != nil {
				g.aprsWriter.Clock(time.Second)
			}

		case <-ysfPollTicker.C:
			// Send YSF poll message for keep-alive
			if err := g.ysfNetwork.WritePoll(); err != nil {
				g.log.Sugar().Warnf("YSF poll error: %v", err)
				g.ysfErrorCount++
			}

		default:
			// Process WiresX if enabled
			if g.wiresX != nil {
				g.wiresX.Clock(uint32(time.Since(g.ysfWatch).Milliseconds()))
			}

			// Check hang timer
			g.checkHangTimer()

			// Monitor network health and handle recovery
			g.monitorNetworkHealth()

			// Small sleep to prevent busy loop
			time.Sleep(time.Millisecond)
		}
	}
}

// processNetworks handles incoming data from both networks
func (g *Gateway) processNetworks() error {
	// Process YSF network data
	ysfBuffer := make([]byte, 200) // Buffer for YSF frames
	if bytesRead := g.ysfNetwork.Read(ysfBuffer); bytesRead > 0 {
		ysfData := ysfBuffer[:bytesRead]
		if err := g.processYSFData(ysfData); err != nil {
			g.log.Sugar().Warnf("YSF data processing error: %v", err)
		}
	}

	// Process DMR network data
	dmrData := protocol.NewDMRData()
	if g.dmrNetwork.Read(dmrData) {
		if err := g.processDMRData(dmrData); err != nil {
			g.log.Sugar().Warnf("DMR data processing error: %v", err)
		}
	}

	return nil
}

// processYSFData processes incoming YSF data
func (g *Gateway) processYSFData(data []byte) error {
	// Parse YSF frame
	frame := &ysf.Frame{}
	if err := frame.Parse(data); err != nil {
		return fmt.Errorf("YSF frame parse error: %v", err)
	}

	g.log.Sugar().Debugf("YSF: %s -> %s (%s)", frame.SourceCallsign, frame.DestCallsign, frame.FICH.String())

	// Update call state if this is the start of a new call (header frame)
	if frame.IsHeader() {
		g.startYSFCall(frame.SourceCallsign)
		g.modeConv.PutDMRHeader()
		g.dtmfDecoder.Reset()
	}

	// Handle terminator frames
	if frame.IsTerminator() {
		g.modeConv.PutDMREOT()
		g.endCall()
	}

	// Process WiresX if enabled and this is a data frame
	if g.wiresX != nil && frame.IsData() {
		status := g.wiresX.Process(frame.Payload, []byte(frame.SourceCallsign),
			frame.FICH.FI, frame.FICH.DT, frame.FICH.FN, frame.FICH.FT,
			frame.FICH.BN, frame.FICH.BT)

		switch status {
		case wiresx.StatusConnect:
			dstID := g.wiresX.GetDstID()
			tgStr := g.formatDMRAddress(dstID, true) // TG is always a group
			g.log.Sugar().Infof("WiresX connect to %s", tgStr)
			g.currentDstID = dstID
			g.wiresX.SendConnectReply(dstID)
			g.metrics.WiresXCommands.WithLabelValues("connect").Inc()
			g.metrics.CurrentTalkGroup.Set(float64(dstID))
		case wiresx.StatusDisconnect:
			g.log.Sugar().Info("WiresX disconnect")
			g.currentDstID = 0
			g.wiresX.SendDisconnectReply()
			g.metrics.WiresXCommands.WithLabelValues("disconnect").Inc()
			g.metrics.CurrentTalkGroup.Set(0)
		case wiresx.StatusDX:
			g.log.Sugar().Debug("WiresX DX request")
			g.metrics.WiresXCommands.WithLabelValues("dx").Inc()
		case wiresx.StatusAll:
			g.log.Sugar().Debug("WiresX ALL request")
			g.metrics.WiresXCommands.WithLabelValues("all").Inc()
		case wiresx.StatusNews:
			g.log.Sugar().Debug("WiresX NEWS request")
			g.metrics.WiresXCommands.WithLabelValues("news").Inc()
		case wiresx.StatusList:
			g.log.Sugar().Debug("WiresX LIST request")
			g.metrics.WiresXCommands.WithLabelValues("list").Inc()
		case wiresx.StatusGetMessage:
			g.log.Sugar().Debug("WiresX GET MESSAGE request")
			g.metrics.WiresXCommands.WithLabelValues("get_message").Inc()
		case wiresx.StatusUploadMessage:
			g.log.Sugar().Debug("WiresX message upload received")
			g.metrics.PictureUploads.Inc()
		case wiresx.StatusUploadPicture:
			g.log.Sugar().Debug("WiresX picture upload block received")
			g.metrics.PictureUploads.Inc()
		}
	}

	// Voice-mode-2 frames may carry an in-band DTMF talk-group request in
	// place of a WIRES-X command frame; feed the payload's data byte to
	// the decoder and synthesize the same connect/disconnect path.
	if frame.FICH.DT == protocol.YSF_DT_VD_MODE2 && len(frame.Payload) > 35 {
		hasData := frame.Payload[34]&0x01 == 0x01
		switch g.dtmfDecoder.DecodeVDMode2(frame.Payload[35:], hasData) {
		case dtmf.EventConnect:
			dstID := g.dtmfDecoder.DstID()
			g.log.Sugar().Infof("DTMF connect to TG %d", dstID)
			g.currentDstID = dstID
			g.metrics.WiresXCommands.WithLabelValues("dtmf_connect").Inc()
			g.metrics.CurrentTalkGroup.Set(float64(dstID))
		case dtmf.EventDisconnect:
			g.log.Sugar().Info("DTMF disconnect")
			g.currentDstID = 0
			g.metrics.WiresXCommands.WithLabelValues("dtmf_disconnect").Inc()
			g.metrics.CurrentTalkGroup.Set(0)
		}
	}

	// Extract audio and convert to DMR if this is a voice frame
	if frame.IsVoice() {
		if err := g.modeConv.PutYSF(data); err != nil {
			g.log.Sugar().Warnf("YSF to DMR conversion error: %v", err)
		} else {
			for {
				dmrFrame, tag, ok := g.modeConv.GetDMR()
				if !ok {
					break
				}
				if err := g.sendDMRFrame(dmrFrame, tag); err != nil {
					g.log.Sugar().Warnf("DMR send error: %v", err)
				}
			}
		}
	}

	g.ysfFrames++
	g.metrics.YSFFramesTotal.Inc()
	return nil
}

// processDMRData processes incoming DMR data
func (g *Gateway) processDMRData(data *protocol.DMRData) error {
	// Format source and destination with callsign lookup (matching C++ behavior)
	srcStr := g.formatDMRAddress(data.GetSrcId(), false) // Source is never a group
	dstStr := g.formatDMRAddress(data.GetDstId(), data.IsGroupCall())

	g.log.Sugar().Debugf("DMR: Slot %d, Src %s, Dst %s, FLCO %s, DT %s, Seq %d",
		data.GetSlotNo(), srcStr, dstStr,
		data.GetFLCOString(), data.GetDataTypeString(), data.GetSeqNo())

	// Update call state if this is the start of a new call
	if data.IsVoiceLCHeader() {
		g.startDMRCall(data.GetSrcId(), data.GetDstId(), data.GetStreamId())
		g.modeConv.PutYSFHeader()
	}

	// Extract audio and convert to YSF if this is a voice frame
	if data.IsVoice() {
		dmrPayload := data.GetData()

		if err := g.modeConv.PutDMR(dmrPayload[:]); err != nil {
			g.log.Sugar().Warnf("DMR to YSF conversion error: %v", err)
		} else {
			for {
				ysfFrame, tag, ok := g.modeConv.GetYSF()
				if !ok {
					break
				}
				if tag != codec.TAG_DATA {
					continue
				}
				if err := g.sendYSFFrame(ysfFrame); err != nil {
					g.log.Sugar().Warnf("YSF send error: %v", err)
				}
			}
		}
	}

	// Handle call termination
	if data.IsTerminator() {
		g.modeConv.PutYSFEOT()
		g.endCall()
	}

	g.dmrFrames++
	g.metrics.DMRFramesTotal.Inc()
	g.networkWatchdog = time.Now()
	return nil
}

// sendDMRFrame sends a DMR frame. tag identifies whether audioData begins
// (codec.TAG_HEADER), ends (codec.TAG_EOT), or continues (codec.TAG_DATA)
// the current over; header and terminator bursts carry a Golay-protected
// slot type instead of plain voice data, and every sixth voice frame
// (the sync position of a DMR superframe) carries the BPTC-protected
// embedded full link control instead of AMBE audio.
func (g *Gateway) sendDMRFrame(audioData []byte, tag uint8) error {
	dmrData := protocol.NewDMRData()
	dmrData.SetSlotNo(2) // Use slot 2 for XLX
	dmrData.SetSrcId(g.config.GetDMRId())
	dmrData.SetDstId(g.currentDstID)
	dmrData.SetFLCO(protocol.FLCO_GROUP)
	dmrData.SetSeqNo(uint8(g.dmrFrames % 256))

	// Copy audio data to payload - truncate if necessary
	var payload [33]byte
	copyLen := len(audioData)
	if copyLen > 33 {
		copyLen = 33
	}
	copy(payload[:], audioData[:copyLen])

	switch tag {
	case codec.TAG_HEADER:
		dmrData.SetDataType(protocol.DT_VOICE_LC_HEADER)
		st := &dmr.SlotType{ColorCode: g.config.GetDMRColorCode(), DataType: dmr.DATA_TYPE_VOICE_HEADER}
		copy(payload[13:16], st.Encode())
	case codec.TAG_EOT:
		dmrData.SetDataType(protocol.DT_TERMINATOR_WITH_LC)
		st := &dmr.SlotType{ColorCode: g.config.GetDMRColorCode(), DataType: dmr.DATA_TYPE_VOICE_TERMINATOR}
		copy(payload[13:16], st.Encode())
	default:
		if g.dmrFrames%6 == 0 {
			dmrData.SetDataType(protocol.DT_VOICE_SYNC)
			lc := &dmr.LinkControl{
				FLCO:          dmr.FLCO_GROUP_CALL,
				SourceID:      g.config.GetDMRId(),
				DestinationID: g.currentDstID,
			}
			if block, ok := lc.EncodeFullLC(); ok && len(block) >= 13 {
				copy(payload[4:17], block[:13])
			}
		} else {
			dmrData.SetDataType(protocol.DT_VOICE)
		}
	}

	dmrData.SetData(payload[:])

	// Send via network
	return g.dmrNetwork.Write(dmrData)
}

// sendYSFFrame sends a YSF frame
func (g *Gateway) sendYSFFrame(audioData []byte) error {
	// Create YSF frame
	frame := &ysf.Frame{
		SourceCallsign: g.config.GetCallsign(),
		DestCallsign:   "ALL",
		FICH: ysf.FICH{
			FI: 1, // Communications
			DT: 0, // VD Mode 1
			CM: 0, // Group call
			FN: uint8(g.ysfFrames % 8),
		},
		Payload: make([]byte, 90),
	}

	// Copy audio data to payload
	copy(frame.Payload, audioData)

	// Build and send frame
	frameData := frame.Build()
	return g.ysfNetwork.Write(frameData)
}

// processYSFTimer handles YSF timing events
func (g *Gateway) processYSFTimer() error {
	g.ysfWatch = time.Now()
	return nil
}

// processDMRTimer handles DMR timing events
func (g *Gateway) processDMRTimer() error {
	g.dmrWatch = time.Now()

	// Check network watchdog
	if time.Since(g.networkWatchdog) > 30*time.Second {
		g.log.Sugar().Warn("Network watchdog expired")
		g.networkWatchdog = time.Now()
		g.dmrFrames = 0
	}

	return nil
}

// printStats prints periodic statistics
func (g *Gateway) printStats() {
	connectionStatus := "Disconnected"
	dmrState := g.dmrNetwork.GetStatusString()
	if g.dmrNetwork.IsConnected() {
		connectionStatus = "Connected"
	}

	ysfCount, dmrCount := g.modeConv.GetStats()

	g.log.Sugar().Infof("Stats: YSF frames: %d, DMR frames: %d, Current TG: %d, DMR: %s (%s), State: %v",
		g.ysfFrames, g.dmrFrames, g.currentDstID, connectionStatus, dmrState, g.callState)
	g.log.Sugar().Infof("Codec: YSF converted: %d, DMR converted: %d", ysfCount, dmrCount)
}

// startYSFCall starts a new call from YSF
func (g *Gateway) startYSFCall(srcCallsign string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.log.Sugar().Infof("Starting YSF call from %s", srcCallsign)
	g.callState = CallStateYSF

	// Reset converter for clean state
	g.modeConv.Reset()

	// Stop any existing hang timer
	if g.hangTimer != nil {
		g.hangTimer.Stop()
	}
}

// startDMRCall starts a new call from DMR
func (g *Gateway) startDMRCall(srcId, dstId, streamId uint32) {
	g.mu.Lock()
	defer g.mu.Unlock()

	// Format IDs with callsign lookup (matching C++ behavior)
	srcStr := g.formatDMRAddress(srcId, false) // Source is never a group
	dstStr := g.formatDMRAddress(dstId, true)  // Destination could be group or user, assume group for now

	g.log.Sugar().Infof("Starting DMR call from %s to %s (stream 0x%08X)", srcStr, dstStr, streamId)
	g.callState = CallStateDMR
	g.currentSrcID = srcId
	g.currentStream = streamId

	// Reset converter for clean state
	g.modeConv.Reset()

	// Stop any existing hang timer
	if g.hangTimer != nil {
		g.hangTimer.Stop()
	}
}

// endCall ends the current call and starts hang timer
func (g *Gateway) endCall() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.callState != CallStateIdle {
		g.log.Sugar().Infof("Ending call, starting hang timer (%v)", g.hangTime)
		g.callState = CallStateIdle

		// Start hang timer
		if g.hangTimer != nil {
			g.hangTimer.Stop()
		}
		g.hangTimer = time.AfterFunc(g.hangTime, func() {
			g.log.Sugar().Debug("Hang timer expired")
		})
	}
}

// checkHangTimer checks and manages the hang timer
func (g *Gateway) checkHangTimer() {
	// Hang timer is managed by time.AfterFunc, no action needed here
}

// monitorNetworkHealth checks network connection status and handles recovery
func (g *Gateway) monitorNetworkHealth() {
	now := time.Now()

	// Check DMR network connection
	if g.dmrNetwork.IsConnected() {
		g.dmrLastConnected = now
		g.dmrErrorCount = 0 // Reset error count when connected
	} else {
		// DMR not connected - check if we need to attempt reconnection
		if now.Sub(g.dmrLastConnected) > DMR_CONNECTION_CHECK {
			if g.dmrReconnectTimer == nil {
				g.log.Sugar().Warn("DMR network disconnected, scheduling reconnection...")
				g.scheduleReconnect()
			}
		}
	}

	// Reset error counts periodically
	if now.Sub(g.networkWatchdog) > NETWORK_ERROR_RESET_TIME {
		if g.ysfErrorCount > 0 || g.dmrErrorCount > 0 {
			g.log.Sugar().Infof("Resetting network error counts (YSF: %d, DMR: %d)",
				g.ysfErrorCount, g.dmrErrorCount)
			g.ysfErrorCount = 0
			g.dmrErrorCount = 0
		}
		g.networkWatchdog = now
	}
}

// scheduleReconnect schedules a DMR network reconnection attempt
func (g *Gateway) scheduleReconnect() {
	if g.dmrReconnectTimer != nil {
		g.dmrReconnectTimer.Stop()
	}

	g.dmrReconnectTimer = time.AfterFunc(DMR_RECONNECT_INTERVAL, func() {
		g.attemptReconnect()
	})
}

// attemptReconnect attempts to reconnect the DMR network
func (g *Gateway) attemptReconnect() {
	g.log.Sugar().Info("Attempting DMR network reconnection...")

	g.mu.Lock()
	defer g.mu.Unlock()

	// Close existing connection
	g.dmrNetwork.Close()

	// Attempt to reopen
	if err := g.dmrNetwork.Open(); err != nil {
		g.log.Sugar().Warnf("DMR reconnection failed: %v", err)
		g.dmrErrorCount++

		if g.dmrErrorCount < MAX_NETWORK_ERRORS {
			g.scheduleReconnect() // Try again
		} else {
			g.log.Sugar().Error("Maximum DMR reconnection attempts reached, giving up")
		}
	} else {
		g.log.Sugar().Info("DMR network reconnected successfully")
		g.dmrNetwork.Enable(true)
		g.dmrErrorCount = 0
		g.dmrLastConnected = time.Now()

		if g.dmrReconnectTimer != nil {
			g.dmrReconnectTimer.Stop()
			g.dmrReconnectTimer = nil
		}
	}
}

// initializeDMRLookup creates either a database-backed or file-based DMR lookup service.
// Returns the lookup interface, database instance (if database mode), and syncer (if database mode).
func initializeDMRLookup(cfg *config.Config, log *logging.Logger) (lookup.DMRLookupInterface, *database.DB, *radioid.Syncer) {
	if cfg.GetDatabaseEnabled() {
		log.Sugar().Info("Initializing database-backed DMR lookup...")

		dbConfig := database.Config{
			Path: cfg.GetDatabasePath(),
		}

		db, err := database.NewDB(dbConfig, log.StdLogAt(zapcore.InfoLevel, "db"))
		if err != nil {
			log.Sugar().Warnf("Failed to initialize database: %v", err)
			log.Sugar().Info("Falling back to file-based lookup...")
			return initializeFileLookup(cfg, log), nil, nil
		}

		userRepo := database.NewDMRUserRepository(db.GetDB())

		cacheSize := cfg.GetDatabaseCacheSize()
		if cacheSize == 0 {
			cacheSize = 1000
		}

		adapterConfig := lookup.DMRDatabaseAdapterConfig{
			EnableCache: true,
			CacheSize:   int(cacheSize),
			CacheExpiry: 5 * time.Minute,
		}
		adapter := lookup.NewDMRDatabaseAdapterWithConfig(userRepo, adapterConfig)
		adapter.SetDebug(cfg.GetDatabaseDebug())

		if err := adapter.Start(); err != nil {
			log.Sugar().Warnf("Failed to start database adapter: %v", err)
			log.Sugar().Info("Falling back to file-based lookup...")
			db.Close()
			return initializeFileLookup(cfg, log), nil, nil
		}

		syncHours := cfg.GetDatabaseSyncHours()
		if syncHours == 0 {
			syncHours = 24
		}

		syncerConfig := radioid.SyncerConfig{
			SyncInterval: time.Duration(syncHours) * time.Hour,
			HTTPTimeout:  30 * time.Second,
		}

		syncer := radioid.NewSyncerWithConfig(userRepo, log.StdLogAt(zapcore.InfoLevel, "db"), syncerConfig)

		go syncer.Start(context.Background())

		count := adapter.GetEntryCount()
		log.Sugar().Infof("Database-backed DMR lookup initialized with %d entries", count)

		return adapter, db, syncer
	}

	return initializeFileLookup(cfg, log), nil, nil
}

// initializeFileLookup creates a traditional file-based DMR lookup
func initializeFileLookup(cfg *config.Config, log *logging.Logger) lookup.DMRLookupInterface {
	if cfg.GetDMRIdLookupFile() == "" {
		log.Sugar().Info("DMR ID lookup disabled (no file configured and database mode disabled)")
		return nil
	}

	dmrLookup := lookup.NewDMRLookup(
		cfg.GetDMRIdLookupFile(),
		cfg.GetDMRIdLookupTime(),
	)
	dmrLookup.SetDebug(cfg.GetDatabaseDebug())

	if err := dmrLookup.Start(); err != nil {
		log.Sugar().Warnf("Warning: Failed to start file-based DMR ID lookup: %v", err)
		return nil
	}

	log.Sugar().Infof("File-based DMR ID lookup initialized with %d entries from %s",
		dmrLookup.GetEntryCount(), cfg.GetDMRIdLookupFile())

	return dmrLookup
}

// getDefaultConfig returns the default configuration file path
func getDefaultConfig() string {
	if _, err := os.Stat("bridge.ini"); err == nil {
		return "bridge.ini"
	}

	systemConfig := "/etc/bridge.ini"
	if _, err := os.Stat(systemConfig); err == nil {
		return systemConfig
	}

	return "bridge.ini"
}

func newRootCmd() *cobra.Command {
	var showVersion bool

	cmd := &cobra.Command{
		Use:     "bridge [config-path]",
		Short:   "YSF/DMR AMBE voice bridge",
		Args:    cobra.MaximumNArgs(1),
		Version: VERSION,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Printf("bridge v%s\n", VERSION)
				fmt.Println(HEADER1)
				fmt.Println(HEADER2)
				fmt.Println(HEADER3)
				fmt.Println(HEADER4)
				fmt.Println(HEADER5)
				return nil
			}

			configFile := getDefaultConfig()
			if len(args) > 0 {
				configFile = args[0]
			}

			return runGateway(configFile)
		},
	}

	cmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Show version information")
	return cmd
}

func runGateway(configFile string) error {
	log := logging.Default()
	defer log.Sync()

	log.Sugar().Infof("bridge v%s starting with config: %s", VERSION, configFile)

	gateway, err := NewGateway(configFile, log)
	if err != nil {
		return fmt.Errorf("failed to create gateway: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Sugar().Infof("Received signal %v, shutting down...", sig)
		cancel()
	}()

	if err := gateway.Run(ctx); err != nil {
		return fmt.Errorf("gateway error: %w", err)
	}

	log.Sugar().Info("bridge stopped")
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
