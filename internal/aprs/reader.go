package aprs

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Position is a cached callsign location.
type Position struct {
	Latitude  float64
	Longitude float64
	Fetched   time.Time
}

// Reader maintains an inbound callsign→coordinate cache, refreshed from
// aprs.fi's JSON API, used to overlay a GPS position onto traffic from
// radios that don't carry their own in-band position report. The
// original CAPRSWriter folds this reverse lookup into the same class as
// the beacon writer; this port splits it out since it has no relationship
// to the outbound APRS-IS session beyond sharing a config section.
type Reader struct {
	apiKey string
	client *http.Client

	mu    sync.RWMutex
	cache map[string]Position

	debugEnabled bool
}

// NewReader builds a reader that queries the aprs.fi API with apiKey.
func NewReader(apiKey string) *Reader {
	return &Reader{
		apiKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
		cache:  make(map[string]Position),
	}
}

// SetDebug enables verbose logging of lookups.
func (r *Reader) SetDebug(enabled bool) {
	r.debugEnabled = enabled
}

// Lookup returns a cached position for callsign, if known.
func (r *Reader) Lookup(callsign string) (Position, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.cache[callsign]
	return p, ok
}

// Refresh queries aprs.fi for callsign's current position and updates the
// cache. A failed or empty lookup leaves the existing cache entry (if
// any) untouched, matching the bridge's general "resource missing, don't
// disturb the voice path" error posture.
func (r *Reader) Refresh(callsign string) error {
	if r.apiKey == "" {
		return fmt.Errorf("aprs: no API key configured")
	}

	u := fmt.Sprintf("https://api.aprs.fi/api/get?name=%s&what=loc&apikey=%s&format=json",
		url.QueryEscape(callsign), url.QueryEscape(r.apiKey))

	resp, err := r.client.Get(u)
	if err != nil {
		return fmt.Errorf("aprs: lookup %s: %w", callsign, err)
	}
	defer resp.Body.Close()

	var body struct {
		Result  string `json:"result"`
		Entries []struct {
			Lat string `json:"lat"`
			Lng string `json:"lng"`
		} `json:"entries"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("aprs: decode response for %s: %w", callsign, err)
	}

	if body.Result != "ok" || len(body.Entries) == 0 {
		r.logDebug("no aprs.fi position for %s", callsign)
		return nil
	}

	var lat, lng float64
	if _, err := fmt.Sscanf(body.Entries[0].Lat, "%f", &lat); err != nil {
		return fmt.Errorf("aprs: parse latitude for %s: %w", callsign, err)
	}
	if _, err := fmt.Sscanf(body.Entries[0].Lng, "%f", &lng); err != nil {
		return fmt.Errorf("aprs: parse longitude for %s: %w", callsign, err)
	}

	r.mu.Lock()
	r.cache[callsign] = Position{Latitude: lat, Longitude: lng, Fetched: time.Now()}
	r.mu.Unlock()

	r.logDebug("cached %s @ %.5f,%.5f", callsign, lat, lng)
	return nil
}

func (r *Reader) logDebug(format string, args ...interface{}) {
	if r.debugEnabled {
		log.Printf("APRS reader: "+format, args...)
	}
}
