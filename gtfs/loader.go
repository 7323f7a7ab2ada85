package gtfs

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/transitboard/gtfsrt-departures/config"
)

// requiredTables must all be present in the static zip.
var requiredTables = []string{"routes.txt", "trips.txt", "stops.txt", "stop_times.txt"}

// cacheMaxAge matches the agency publish cadence: a serialized index older
// than this is re-downloaded.
const cacheMaxAge = 24 * time.Hour

// NewScheduleIndexFromConfig creates and loads a schedule index from
// configuration. StaticURL may be an http(s) URL or a local file path.
// When CachePath is set, a fresh serialized index is used instead of
// re-downloading, and a successful download refreshes it.
func NewScheduleIndexFromConfig(cfg config.GTFSConfig) (*ScheduleIndex, error) {
	if cfg.CachePath != "" {
		if st, err := os.Stat(cfg.CachePath); err == nil && time.Since(st.ModTime()) < cacheMaxAge {
			idx, err := DeserializeIndexFromFile(cfg.CachePath)
			if err == nil {
				return idx, nil
			}
			log.Printf("gtfs: ignoring unreadable index cache %s: %v", cfg.CachePath, err)
		}
	}
	if cfg.StaticURL == "" {
		return nil, &LoadError{Source: "(none)", Err: errors.New("no static schedule source configured")}
	}
	raw, err := readScheduleSource(cfg.StaticURL)
	if err != nil {
		return nil, &LoadError{Source: cfg.StaticURL, Err: err}
	}
	idx, err := NewScheduleIndexFromBytes(raw, cfg.AgencyID)
	if err != nil {
		return nil, err
	}
	if cfg.CachePath != "" {
		if err := SerializeIndexToFile(idx, cfg.CachePath); err != nil {
			log.Printf("gtfs: could not write index cache %s: %v", cfg.CachePath, err)
		}
	}
	return idx, nil
}

// NewScheduleIndexFromBytes builds a schedule index from raw GTFS zip bytes.
func NewScheduleIndexFromBytes(raw []byte, agencyID string) (*ScheduleIndex, error) {
	g := newScheduleIndex()
	g.agencyID = agencyID
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, &LoadError{Source: "zip", Err: err}
	}
	seen := map[string]bool{}
	for _, f := range zr.File {
		name := strings.ToLower(f.Name)
		switch name {
		case "routes.txt", "trips.txt", "stops.txt", "stop_times.txt", "agency.txt":
			seen[name] = true
			if err := g.consumeCSV(f); err != nil {
				return nil, &LoadError{Source: f.Name, Err: err}
			}
		}
	}
	for _, table := range requiredTables {
		if !seen[table] {
			return nil, &LoadError{Source: "zip", Err: fmt.Errorf("required table %s is absent", table)}
		}
	}
	g.finalize()
	return g, nil
}

func readScheduleSource(urlOrPath string) ([]byte, error) {
	if !strings.HasPrefix(urlOrPath, "http://") && !strings.HasPrefix(urlOrPath, "https://") {
		return os.ReadFile(urlOrPath)
	}
	resp, err := http.Get(urlOrPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, urlOrPath)
	}
	return io.ReadAll(resp.Body)
}

func (g *ScheduleIndex) consumeCSV(f *zip.File) error {
	r, err := f.Open()
	if err != nil {
		return err
	}
	defer r.Close()
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1
	rec, err := csvr.ReadAll()
	if err != nil {
		return err
	}
	if len(rec) == 0 {
		return nil
	}
	head := rec[0]
	if len(head) > 0 {
		// stray UTF-8 BOM in the first header cell
		head[0] = strings.TrimPrefix(head[0], "\ufeff")
	}
	idx := func(col string) int {
		for i, h := range head {
			if strings.EqualFold(h, col) {
				return i
			}
		}
		return -1
	}
	cell := func(row []string, i int) string {
		if i >= 0 && i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	switch strings.ToLower(f.Name) {
	case "routes.txt":
		rID := idx("route_id")
		rSN := idx("route_short_name")
		rLN := idx("route_long_name")
		if rID < 0 {
			return errors.New("routes.txt lacks route_id")
		}
		for _, row := range rec[1:] {
			id := cell(row, rID)
			if id == "" {
				continue
			}
			g.routeShortNames[id] = cell(row, rSN)
			g.routeLongNames[id] = cell(row, rLN)
		}
	case "trips.txt":
		rID := idx("route_id")
		tID := idx("trip_id")
		hs := idx("trip_headsign")
		if tID < 0 || rID < 0 {
			return errors.New("trips.txt lacks trip_id or route_id")
		}
		for _, row := range rec[1:] {
			id := cell(row, tID)
			if id == "" {
				continue
			}
			g.trips[id] = TripMeta{
				TripID:   id,
				RouteID:  cell(row, rID),
				Headsign: cell(row, hs),
			}
		}
	case "stops.txt":
		sID := idx("stop_id")
		sN := idx("stop_name")
		if sID < 0 {
			return errors.New("stops.txt lacks stop_id")
		}
		for _, row := range rec[1:] {
			if id := cell(row, sID); id != "" {
				g.stopNames[id] = cell(row, sN)
			}
		}
	case "stop_times.txt":
		tID := idx("trip_id")
		sID := idx("stop_id")
		sq := idx("stop_sequence")
		depTime := idx("departure_time")
		arrTime := idx("arrival_time")
		if tID < 0 || sID < 0 || sq < 0 {
			return errors.New("stop_times.txt lacks trip_id, stop_id or stop_sequence")
		}
		for _, row := range rec[1:] {
			trip := cell(row, tID)
			stop := cell(row, sID)
			if trip == "" || stop == "" {
				continue
			}
			seq, err := strconv.Atoi(cell(row, sq))
			if err != nil {
				continue
			}
			// departure preferred, arrival as fallback; rows with neither
			// are timepoint-less and skipped
			t := cell(row, depTime)
			if t == "" {
				t = cell(row, arrTime)
			}
			secs, err := ParseTime(t)
			if err != nil {
				continue
			}
			g.stopTimes[stop] = append(g.stopTimes[stop], ScheduleEntry{
				TripID:    trip,
				StopID:    stop,
				Departure: secs,
				Sequence:  seq,
			})
		}
	case "agency.txt":
		agID := idx("agency_id")
		agTZ := idx("agency_timezone")
		agName := idx("agency_name")
		if len(rec) > 1 {
			if g.agencyID == "" {
				g.agencyID = cell(rec[1], agID)
			}
			g.agencyTZ = cell(rec[1], agTZ)
			g.agencyName = cell(rec[1], agName)
		}
	}
	return nil
}

// finalize sorts per-stop entries by departure time (ties by trip ID) and
// resolves the agency timezone.
func (g *ScheduleIndex) finalize() {
	for stop, entries := range g.stopTimes {
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].Departure != entries[j].Departure {
				return entries[i].Departure < entries[j].Departure
			}
			return entries[i].TripID < entries[j].TripID
		})
		g.stopTimes[stop] = entries
	}
	tz := g.agencyTZ
	if tz == "" {
		tz = "America/New_York"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	g.loc = loc
}

// ParseTime converts a GTFS HH:MM:SS time-of-day to seconds since midnight.
// Hours may exceed 24 for trips running past the end of the service day.
func ParseTime(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("malformed GTFS time %q", s)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || h < 0 {
		return 0, fmt.Errorf("malformed GTFS time %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("malformed GTFS time %q", s)
	}
	sec, err := strconv.Atoi(parts[2])
	if err != nil || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("malformed GTFS time %q", s)
	}
	return h*3600 + m*60 + sec, nil
}
