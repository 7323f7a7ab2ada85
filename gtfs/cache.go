package gtfs

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"os"
)

// indexImage is the gob-encodable form of a ScheduleIndex.
type indexImage struct {
	AgencyID   string
	AgencyTZ   string
	AgencyName string

	RouteLongNames  map[string]string
	RouteShortNames map[string]string
	Trips           map[string]TripMeta
	StopNames       map[string]string
	StopTimes       map[string][]ScheduleEntry
}

// SerializeIndex encodes a ScheduleIndex to bytes using gob encoding.
// This is used for disk-based caching to avoid re-downloading and re-parsing
// the static zip on every process start.
func SerializeIndex(index *ScheduleIndex) ([]byte, error) {
	img := indexImage{
		AgencyID:        index.agencyID,
		AgencyTZ:        index.agencyTZ,
		AgencyName:      index.agencyName,
		RouteLongNames:  index.routeLongNames,
		RouteShortNames: index.routeShortNames,
		Trips:           index.trips,
		StopNames:       index.stopNames,
		StopTimes:       index.stopTimes,
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(img); err != nil {
		return nil, fmt.Errorf("failed to encode ScheduleIndex: %w", err)
	}
	return buf.Bytes(), nil
}

// DeserializeIndex decodes a ScheduleIndex from gob bytes. The returned index
// is safe for concurrent read access.
func DeserializeIndex(data []byte) (*ScheduleIndex, error) {
	return DeserializeIndexFromReader(bytes.NewReader(data))
}

// SerializeIndexToFile writes a ScheduleIndex to a file using gob encoding.
func SerializeIndexToFile(index *ScheduleIndex, filepath string) error {
	data, err := SerializeIndex(index)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}

// DeserializeIndexFromFile reads a ScheduleIndex from a gob cache file.
func DeserializeIndexFromFile(filepath string) (*ScheduleIndex, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	return DeserializeIndex(data)
}

// SerializeIndexToWriter writes a ScheduleIndex to an io.Writer using gob
// encoding, for custom storage backends.
func SerializeIndexToWriter(index *ScheduleIndex, w io.Writer) error {
	data, err := SerializeIndex(index)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// DeserializeIndexFromReader reads a ScheduleIndex from an io.Reader.
func DeserializeIndexFromReader(r io.Reader) (*ScheduleIndex, error) {
	var img indexImage
	if err := gob.NewDecoder(r).Decode(&img); err != nil {
		return nil, fmt.Errorf("failed to decode ScheduleIndex: %w", err)
	}
	g := newScheduleIndex()
	g.agencyID = img.AgencyID
	g.agencyTZ = img.AgencyTZ
	g.agencyName = img.AgencyName
	if img.RouteLongNames != nil {
		g.routeLongNames = img.RouteLongNames
	}
	if img.RouteShortNames != nil {
		g.routeShortNames = img.RouteShortNames
	}
	if img.Trips != nil {
		g.trips = img.Trips
	}
	if img.StopNames != nil {
		g.stopNames = img.StopNames
	}
	if img.StopTimes != nil {
		g.stopTimes = img.StopTimes
	}
	g.finalize()
	return g, nil
}
