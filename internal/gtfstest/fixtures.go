// Package gtfstest builds in-memory GTFS static fixtures for tests.
package gtfstest

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/transitboard/gtfsrt-departures/gtfs"
)

// BuildStaticZip assembles a GTFS zip from table name -> CSV content.
func BuildStaticZip(t *testing.T, tables map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range tables {
		f, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating %s in fixture zip: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("writing %s in fixture zip: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing fixture zip: %v", err)
	}
	return buf.Bytes()
}

// LoadIndex builds a schedule index from fixture tables, failing the test
// on load errors.
func LoadIndex(t *testing.T, tables map[string]string) *gtfs.ScheduleIndex {
	t.Helper()
	idx, err := gtfs.NewScheduleIndexFromBytes(BuildStaticZip(t, tables), "TEST")
	if err != nil {
		t.Fatalf("loading fixture schedule: %v", err)
	}
	return idx
}

// LIRRStyleTables is a small schedule fixture resembling a commuter-rail
// feed: one station of interest ("211") with trips toward several
// destinations on two routes.
func LIRRStyleTables() map[string]string {
	return map[string]string{
		"agency.txt": "agency_id,agency_name,agency_timezone\n" +
			"TEST,Test Rail Road,America/New_York\n",
		"routes.txt": "route_id,route_short_name,route_long_name\n" +
			"1,,Babylon Branch\n" +
			"7,,Port Jefferson Branch\n" +
			"9,,West Hempstead Branch\n",
		"trips.txt": "trip_id,route_id,trip_headsign\n" +
			"t01,1,Penn Station\n" +
			"t02,1,Babylon\n" +
			"t03,7,Jamaica\n" +
			"t04,9,West Hempstead\n" +
			"t05,1,Penn Station\n" +
			"t06,7,Huntington\n" +
			"t07,1,Babylon\n" +
			"t08,7,Jamaica\n" +
			"t09,9,West Hempstead\n" +
			"t10,1,Penn Station\n",
		"stops.txt": "stop_id,stop_name\n" +
			"211,Mineola\n" +
			"237,Penn Station\n",
		"stop_times.txt": "trip_id,stop_id,stop_sequence,arrival_time,departure_time\n" +
			"t01,211,1,08:05:00,08:05:00\n" +
			"t02,211,2,08:10:00,08:10:00\n" +
			"t03,211,1,08:15:00,08:15:00\n" +
			"t04,211,3,08:20:00,08:20:00\n" +
			"t05,211,1,08:25:00,08:25:00\n" +
			"t06,211,2,08:30:00,08:30:00\n" +
			"t07,211,1,08:35:00,08:35:00\n" +
			"t08,211,2,08:40:00,08:40:00\n" +
			"t09,211,1,08:45:00,08:45:00\n" +
			"t10,211,4,08:50:00,08:50:00\n",
	}
}
