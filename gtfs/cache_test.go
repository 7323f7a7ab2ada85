package gtfs_test

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/transitboard/gtfsrt-departures/gtfs"
	"github.com/transitboard/gtfsrt-departures/internal/gtfstest"
)

func TestIndexCache_RoundTrip(t *testing.T) {
	idx := gtfstest.LoadIndex(t, gtfstest.LIRRStyleTables())

	data, err := gtfs.SerializeIndex(idx)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	got, err := gtfs.DeserializeIndex(data)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}

	if got.TripCount() != idx.TripCount() {
		t.Errorf("trip count = %d, want %d", got.TripCount(), idx.TripCount())
	}
	if got.GetStopName("211") != "Mineola" {
		t.Errorf("stop name lost in round trip")
	}
	if got.Location().String() != idx.Location().String() {
		t.Errorf("timezone lost in round trip: %s", got.Location())
	}
	if !reflect.DeepEqual(got.ScheduledTimesForStop("211"), idx.ScheduledTimesForStop("211")) {
		t.Errorf("stop times differ after round trip")
	}
	wantMeta, _ := idx.TripMeta("t03")
	gotMeta, ok := got.TripMeta("t03")
	if !ok || gotMeta != wantMeta {
		t.Errorf("trip meta = %+v, want %+v", gotMeta, wantMeta)
	}
}

func TestIndexCache_File(t *testing.T) {
	idx := gtfstest.LoadIndex(t, gtfstest.LIRRStyleTables())
	path := filepath.Join(t.TempDir(), "index.gob")

	if err := gtfs.SerializeIndexToFile(idx, path); err != nil {
		t.Fatalf("serialize to file: %v", err)
	}
	got, err := gtfs.DeserializeIndexFromFile(path)
	if err != nil {
		t.Fatalf("deserialize from file: %v", err)
	}
	if got.TripCount() != idx.TripCount() {
		t.Errorf("trip count = %d, want %d", got.TripCount(), idx.TripCount())
	}
}

func TestIndexCache_CorruptData(t *testing.T) {
	if _, err := gtfs.DeserializeIndex([]byte("garbage")); err == nil {
		t.Fatal("corrupt cache bytes should not decode")
	}
}
