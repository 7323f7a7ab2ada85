package gtfsrt

import (
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

// DecodeFeed decodes a raw GTFS-RT protobuf payload into a Snapshot of
// stop-time events. Unknown fields and partial trip updates are tolerated;
// entities that are not trip updates are ignored.
func DecodeFeed(b []byte, now time.Time) (*Snapshot, error) {
	var fm gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(b, &fm); err != nil {
		return nil, &DecodeError{Err: err}
	}
	snap := &Snapshot{FetchedAt: now, FeedTimestamp: now}
	if fm.Header != nil && fm.Header.Timestamp != nil && *fm.Header.Timestamp > 0 {
		snap.FeedTimestamp = time.Unix(int64(*fm.Header.Timestamp), 0)
	}
	for _, e := range fm.Entity {
		tu := e.TripUpdate
		if tu == nil || tu.Trip == nil || tu.Trip.TripId == nil {
			continue
		}
		tripID := *tu.Trip.TripId
		routeID := ""
		if tu.Trip.RouteId != nil {
			routeID = *tu.Trip.RouteId
		}
		tripCancelled := tu.Trip.ScheduleRelationship != nil &&
			*tu.Trip.ScheduleRelationship == gtfsrtpb.TripDescriptor_CANCELED
		for _, stu := range tu.StopTimeUpdate {
			if stu.StopId == nil {
				continue
			}
			ev := StopTimeEvent{
				TripID:  tripID,
				RouteID: routeID,
				StopID:  *stu.StopId,
			}
			// departure preferred; arrival stands in when the feed only
			// carries one of the two
			if stu.Departure != nil && stu.Departure.Time != nil {
				ev.Departure = *stu.Departure.Time
			} else if stu.Arrival != nil && stu.Arrival.Time != nil {
				ev.Departure = *stu.Arrival.Time
			}
			switch {
			case tripCancelled:
				ev.Status = StatusCancelled
			case stu.ScheduleRelationship != nil &&
				*stu.ScheduleRelationship == gtfsrtpb.TripUpdate_StopTimeUpdate_SKIPPED:
				ev.Status = StatusSkipped
			case ev.Departure != 0:
				ev.Status = StatusUpdated
			default:
				ev.Status = StatusScheduled
			}
			snap.Events = append(snap.Events, ev)
		}
	}
	return snap, nil
}
