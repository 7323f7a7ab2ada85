package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	departures "github.com/transitboard/gtfsrt-departures"
	"github.com/transitboard/gtfsrt-departures/config"
	"github.com/transitboard/gtfsrt-departures/engine"
	"github.com/transitboard/gtfsrt-departures/gtfs"
	"github.com/transitboard/gtfsrt-departures/gtfsrt"
	"github.com/transitboard/gtfsrt-departures/internal"
	"github.com/transitboard/gtfsrt-departures/view"
)

func main() {
	mode := flag.String("mode", "serve", "serve|oneshot")
	configPath := flag.String("config", "config.yml", "path to config file")
	viewName := flag.String("view", "", "restrict oneshot output to one view")
	flag.Parse()

	internal.InitLogging()
	// .env carries the feed API key when one is needed; absence is fine
	_ = godotenv.Load()

	data, err := os.ReadFile(*configPath)
	if err != nil {
		log.Fatalf("reading config %s: %v", *configPath, err)
	}
	cfg, err := config.ParseAppConfig(data)
	if err != nil {
		log.Fatalf("parsing config %s: %v", *configPath, err)
	}
	if len(cfg.Views) == 0 {
		log.Fatalf("no station views configured")
	}

	log.Printf("loading static schedule from %s", cfg.GTFS.StaticURL)
	idx, err := gtfs.NewScheduleIndexFromConfig(cfg.GTFS)
	if err != nil {
		log.Fatalf("static schedule load failed: %v", err)
	}
	log.Printf("static schedule loaded: %d trips, %d stops", idx.TripCount(), idx.StopCount())

	apiKey := ""
	if cfg.GTFSRT.APIKeyEnv != "" {
		apiKey = os.Getenv(cfg.GTFSRT.APIKeyEnv)
	}
	client := gtfsrt.NewClient(
		cfg.GTFSRT.TripUpdatesURL,
		apiKey,
		time.Duration(cfg.GTFSRT.TimeoutMS)*time.Millisecond,
	)

	views := make([]view.StationView, 0, len(cfg.Views))
	for _, vc := range cfg.Views {
		views = append(views, view.FromConfig(vc))
	}

	eng := engine.New(idx, client,
		func() []view.StationView { return views },
		engine.WithInterval(time.Duration(cfg.GTFSRT.ReadIntervalMS)*time.Millisecond),
		engine.WithGrace(time.Duration(cfg.Engine.GraceSeconds)*time.Second),
	)

	switch *mode {
	case "oneshot":
		if err := eng.Refresh(context.Background()); err != nil {
			log.Fatalf("refresh failed: %v", err)
		}
		printBoards(eng, idx, *viewName)
	case "serve":
		ctx, cancel := context.WithCancel(context.Background())
		go eng.Run(ctx)
		srv := departures.NewServer(eng, cfg.Server.Port)
		srv.Start()
		srv.HandleGracefulShutdown(cancel)
	default:
		log.Fatalf("unknown mode %q", *mode)
	}
}

func printBoards(eng *engine.Engine, idx *gtfs.ScheduleIndex, only string) {
	snap := eng.Current()
	if snap == nil {
		log.Fatalf("no snapshot published")
	}
	loc := idx.Location()
	for name, res := range snap.Views {
		if only != "" && name != only {
			continue
		}
		station := res.View.StationName
		if station == "" {
			station = idx.GetStopName(res.View.StopID)
		}
		fmt.Printf("%s (stop %s)\n", station, res.View.StopID)
		if len(res.Departures) == 0 {
			fmt.Println("  no upcoming departures")
			continue
		}
		for _, d := range res.Departures {
			fmt.Printf("  %8s  %3d min  %-30s %s [%s]\n",
				d.Departure.In(loc).Format("3:04 PM"),
				d.MinutesUntil,
				d.Headsign,
				idx.RouteName(d.RouteID),
				d.Status,
			)
		}
	}
}
