package config

// ServerConfig contains the HTTP API server configuration
type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0"`
}

// GTFSConfig contains GTFS static schedule configuration
type GTFSConfig struct {
	StaticURL string `yaml:"staticURL" validate:"omitempty"`
	AgencyID  string `yaml:"agency_id" validate:"omitempty"`
	CachePath string `yaml:"cachePath" validate:"omitempty"`
}

// GTFSRTConfig contains the GTFS-Realtime trip updates feed configuration
type GTFSRTConfig struct {
	TripUpdatesURL string `yaml:"tripUpdatesURL" validate:"omitempty,url"`
	ReadIntervalMS int    `yaml:"readIntervalMS" validate:"gte=0"`
	TimeoutMS      int    `yaml:"timeoutMS" validate:"gte=0"`
	APIKeyEnv      string `yaml:"apiKeyEnv" validate:"omitempty"`
}

// EngineConfig contains refresh pipeline tuning
type EngineConfig struct {
	// GraceSeconds is how long past its predicted departure a trip is still
	// listed before being dropped as departed.
	GraceSeconds int `yaml:"graceSeconds" validate:"gte=0"`
}

// ViewConfig is one user-configured station view. DirectionFilter and
// RouteFilter are pipe-separated term lists; empty matches everything.
type ViewConfig struct {
	Name            string `yaml:"name" validate:"required"`
	StationName     string `yaml:"stationName"`
	StopID          string `yaml:"stopId" validate:"required"`
	DirectionFilter string `yaml:"directionFilter"`
	RouteFilter     string `yaml:"routeFilter"`
	DepartureLimit  int    `yaml:"departureLimit" validate:"omitempty,min=1,max=20"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server ServerConfig `yaml:"server" validate:"required"`
	GTFS   GTFSConfig   `yaml:"gtfs"`
	GTFSRT GTFSRTConfig `yaml:"gtfsrt"`
	Engine EngineConfig `yaml:"engine"`
	Views  []ViewConfig `yaml:"views"`
}
