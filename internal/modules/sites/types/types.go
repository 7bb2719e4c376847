package types

import "time"

type Site struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Reading is the most recent observation joined with its site.
type Reading struct {
	Site       string    `json:"site"`
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	ObservedAt time.Time `json:"observedAt"`
	WindSpeed  float64   `json:"windSpeed"`
	Clouds     float64   `json:"clouds"`
}
