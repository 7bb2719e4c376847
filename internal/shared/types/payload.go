// Package types holds the JSON contracts shared by the site data producer,
// the MQTT ingest and the dashboard.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"renewables-dashboard/internal/shared/jsnum"
)

// WindEntry is one row of the wind ranking.
type WindEntry struct {
	Name      string  `json:"name"`
	WindSpeed float64 `json:"wind_speed"`
}

// SolarEntry is one row of the solar ranking. Clouds carries an irradiance
// value in W/m²; the field name is kept for compatibility with producers.
type SolarEntry struct {
	Name   string  `json:"name"`
	Clouds float64 `json:"clouds"`
}

// StatisticsPayload is the body of GET /stat.
type StatisticsPayload struct {
	TopWind      []WindEntry  `json:"top_wind"`
	TopSolar     []SolarEntry `json:"top_solar"`
	AverageWind  float64      `json:"average_wind"`
	AverageSolar float64      `json:"average_solar"`
}

// SitePayload is one element of the GET /data array.
type SitePayload struct {
	Name      string    `json:"name"`
	Lon       float64   `json:"lon"`
	Lat       float64   `json:"lat"`
	PageRank  float64   `json:"pagerank"`
	Community Community `json:"community"`
}

// Community is a cluster id that may be numeric or categorical.
type Community struct {
	label   string
	number  float64
	numeric bool
}

func CommunityID(n int) Community {
	return Community{label: strconv.Itoa(n), number: float64(n), numeric: true}
}

func CommunityLabel(s string) Community {
	return Community{label: s}
}

// Numeric reports whether the id was a JSON number, and its value.
func (c Community) Numeric() (float64, bool) {
	return c.number, c.numeric
}

func (c Community) String() string {
	return c.label
}

func (c Community) MarshalJSON() ([]byte, error) {
	if c.numeric {
		return []byte(jsnum.Format(c.number)), nil
	}
	return json.Marshal(c.label)
}

func (c *Community) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return fmt.Errorf("community: empty value")
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("community: %w", err)
		}
		*c = CommunityLabel(s)
		return nil
	case 'n':
		return nil
	default:
		n, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			return fmt.Errorf("community: expected number or string, got %s", b)
		}
		*c = Community{label: jsnum.Format(n), number: n, numeric: true}
		return nil
	}
}
