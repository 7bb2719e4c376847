package client

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	shared "renewables-dashboard/internal/shared/types"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Wire types use pointers so a missing field can be told apart from a zero.

type statisticsWire struct {
	TopWind      *[]windWire  `json:"top_wind" validate:"required,dive"`
	TopSolar     *[]solarWire `json:"top_solar" validate:"required,dive"`
	AverageWind  *float64     `json:"average_wind" validate:"required"`
	AverageSolar *float64     `json:"average_solar" validate:"required"`
}

type windWire struct {
	Name      *string  `json:"name" validate:"required"`
	WindSpeed *float64 `json:"wind_speed" validate:"required"`
}

type solarWire struct {
	Name   *string  `json:"name" validate:"required"`
	Clouds *float64 `json:"clouds" validate:"required"`
}

type siteWire struct {
	Name      *string           `json:"name" validate:"required"`
	Lon       *float64          `json:"lon" validate:"required"`
	Lat       *float64          `json:"lat" validate:"required"`
	PageRank  *float64          `json:"pagerank" validate:"required,gte=0"`
	Community *shared.Community `json:"community" validate:"required"`
}

// ParseStatistics decodes and validates a GET /stat body.
func ParseStatistics(body []byte) (shared.StatisticsPayload, error) {
	var wire statisticsWire
	if err := json.Unmarshal(body, &wire); err != nil {
		return shared.StatisticsPayload{}, fmt.Errorf("%w: decode statistics: %v", ErrMalformedPayload, err)
	}
	if err := validate.Struct(wire); err != nil {
		return shared.StatisticsPayload{}, fmt.Errorf("%w: statistics: %v", ErrMalformedPayload, err)
	}

	out := shared.StatisticsPayload{
		TopWind:      make([]shared.WindEntry, 0, len(*wire.TopWind)),
		TopSolar:     make([]shared.SolarEntry, 0, len(*wire.TopSolar)),
		AverageWind:  *wire.AverageWind,
		AverageSolar: *wire.AverageSolar,
	}
	for _, w := range *wire.TopWind {
		out.TopWind = append(out.TopWind, shared.WindEntry{Name: *w.Name, WindSpeed: *w.WindSpeed})
	}
	for _, s := range *wire.TopSolar {
		out.TopSolar = append(out.TopSolar, shared.SolarEntry{Name: *s.Name, Clouds: *s.Clouds})
	}
	return out, nil
}

// ParseSites decodes and validates a GET /data body.
func ParseSites(body []byte) ([]shared.SitePayload, error) {
	var wire []siteWire
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("%w: decode sites: %v", ErrMalformedPayload, err)
	}
	if wire == nil {
		return nil, fmt.Errorf("%w: sites: expected an array", ErrMalformedPayload)
	}

	out := make([]shared.SitePayload, 0, len(wire))
	for i, w := range wire {
		if err := validate.Struct(w); err != nil {
			return nil, fmt.Errorf("%w: site %d: %v", ErrMalformedPayload, i, err)
		}
		out = append(out, shared.SitePayload{
			Name:      *w.Name,
			Lon:       *w.Lon,
			Lat:       *w.Lat,
			PageRank:  *w.PageRank,
			Community: *w.Community,
		})
	}
	return out, nil
}
