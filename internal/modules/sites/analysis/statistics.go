package analysis

import (
	"sort"

	"renewables-dashboard/internal/modules/sites/types"
	shared "renewables-dashboard/internal/shared/types"
)

// Statistics ranks readings by wind speed and by clouds (top n each,
// descending, ties keep input order) and averages both over all readings.
// Averages are 0 when there are no readings.
func Statistics(readings []types.Reading, n int) shared.StatisticsPayload {
	out := shared.StatisticsPayload{
		TopWind:  []shared.WindEntry{},
		TopSolar: []shared.SolarEntry{},
	}
	if len(readings) == 0 || n <= 0 {
		return out
	}

	for _, r := range topBy(readings, n, func(r types.Reading) float64 { return r.WindSpeed }) {
		out.TopWind = append(out.TopWind, shared.WindEntry{Name: r.Site, WindSpeed: r.WindSpeed})
	}
	for _, r := range topBy(readings, n, func(r types.Reading) float64 { return r.Clouds }) {
		out.TopSolar = append(out.TopSolar, shared.SolarEntry{Name: r.Site, Clouds: r.Clouds})
	}

	var wind, clouds float64
	for _, r := range readings {
		wind += r.WindSpeed
		clouds += r.Clouds
	}
	out.AverageWind = wind / float64(len(readings))
	out.AverageSolar = clouds / float64(len(readings))
	return out
}

func topBy(readings []types.Reading, n int, key func(types.Reading) float64) []types.Reading {
	sorted := make([]types.Reading, len(readings))
	copy(sorted, readings)
	sort.SliceStable(sorted, func(i, j int) bool { return key(sorted[i]) > key(sorted[j]) })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
