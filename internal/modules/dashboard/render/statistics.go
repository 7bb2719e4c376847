package render

import (
	"renewables-dashboard/internal/shared/jsnum"
	shared "renewables-dashboard/internal/shared/types"
)

// StatisticsSlots are the outputs of the statistics flow.
type StatisticsSlots struct {
	Wind         ListSlot
	Solar        ListSlot
	AverageWind  TextSlot
	AverageSolar TextSlot
}

func WindItem(e shared.WindEntry) string {
	return e.Name + ": " + jsnum.Format(e.WindSpeed) + " m/s"
}

func SolarItem(e shared.SolarEntry) string {
	return e.Name + ": " + jsnum.Format(e.Clouds) + " W/m²"
}

func AverageWindText(v float64) string {
	return jsnum.Fixed(v, 2) + " m/s"
}

func AverageSolarText(v float64) string {
	return jsnum.Fixed(v, 2) + " W/m²"
}

// AppendStatistics appends one entry per ranking row, in payload order,
// and sets both averages. Lists are not cleared: calling it twice
// duplicates entries.
func AppendStatistics(p shared.StatisticsPayload, slots StatisticsSlots) {
	for _, e := range p.TopWind {
		slots.Wind.Append(WindItem(e))
	}
	for _, e := range p.TopSolar {
		slots.Solar.Append(SolarItem(e))
	}
	slots.AverageWind.SetText(AverageWindText(p.AverageWind))
	slots.AverageSolar.SetText(AverageSolarText(p.AverageSolar))
}

// RenderStatistics clears both lists and then appends, so repeated renders
// replace the previous content.
func RenderStatistics(p shared.StatisticsPayload, slots StatisticsSlots) {
	slots.Wind.Clear()
	slots.Solar.Clear()
	AppendStatistics(p, slots)
}

// StatisticsUnavailable marks the averages with the placeholder text.
func StatisticsUnavailable(slots StatisticsSlots) {
	slots.AverageWind.SetText(Unavailable)
	slots.AverageSolar.SetText(Unavailable)
}
