package render

import (
	"renewables-dashboard/internal/shared/jsnum"
	shared "renewables-dashboard/internal/shared/types"
)

const (
	MapTitle     = "Optimal Renewable Sites"
	markerScale  = 100
	colorscale   = "Viridis"
	landColor    = "rgb(217, 217, 217)"
	countryColor = "rgb(255, 255, 255)"
)

// Figure is a Plotly figure: the traces and layout passed to Plotly.newPlot.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

type Trace struct {
	Type   string    `json:"type"`
	Mode   string    `json:"mode"`
	Text   []string  `json:"text"`
	Lon    []float64 `json:"lon"`
	Lat    []float64 `json:"lat"`
	Marker Marker    `json:"marker"`
}

type Marker struct {
	Size       []float64          `json:"size"`
	Color      []shared.Community `json:"color"`
	Colorscale string             `json:"colorscale"`
	Line       MarkerLine         `json:"line"`
}

type MarkerLine struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

type Layout struct {
	Title string `json:"title"`
	Geo   Geo    `json:"geo"`
}

type Geo struct {
	Scope        string     `json:"scope"`
	Projection   Projection `json:"projection"`
	ShowLand     bool       `json:"showland"`
	LandColor    string     `json:"landcolor"`
	CountryWidth float64    `json:"countrywidth"`
	CountryColor string     `json:"countrycolor"`
}

type Projection struct {
	Type string `json:"type"`
}

// SiteLabel is the text drawn next to a site marker.
func SiteLabel(s shared.SitePayload) string {
	return s.Name + ": PR " + jsnum.Fixed(s.PageRank, 3) + " | Comm " + s.Community.String()
}

// BuildFigure turns sites into a single scattergeo trace, one point per
// site in input order, over a fixed Europe layout.
func BuildFigure(sites []shared.SitePayload) Figure {
	trace := Trace{
		Type: "scattergeo",
		Mode: "markers+text",
		Text: make([]string, 0, len(sites)),
		Lon:  make([]float64, 0, len(sites)),
		Lat:  make([]float64, 0, len(sites)),
		Marker: Marker{
			Size:       make([]float64, 0, len(sites)),
			Color:      make([]shared.Community, 0, len(sites)),
			Colorscale: colorscale,
			Line:       MarkerLine{Color: "black", Width: 0.5},
		},
	}
	for _, s := range sites {
		trace.Text = append(trace.Text, SiteLabel(s))
		trace.Lon = append(trace.Lon, s.Lon)
		trace.Lat = append(trace.Lat, s.Lat)
		trace.Marker.Size = append(trace.Marker.Size, s.PageRank*markerScale)
		trace.Marker.Color = append(trace.Marker.Color, s.Community)
	}

	return Figure{
		Data: []Trace{trace},
		Layout: Layout{
			Title: MapTitle,
			Geo: Geo{
				Scope:        "europe",
				Projection:   Projection{Type: "mercator"},
				ShowLand:     true,
				LandColor:    landColor,
				CountryWidth: 1,
				CountryColor: countryColor,
			},
		},
	}
}

// RenderMap replaces whatever the slot currently shows.
func RenderMap(sites []shared.SitePayload, slot PlotSlot) {
	slot.Plot(BuildFigure(sites))
}

// MapUnavailable clears the plot and shows the placeholder instead.
func MapUnavailable(p *Plot) {
	p.Figure = nil
	p.Placeholder = Unavailable
}
