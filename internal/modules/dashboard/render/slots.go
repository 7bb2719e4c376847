// Package render projects dashboard payloads into named output slots.
package render

// Element ids the page template exposes for each slot.
const (
	WindListID     = "top-wind"
	SolarListID    = "top-solar"
	AverageWindID  = "average-wind"
	AverageSolarID = "average-solar"
	MapID          = "map"
)

// Unavailable is shown in place of data a flow failed to load.
const Unavailable = "data unavailable"

type ListSlot interface {
	Clear()
	Append(item string)
}

type TextSlot interface {
	SetText(text string)
}

type PlotSlot interface {
	Plot(fig Figure)
}

// List is an ordered list of text entries.
type List struct {
	ID    string
	Items []string
}

func (l *List) Clear()             { l.Items = nil }
func (l *List) Append(item string) { l.Items = append(l.Items, item) }

type Text struct {
	ID    string
	Value string
}

func (t *Text) SetText(text string) { t.Value = text }

// Plot holds at most one figure. Placeholder is shown while Figure is nil.
type Plot struct {
	ID          string
	Figure      *Figure
	Placeholder string
}

func (p *Plot) Plot(fig Figure) {
	p.Figure = &fig
	p.Placeholder = ""
}

// Page is the full set of slots a dashboard render fills.
type Page struct {
	Wind         *List
	Solar        *List
	AverageWind  *Text
	AverageSolar *Text
	Map          *Plot
}

func NewPage() *Page {
	return &Page{
		Wind:         &List{ID: WindListID},
		Solar:        &List{ID: SolarListID},
		AverageWind:  &Text{ID: AverageWindID},
		AverageSolar: &Text{ID: AverageSolarID},
		Map:          &Plot{ID: MapID},
	}
}

func (p *Page) StatisticsSlots() StatisticsSlots {
	return StatisticsSlots{
		Wind:         p.Wind,
		Solar:        p.Solar,
		AverageWind:  p.AverageWind,
		AverageSolar: p.AverageSolar,
	}
}
