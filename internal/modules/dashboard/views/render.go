package views

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"io/fs"

	"renewables-dashboard/internal/modules/dashboard/render"
)

//go:embed templates
var viewsFS embed.FS

var dashboardTmpl *template.Template

var errNotLoaded = errors.New("dashboard template not loaded: call views.LoadTemplates during startup")

// loadTemplatesFromFS loads dashboard templates from the given fs and dir.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	tmpl, err := template.ParseFS(sub, "*.html", "partials/*.html")
	if err != nil {
		return err
	}
	dashboardTmpl = tmpl
	return nil
}

// LoadTemplates loads the embedded templates. Call during startup before
// serving requests.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

// DashboardData is the view model for the full page.
type DashboardData struct {
	Title string
	Page  *render.Page
}

func RenderDashboard(w io.Writer, data *DashboardData) error {
	if dashboardTmpl == nil {
		return errNotLoaded
	}
	return dashboardTmpl.ExecuteTemplate(w, "dashboard.html", data)
}

// RenderStatisticsPartial executes only the statistics section, for HTMX
// refresh.
func RenderStatisticsPartial(w io.Writer, page *render.Page) error {
	if dashboardTmpl == nil {
		return errNotLoaded
	}
	return dashboardTmpl.ExecuteTemplate(w, "partials/statistics.html", page)
}
