// Package dashboard builds per-proxy health dashboard documents and
// reconciles them against a Zabbix server.
package dashboard

import (
	"encoding/json"
	"strconv"
)

// Target is a monitored proxy host a dashboard page is generated for.
// ID is the stable identity (hostid); Name is display data and also the
// anchor for wildcarded item patterns on the graph widgets.
type Target struct {
	ID   string
	Name string
}

// FieldType is the Zabbix widget field value type.
type FieldType int

const (
	FieldInteger FieldType = 0
	FieldString  FieldType = 1
	FieldHost    FieldType = 3
)

// Field is one typed name/value pair on a widget. The API expects every
// scalar as its string form, including the type discriminator.
type Field struct {
	Type  FieldType
	Name  string
	Value string
}

func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Name  string `json:"name"`
		Value string `json:"value"`
	}{
		Type:  strconv.Itoa(int(f.Type)),
		Name:  f.Name,
		Value: f.Value,
	})
}

// Widget is one visual panel. Position and size are in grid cells and are
// transmitted as strings.
type Widget struct {
	Kind   string
	Name   string
	X      int
	Y      int
	Width  int
	Height int
	Fields []Field
}

func (w Widget) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string  `json:"type"`
		Name     string  `json:"name"`
		X        string  `json:"x"`
		Y        string  `json:"y"`
		Width    string  `json:"width"`
		Height   string  `json:"height"`
		ViewMode string  `json:"view_mode"`
		Fields   []Field `json:"fields"`
	}{
		Type:     w.Kind,
		Name:     w.Name,
		X:        strconv.Itoa(w.X),
		Y:        strconv.Itoa(w.Y),
		Width:    strconv.Itoa(w.Width),
		Height:   strconv.Itoa(w.Height),
		ViewMode: "0",
		Fields:   w.Fields,
	})
}

// Page is one ordered widget list inside a paged dashboard, named after its
// target.
type Page struct {
	Name    string
	Widgets []Widget
}

func (p Page) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name          string   `json:"name"`
		DisplayPeriod string   `json:"display_period"`
		Widgets       []Widget `json:"widgets"`
	}{
		Name:          p.Name,
		DisplayPeriod: "0",
		Widgets:       p.Widgets,
	})
}

// Layout is the body variant of a Document: either a page sequence or a
// flat widget list, never both. The two implementations are the only ones;
// attaching one replaces the other, so the mixed state cannot be built.
type Layout interface {
	layoutParams() map[string]interface{}
}

// PageLayout is the paged body shape (Zabbix >= 5.4).
type PageLayout struct {
	Pages []Page
}

func (l PageLayout) layoutParams() map[string]interface{} {
	pages := l.Pages
	if pages == nil {
		pages = []Page{}
	}
	return map[string]interface{}{"pages": pages}
}

// WidgetLayout is the legacy flat body shape with top-level widgets.
type WidgetLayout struct {
	Widgets []Widget
}

func (l WidgetLayout) layoutParams() map[string]interface{} {
	widgets := l.Widgets
	if widgets == nil {
		widgets = []Widget{}
	}
	return map[string]interface{}{"widgets": widgets}
}

// Document is the unit of reconciliation. Name is the natural key used to
// locate a pre-existing dashboard for update. The shell attributes are
// fixed: private, auto-starting slideshow, 30 second display period.
type Document struct {
	Name    string
	OwnerID string
	layout  Layout
}

// NewDocument returns a private, auto-starting document shell with an empty
// paged layout, owned by the given user.
func NewDocument(name, ownerID string) Document {
	return Document{
		Name:    name,
		OwnerID: ownerID,
		layout:  PageLayout{},
	}
}

// SetPages attaches a paged layout, replacing any previous layout.
func (d *Document) SetPages(pages []Page) {
	d.layout = PageLayout{Pages: pages}
}

// SetWidgets attaches a flat widget layout, replacing any previous layout.
func (d *Document) SetWidgets(widgets []Widget) {
	d.layout = WidgetLayout{Widgets: widgets}
}

// Layout returns the attached layout variant.
func (d Document) Layout() Layout {
	return d.layout
}

// LayoutParams returns only the pages-or-widgets pair of the document, the
// partial field set used for an in-place dashboard.update.
func (d Document) LayoutParams() map[string]interface{} {
	if d.layout == nil {
		return map[string]interface{}{}
	}
	return d.layout.layoutParams()
}

func (d Document) MarshalJSON() ([]byte, error) {
	type shell struct {
		Name          string `json:"name"`
		UserID        string `json:"userid"`
		Private       string `json:"private"`
		DisplayPeriod string `json:"display_period"`
		AutoStart     string `json:"auto_start"`
	}
	s := shell{
		Name:          d.Name,
		UserID:        d.OwnerID,
		Private:       "1",
		DisplayPeriod: "30",
		AutoStart:     "1",
	}

	switch l := d.layout.(type) {
	case PageLayout:
		pages := l.Pages
		if pages == nil {
			pages = []Page{}
		}
		return json.Marshal(struct {
			shell
			Pages []Page `json:"pages"`
		}{s, pages})
	case WidgetLayout:
		widgets := l.Widgets
		if widgets == nil {
			widgets = []Widget{}
		}
		return json.Marshal(struct {
			shell
			Widgets []Widget `json:"widgets"`
		}{s, widgets})
	default:
		return json.Marshal(s)
	}
}
