package dashboard

// Fixed catalog of the six panels generated for every proxy. Graph widgets
// bind to the proxy's metrics through wildcarded item-name patterns scoped
// by the proxy's visible name; problem highlighting and the problem list
// bind through the hostid. The server resolves the two differently, so the
// name/id split must not be collapsed.

const (
	colorQueueCurrent = "B0AF07"
	colorQueueAverage = "E53935"
	colorQueuePreproc = "0275B8"
	colorThroughput   = "00BFFF"
	colorUtilization  = "E57373"
	colorCacheUsage   = "4DB6AC"
)

// widgetSpec is one row of the static panel catalog.
type widgetSpec struct {
	kind   string
	name   string
	x, y   int
	w, h   int
	fields func(t Target) []Field
}

// pageWidgets is the per-proxy panel catalog, in page order.
var pageWidgets = []widgetSpec{
	{
		kind: "svggraph", name: "Queue size", x: 16, y: 5, w: 8, h: 5,
		fields: func(t Target) []Field {
			return concatFields(
				series(0, t.Name, "Zabbix queue", colorQueueCurrent),
				series(1, t.Name, "Zabbix queue over 10 minutes", colorQueueAverage),
				series(2, t.Name, "Zabbix preprocessing queue", colorQueuePreproc),
				[]Field{
					{FieldString, "lefty_min", "0"},
					{FieldString, "problemhosts.0", t.Name},
				},
				lineStyle(0), lineStyle(1), lineStyle(2),
				graphCommon(),
			)
		},
	},
	{
		kind: "svggraph", name: "Values processed per second", x: 8, y: 0, w: 8, h: 5,
		fields: func(t Target) []Field {
			return concatFields(
				series(0, t.Name, "Number of processed *values per second", colorThroughput),
				[]Field{
					{FieldString, "lefty_min", "0"},
					{FieldString, "problemhosts.0", t.Name},
					{FieldInteger, "ds.transparency.0", "0"},
				},
				graphCommon(),
			)
		},
	},
	{
		kind: "svggraph", name: "Utilization of data collectors", x: 0, y: 5, w: 8, h: 5,
		fields: func(t Target) []Field {
			return percentGraphFields(t, "Utilization of * data collector *", colorUtilization)
		},
	},
	{
		kind: "svggraph", name: "Utilization of internal processes", x: 8, y: 5, w: 8, h: 5,
		fields: func(t Target) []Field {
			return percentGraphFields(t, "Utilization of * internal *", colorUtilization)
		},
	},
	{
		kind: "svggraph", name: "Cache usage", x: 16, y: 0, w: 8, h: 5,
		fields: func(t Target) []Field {
			return concatFields(
				series(0, t.Name, "Zabbix*cache*% used", colorCacheUsage),
				[]Field{
					{FieldString, "lefty_min", "0"},
					{FieldString, "lefty_max", "100"},
					{FieldString, "problemhosts.0", t.Name},
				},
				lineStyle(0),
				graphCommon(),
			)
		},
	},
	{
		kind: "problems", name: "", x: 0, y: 0, w: 8, h: 5,
		fields: func(t Target) []Field {
			return []Field{
				{FieldHost, "hostids", t.ID},
				{FieldInteger, "show_opdata", "1"},
			}
		},
	},
}

// series returns the host/item/color triple for one overlaid data set.
// The item pattern is wildcarded and scoped to the target's visible name.
func series(idx int, host, itemPattern, color string) []Field {
	i := itoa(idx)
	return []Field{
		{FieldString, "ds.hosts." + i + ".0", host},
		{FieldString, "ds.items." + i + ".0", itemPattern},
		{FieldString, "ds.color." + i, color},
	}
}

// lineStyle returns the 2px opaque unfilled line settings for a data set.
func lineStyle(idx int) []Field {
	i := itoa(idx)
	return []Field{
		{FieldInteger, "ds.width." + i, "2"},
		{FieldInteger, "ds.transparency." + i, "0"},
		{FieldInteger, "ds.fill." + i, "0"},
	}
}

// graphCommon returns the trailing settings shared by every graph panel:
// no right axis, no legend, problem highlighting for the target enabled.
func graphCommon() []Field {
	return []Field{
		{FieldInteger, "righty", "0"},
		{FieldInteger, "legend", "0"},
		{FieldInteger, "show_problems", "1"},
		{FieldInteger, "graph_item_problems", "0"},
	}
}

// percentGraphFields is the single-series 0-100 graph used by both
// utilization panels.
func percentGraphFields(t Target, itemPattern, color string) []Field {
	return concatFields(
		series(0, t.Name, itemPattern, color),
		[]Field{
			{FieldString, "lefty_min", "0"},
			{FieldString, "lefty_max", "100"},
			{FieldString, "problemhosts.0", t.Name},
			{FieldInteger, "ds.transparency.0", "0"},
		},
		graphCommon(),
	)
}

func concatFields(groups ...[]Field) []Field {
	var out []Field
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func itoa(i int) string {
	// panel catalog only uses single-digit series indexes
	return string(rune('0' + i))
}

// BuildPage renders the panel catalog for one target. Pure: two calls with
// the same target produce identical pages.
func BuildPage(t Target) Page {
	widgets := make([]Widget, 0, len(pageWidgets))
	for _, spec := range pageWidgets {
		widgets = append(widgets, Widget{
			Kind:   spec.kind,
			Name:   spec.name,
			X:      spec.x,
			Y:      spec.y,
			Width:  spec.w,
			Height: spec.h,
			Fields: spec.fields(t),
		})
	}
	return Page{Name: t.Name, Widgets: widgets}
}
