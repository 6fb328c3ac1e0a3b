package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/Masterminds/semver/v3"

	"github.com/szulist/zabbix-proxy-dashboards/internal/capability"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"paged", ModePaged, false},
		{"single", ModeSingle, false},
		{"fancy", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveStrategy_PagedBelowThreshold(t *testing.T) {
	_, err := ResolveStrategy(ModePaged, semver.MustParse("5.0.0"))
	if err == nil {
		t.Fatal("expected error for paged mode on 5.0.0")
	}
	if !errors.Is(err, capability.ErrUnsupportedVersion) {
		t.Errorf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestResolveStrategy_PagedAtThreshold(t *testing.T) {
	s, err := ResolveStrategy(ModePaged, semver.MustParse("5.4.0"))
	if err != nil {
		t.Fatalf("ResolveStrategy: %v", err)
	}
	if s.Mode() != ModePaged {
		t.Errorf("mode = %q, want paged", s.Mode())
	}
}

func TestDocuments_Paged(t *testing.T) {
	s, err := ResolveStrategy(ModePaged, semver.MustParse("6.0.0"))
	if err != nil {
		t.Fatalf("ResolveStrategy: %v", err)
	}

	targets := []Target{
		{ID: "1", Name: "proxy-a"},
		{ID: "2", Name: "proxy-b"},
	}
	docs := s.Documents(targets, "42")

	if len(docs) != 1 {
		t.Fatalf("expected one document, got %d", len(docs))
	}
	doc := docs[0]
	if doc.Name != PagedTitle {
		t.Errorf("name = %q, want %q", doc.Name, PagedTitle)
	}
	if doc.OwnerID != "42" {
		t.Errorf("owner = %q, want 42", doc.OwnerID)
	}

	layout, ok := doc.Layout().(PageLayout)
	if !ok {
		t.Fatalf("layout = %T, want PageLayout", doc.Layout())
	}
	if len(layout.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(layout.Pages))
	}
	// Pages follow target input order.
	if layout.Pages[0].Name != "proxy-a" || layout.Pages[1].Name != "proxy-b" {
		t.Errorf("page order = %q, %q", layout.Pages[0].Name, layout.Pages[1].Name)
	}
}

func TestDocuments_PagedEmptyBatch(t *testing.T) {
	s, err := ResolveStrategy(ModePaged, semver.MustParse("6.0.0"))
	if err != nil {
		t.Fatalf("ResolveStrategy: %v", err)
	}

	// An empty target batch still produces the one batch dashboard, with
	// zero pages.
	docs := s.Documents(nil, "42")
	if len(docs) != 1 {
		t.Fatalf("expected one document for an empty batch, got %d", len(docs))
	}
	if docs[0].Name != PagedTitle {
		t.Errorf("name = %q, want %q", docs[0].Name, PagedTitle)
	}

	data, err := json.Marshal(docs[0])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	pages, ok := raw["pages"].([]interface{})
	if !ok {
		t.Fatalf("pages transmitted as %T, want array", raw["pages"])
	}
	if len(pages) != 0 {
		t.Errorf("expected an empty pages array, got %d entries", len(pages))
	}
}

func TestDocuments_SingleEmptyBatch(t *testing.T) {
	s, err := ResolveStrategy(ModeSingle, semver.MustParse("6.0.0"))
	if err != nil {
		t.Fatalf("ResolveStrategy: %v", err)
	}
	if docs := s.Documents(nil, "42"); len(docs) != 0 {
		t.Errorf("expected no documents for an empty batch, got %d", len(docs))
	}
}

func TestDocuments_SingleModern(t *testing.T) {
	s, err := ResolveStrategy(ModeSingle, semver.MustParse("5.4.0"))
	if err != nil {
		t.Fatalf("ResolveStrategy: %v", err)
	}

	docs := s.Documents([]Target{{ID: "1", Name: "proxy-a"}}, "42")
	if len(docs) != 1 {
		t.Fatalf("expected one document, got %d", len(docs))
	}
	if want := fmt.Sprintf(SingleTitleFormat, "proxy-a"); docs[0].Name != want {
		t.Errorf("name = %q, want %q", docs[0].Name, want)
	}

	layout, ok := docs[0].Layout().(PageLayout)
	if !ok {
		t.Fatalf("layout = %T, want PageLayout on 5.4.0", docs[0].Layout())
	}
	if len(layout.Pages) != 1 {
		t.Errorf("expected one page, got %d", len(layout.Pages))
	}
}

func TestDocuments_SingleLegacy(t *testing.T) {
	s, err := ResolveStrategy(ModeSingle, semver.MustParse("5.0.0"))
	if err != nil {
		t.Fatalf("ResolveStrategy: %v", err)
	}

	docs := s.Documents([]Target{{ID: "1", Name: "proxy-a"}, {ID: "2", Name: "proxy-b"}}, "42")
	if len(docs) != 2 {
		t.Fatalf("expected two documents, got %d", len(docs))
	}

	// Pre-pages servers get the widget list hoisted to the top level.
	layout, ok := docs[0].Layout().(WidgetLayout)
	if !ok {
		t.Fatalf("layout = %T, want WidgetLayout on 5.0.0", docs[0].Layout())
	}
	if len(layout.Widgets) != 6 {
		t.Errorf("expected 6 top-level widgets, got %d", len(layout.Widgets))
	}

	data, err := json.Marshal(docs[0])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := raw["pages"]; ok {
		t.Error("legacy document must not carry a pages key")
	}
	if _, ok := raw["widgets"]; !ok {
		t.Error("legacy document missing top-level widgets")
	}
}

func TestDocumentMarshal_Shell(t *testing.T) {
	doc := NewDocument("Zabbix proxies health", "7")
	doc.SetPages([]Page{BuildPage(Target{ID: "1", Name: "p"})})

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := map[string]string{
		"name":           "Zabbix proxies health",
		"userid":         "7",
		"private":        "1",
		"display_period": "30",
		"auto_start":     "1",
	}
	for k, v := range want {
		if raw[k] != v {
			t.Errorf("%s = %v, want %q", k, raw[k], v)
		}
	}
	if _, ok := raw["widgets"]; ok {
		t.Error("paged document must not carry a widgets key")
	}

	pages := raw["pages"].([]interface{})
	page := pages[0].(map[string]interface{})
	if page["display_period"] != "0" {
		t.Errorf("page display_period = %v, want \"0\"", page["display_period"])
	}
}
