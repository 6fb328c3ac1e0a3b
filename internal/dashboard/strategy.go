package dashboard

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/szulist/zabbix-proxy-dashboards/internal/capability"
)

// Dashboard titles. The paged mode produces a single dashboard; single mode
// produces one dashboard per proxy.
const (
	PagedTitle        = "Zabbix proxies health"
	SingleTitleFormat = "Zabbix proxy health: %s"
)

// Mode selects how targets map onto dashboards.
type Mode string

const (
	// ModePaged: one dashboard for the whole batch, one page per proxy.
	ModePaged Mode = "paged"
	// ModeSingle: one dashboard per proxy.
	ModeSingle Mode = "single"
)

// ParseMode validates a mode string from config or flags.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModePaged, ModeSingle:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown creation mode %q (want paged or single)", s)
	}
}

// Strategy is a resolved layout mode, bound to what the server version
// allows. Obtain one through ResolveStrategy.
type Strategy struct {
	mode  Mode
	paged bool // server supports the pages array
}

// ResolveStrategy checks the requested mode against the server version.
// Paged mode on a server without paged dashboards fails up front with
// capability.ErrUnsupportedVersion, before any document is built.
func ResolveStrategy(mode Mode, version *semver.Version) (Strategy, error) {
	if mode == ModePaged {
		if err := capability.Require(version, capability.PagedDashboards); err != nil {
			return Strategy{}, err
		}
	}
	return Strategy{
		mode:  mode,
		paged: capability.Supported(version, capability.PagedDashboards),
	}, nil
}

// Mode returns the resolved creation mode.
func (s Strategy) Mode() Mode {
	return s.mode
}

// Documents builds the dashboard batch for the given targets, in input
// order. In single mode on a pre-pages server the page's widget list is
// hoisted to the document's top level; this structural fallback is what
// older servers expect and is not a degradation.
func (s Strategy) Documents(targets []Target, ownerID string) []Document {
	if s.mode == ModePaged {
		doc := NewDocument(PagedTitle, ownerID)
		pages := make([]Page, 0, len(targets))
		for _, t := range targets {
			pages = append(pages, BuildPage(t))
		}
		doc.SetPages(pages)
		return []Document{doc}
	}

	docs := make([]Document, 0, len(targets))
	for _, t := range targets {
		doc := NewDocument(fmt.Sprintf(SingleTitleFormat, t.Name), ownerID)
		page := BuildPage(t)
		if s.paged {
			doc.SetPages([]Page{page})
		} else {
			doc.SetWidgets(page.Widgets)
		}
		docs = append(docs, doc)
	}
	return docs
}
