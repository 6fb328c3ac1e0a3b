package dashboard

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/szulist/zabbix-proxy-dashboards/internal/zabbix"
)

// Store is the slice of the Zabbix API the reconciler needs.
// *zabbix.Client satisfies it.
type Store interface {
	// CreateDashboard creates a dashboard from its JSON form and returns
	// its id. A name collision is reported as zabbix.ErrConflict.
	CreateDashboard(ctx context.Context, doc interface{}) (string, error)
	// FindDashboardByName returns the id of the dashboard with exactly
	// that name, or zabbix.ErrNotFound.
	FindDashboardByName(ctx context.Context, name string) (string, error)
	// UpdateDashboard applies a partial field set to an existing dashboard.
	UpdateDashboard(ctx context.Context, id string, params map[string]interface{}) error
}

// Outcome is the per-document reconciliation result.
type Outcome int

const (
	Created Outcome = iota
	Updated
	Skipped
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Updated:
		return "updated"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result records what happened to one document. Err is set for Skipped and
// Failed outcomes.
type Result struct {
	Name    string
	Outcome Outcome
	Err     error
}

// Reconciler drives the create-or-update loop over a document batch.
type Reconciler struct {
	store Store
	log   *zap.Logger
}

func NewReconciler(store Store, log *zap.Logger) *Reconciler {
	return &Reconciler{store: store, log: log}
}

// Reconcile applies each document in input order, strictly sequentially.
// Per-document failures are recorded and the loop continues; a later
// document's error never changes an earlier outcome. Duplicate names within
// the batch are rejected before any remote call, since the force-update
// path locates existing dashboards by exact name and could not tell two
// same-named siblings apart.
func (r *Reconciler) Reconcile(ctx context.Context, docs []Document, force bool) ([]Result, error) {
	seen := make(map[string]bool, len(docs))
	for _, doc := range docs {
		if seen[doc.Name] {
			return nil, fmt.Errorf("duplicate dashboard name in batch: %q", doc.Name)
		}
		seen[doc.Name] = true
	}

	results := make([]Result, 0, len(docs))
	for _, doc := range docs {
		results = append(results, r.reconcileOne(ctx, doc, force))
	}
	return results, nil
}

func (r *Reconciler) reconcileOne(ctx context.Context, doc Document, force bool) Result {
	_, err := r.store.CreateDashboard(ctx, doc)
	if err == nil {
		r.log.Info("Created dashboard", zap.String("name", doc.Name))
		return Result{Name: doc.Name, Outcome: Created}
	}

	if !errors.Is(err, zabbix.ErrConflict) {
		r.log.Error("Failed to create dashboard", zap.String("name", doc.Name), zap.Error(err))
		return Result{Name: doc.Name, Outcome: Failed, Err: err}
	}

	if !force {
		r.log.Error("Dashboard already exists, skipping (use --force to update)",
			zap.String("name", doc.Name))
		return Result{Name: doc.Name, Outcome: Skipped, Err: err}
	}

	r.log.Info("Forcing update of existing dashboard", zap.String("name", doc.Name))

	id, err := r.store.FindDashboardByName(ctx, doc.Name)
	if err != nil {
		r.log.Error("Failed to look up existing dashboard",
			zap.String("name", doc.Name), zap.Error(err))
		return Result{Name: doc.Name, Outcome: Failed, Err: err}
	}

	// Only the layout field is replaced; every other attribute of the
	// existing dashboard stays as it is.
	if err := r.store.UpdateDashboard(ctx, id, doc.LayoutParams()); err != nil {
		r.log.Error("Failed to update dashboard",
			zap.String("name", doc.Name), zap.Error(err))
		return Result{Name: doc.Name, Outcome: Failed, Err: err}
	}

	r.log.Info("Updated dashboard", zap.String("name", doc.Name))
	return Result{Name: doc.Name, Outcome: Updated}
}

// Summarize counts outcomes for the end-of-run log line.
func Summarize(results []Result) (created, updated, skipped, failed int) {
	for _, res := range results {
		switch res.Outcome {
		case Created:
			created++
		case Updated:
			updated++
		case Skipped:
			skipped++
		case Failed:
			failed++
		}
	}
	return
}
