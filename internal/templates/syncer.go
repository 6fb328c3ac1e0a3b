package templates

import (
	"context"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"
)

// ImportAPI is the slice of the Zabbix API the syncer needs.
// *zabbix.Client satisfies it.
type ImportAPI interface {
	ImportConfiguration(ctx context.Context, source, format string, rules interface{}) error
}

// Source retrieves raw template content by reference. *Fetcher satisfies it.
type Source interface {
	Fetch(ctx context.Context, ref string) (string, error)
}

// Result records the outcome for one template reference.
type Result struct {
	Ref string
	Err error
}

// Syncer imports a batch of template references, one at a time.
type Syncer struct {
	api     ImportAPI
	src     Source
	version *semver.Version
	log     *zap.Logger
}

func NewSyncer(api ImportAPI, src Source, version *semver.Version, log *zap.Logger) *Syncer {
	return &Syncer{api: api, src: src, version: version, log: log}
}

// Sync imports each reference sequentially, best-effort. Every failure —
// unrecognized suffix, fetch error, import rejection — is recorded for that
// one template and the loop continues with the next.
func (s *Syncer) Sync(ctx context.Context, refs []string) []Result {
	results := make([]Result, 0, len(refs))
	for _, ref := range refs {
		results = append(results, Result{Ref: ref, Err: s.syncOne(ctx, ref)})
	}
	return results
}

func (s *Syncer) syncOne(ctx context.Context, ref string) error {
	format, err := InferFormat(ref)
	if err != nil {
		s.log.Error("Skipping template with unrecognized format", zap.String("ref", ref))
		return err
	}

	s.log.Info("Importing template", zap.String("ref", ref), zap.String("format", string(format)))

	content, err := s.src.Fetch(ctx, ref)
	if err != nil {
		s.log.Error("Failed to fetch template", zap.String("ref", ref), zap.Error(err))
		return err
	}

	plan := BuildPlan(s.version)
	if err := s.api.ImportConfiguration(ctx, content, string(format), plan); err != nil {
		s.log.Error("Failed to import template", zap.String("ref", ref), zap.Error(err))
		return err
	}

	s.log.Info("Imported template", zap.String("ref", ref))
	return nil
}
