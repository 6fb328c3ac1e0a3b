package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var syncSources []string

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import configuration templates",
	Long: `Sync imports each configured template (local file or URL) through
configuration.import. The import rule set is adjusted to the server version.

Templates are imported one at a time; a failed import is logged and the
remaining templates are still attempted.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringSliceVarP(&syncSources, "source", "s", nil, "template file or URL to import (repeatable, overrides config)")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sources := cfg.Templates.Sources
	if len(syncSources) > 0 {
		sources = syncSources
	}
	if len(sources) == 0 {
		return fmt.Errorf("no template sources configured (set templates.sources or pass --source)")
	}

	syncer, client, err := buildSyncer(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	results := syncer.Sync(ctx, sources)

	imported, failed := 0, 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		} else {
			imported++
		}
	}

	log.Info("Template sync complete",
		zap.Int("imported", imported),
		zap.Int("failed", failed))
	return nil
}
