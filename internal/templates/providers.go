package templates

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/szulist/zabbix-proxy-dashboards/internal/zabbix"
)

// Module provides the template fetcher and syncer for fx injection.
var Module = fx.Module("templates",
	fx.Provide(
		NewFetcher,
		ProvideSyncer,
	),
	zabbix.Module,
)

// ProvideSyncer assembles a Syncer bound to the connected client's server
// version.
func ProvideSyncer(client *zabbix.Client, fetcher *Fetcher, log *zap.Logger) *Syncer {
	return NewSyncer(client, fetcher, client.Version(), log)
}
