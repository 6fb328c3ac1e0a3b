package cmd

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/szulist/zabbix-proxy-dashboards/internal/config"
	"github.com/szulist/zabbix-proxy-dashboards/internal/templates"
	"github.com/szulist/zabbix-proxy-dashboards/internal/zabbix"
)

// buildClient assembles an authenticated Zabbix client through fx.
// Construction connects and authenticates, so an fx error here already
// carries the capability or credential failure.
func buildClient(cfg *config.Config, log *zap.Logger) (*zabbix.Client, error) {
	var client *zabbix.Client
	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg, log),
		zabbix.Module,
		fx.Populate(&client),
	)
	if err := app.Err(); err != nil {
		return nil, err
	}
	return client, nil
}

// buildSyncer assembles the template syncer and the client it talks through.
// The caller owns the client and must Close it.
func buildSyncer(cfg *config.Config, log *zap.Logger) (*templates.Syncer, *zabbix.Client, error) {
	var (
		syncer *templates.Syncer
		client *zabbix.Client
	)
	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg, log),
		templates.Module,
		fx.Populate(&syncer, &client),
	)
	if err := app.Err(); err != nil {
		return nil, nil, err
	}
	return syncer, client, nil
}
