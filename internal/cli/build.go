package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/carebridge/opsnotify/db/migrations"
	"github.com/carebridge/opsnotify/pkg/cassandra"
	"github.com/carebridge/opsnotify/pkg/config"
	"github.com/carebridge/opsnotify/pkg/email"
	"github.com/carebridge/opsnotify/pkg/httpserver"
	"github.com/carebridge/opsnotify/pkg/logger"
	"github.com/carebridge/opsnotify/pkg/mongo"
	"github.com/carebridge/opsnotify/pkg/opensearch"
	"github.com/carebridge/opsnotify/pkg/pg"
	"github.com/carebridge/opsnotify/pkg/redis"
	"github.com/carebridge/opsnotify/svc/alerts"
	"github.com/carebridge/opsnotify/svc/alerts/cassandrastore"
	"github.com/carebridge/opsnotify/svc/alerts/mongostore"
	"github.com/carebridge/opsnotify/svc/alerts/pgstore"
	"github.com/carebridge/opsnotify/svc/alerts/redisfanout"
	"github.com/carebridge/opsnotify/svc/alerts/searchstore"
	"github.com/carebridge/opsnotify/svc/monitor"
)

// app holds the wired components of one process.
type app struct {
	store      alerts.Store
	hub        *alerts.RoleHub
	dispatcher *alerts.Dispatcher
	notifier   *alerts.Notifier
	relay      *redisfanout.Relay
	monitor    *monitor.Monitor

	checks  []httpserver.Check
	pools   []monitor.Pool
	closers []func()
}

func (a *app) onClose(fn func()) {
	a.closers = append(a.closers, fn)
}

// close releases resources in reverse order of acquisition.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func buildApp(ctx context.Context, cfg Config, log *slog.Logger) (_ *app, err error) {
	a := &app{hub: alerts.NewRoleHub(cfg.HubBuffer)}
	a.onClose(func() { _ = a.hub.Close() })
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	if a.store, err = a.openStore(ctx, cfg, log); err != nil {
		return nil, err
	}

	fanout, err := a.buildFanout(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	a.dispatcher, err = alerts.NewDispatcher(a.store,
		alerts.WithQueueSize(cfg.QueueSize),
		alerts.WithWorkers(cfg.Workers),
		alerts.WithStepTimeout(cfg.StepTimeout),
		alerts.WithPrivilegedRole(cfg.PrivilegedRole),
		alerts.WithFanout(fanout),
		alerts.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}

	links := alerts.DefaultLinks()
	if cfg.LinksFile != "" {
		if links, err = loadLinks(cfg.LinksFile); err != nil {
			return nil, err
		}
	}
	a.notifier = alerts.NewNotifier(a.dispatcher, alerts.WithLinks(links))

	if cfg.MonitorInterval > 0 && (len(a.checks) > 0 || len(a.pools) > 0) {
		a.monitor, err = monitor.New(a.notifier, alerts.System(cfg.PrivilegedRole),
			monitor.WithInterval(cfg.MonitorInterval),
			monitor.WithProbes(a.checks...),
			monitor.WithPools(a.pools...),
			monitor.WithLogger(log.With(logger.Component("monitor"))),
		)
		if err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *app) openStore(ctx context.Context, cfg Config, log *slog.Logger) (alerts.Store, error) {
	switch cfg.Store {
	case StoreMemory:
		log.WarnContext(ctx, "using in-memory store, notifications are lost on restart")
		return alerts.NewMemoryStore(), nil

	case StorePostgres:
		var pgCfg pg.Config
		if err := config.Load(&pgCfg); err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, pgCfg)
		if err != nil {
			return nil, err
		}
		a.onClose(pool.Close)
		if cfg.AutoMigrate {
			if err := pg.Migrate(ctx, pool, migrations.FS, ".", pgCfg, log); err != nil {
				return nil, err
			}
		}
		a.checks = append(a.checks, httpserver.Check{Name: "postgres", Fn: pg.Healthcheck(pool)})
		a.pools = append(a.pools, monitor.Pool{Name: "postgres", Usage: pg.PoolUsage(pool)})
		return pgstore.New(pool), nil

	case StoreMongo:
		var mCfg mongo.Config
		if err := config.Load(&mCfg); err != nil {
			return nil, err
		}
		client, err := mongo.Connect(ctx, mCfg)
		if err != nil {
			return nil, err
		}
		a.onClose(func() { _ = client.Disconnect(context.Background()) })
		store := mongostore.New(client.Database(mCfg.Database))
		if err := store.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		a.checks = append(a.checks, httpserver.Check{Name: "mongo", Fn: mongo.Healthcheck(client)})
		return store, nil

	case StoreCassandra:
		var cCfg cassandra.Config
		if err := config.Load(&cCfg); err != nil {
			return nil, err
		}
		session, err := cassandra.Connect(ctx, cCfg)
		if err != nil {
			return nil, err
		}
		a.onClose(session.Close)
		store := cassandrastore.New(session, cfg.Lookback)
		if err := store.CreateTable(ctx); err != nil {
			return nil, err
		}
		a.checks = append(a.checks, httpserver.Check{Name: "cassandra", Fn: cassandra.Healthcheck(session)})
		return store, nil

	case StoreOpenSearch:
		var oCfg opensearch.Config
		if err := config.Load(&oCfg); err != nil {
			return nil, err
		}
		client, err := opensearch.Connect(ctx, oCfg)
		if err != nil {
			return nil, err
		}
		store := searchstore.New(client, oCfg.Index)
		if err := store.EnsureIndex(ctx); err != nil {
			return nil, err
		}
		a.checks = append(a.checks, httpserver.Check{Name: "opensearch", Fn: opensearch.Healthcheck(client)})
		return store, nil
	}
	return nil, fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, cfg.Store)
}

// buildFanout assembles the delivery targets. With redis enabled the local
// hub is fed by the relay instead of directly, so every replica (this one
// included) receives each notification exactly once.
func (a *app) buildFanout(ctx context.Context, cfg Config, log *slog.Logger) (alerts.Fanout, error) {
	var members []alerts.NamedFanout

	if cfg.RedisFanout {
		var rCfg redis.Config
		if err := config.Load(&rCfg); err != nil {
			return nil, err
		}
		client, err := redis.Connect(ctx, rCfg)
		if err != nil {
			return nil, err
		}
		a.onClose(func() { _ = client.Close() })
		a.relay = redisfanout.NewRelay(client, cfg.RedisPrefix, a.hub, log)
		a.checks = append(a.checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)})
		members = append(members, alerts.NamedFanout{Name: "redis", Fanout: redisfanout.NewPublisher(client, cfg.RedisPrefix)})
	} else {
		members = append(members, alerts.NamedFanout{Name: "hub", Fanout: a.hub})
	}

	if cfg.GatewayURL != "" {
		gw, err := alerts.NewGatewayFanout(cfg.GatewayURL, cfg.GatewaySecret, cfg.GatewayTimeout, log)
		if err != nil {
			return nil, err
		}
		members = append(members, alerts.NamedFanout{Name: "gateway", Fanout: gw})
	}

	if len(cfg.EscalationEmails) > 0 {
		esc, err := buildEscalation(cfg)
		if err != nil {
			return nil, err
		}
		members = append(members, alerts.NamedFanout{Name: "email", Fanout: esc})
	}

	return alerts.NewMultiFanout(log, members...), nil
}

func buildEscalation(cfg Config) (*alerts.EscalationFanout, error) {
	threshold, err := alerts.ParsePriority(cfg.EscalationThreshold)
	if err != nil {
		return nil, err
	}
	sender, err := email.NewSender(cfg.Email)
	if err != nil {
		return nil, err
	}
	return alerts.NewEscalationFanout(sender, cfg.EscalationEmails,
		alerts.WithEscalationThreshold(threshold),
		alerts.WithConsoleBaseURL(cfg.ConsoleURL),
	)
}

func loadLinks(path string) (alerts.Links, error) {
	f, err := os.Open(path)
	if err != nil {
		return alerts.Links{}, fmt.Errorf("open links file: %w", err)
	}
	defer f.Close()
	links, err := alerts.LoadLinks(f)
	if err != nil {
		return alerts.Links{}, errors.Join(fmt.Errorf("links file %s", path), err)
	}
	return links, nil
}
