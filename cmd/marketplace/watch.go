package main

import (
	"net/http"

	"github.com/rentable-lab/marketplace/internal/domain/blockchain/eth"
	"github.com/rentable-lab/marketplace/pkg/prometheus"
	"github.com/rentable-lab/marketplace/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) watch(c *cli.Context) error {
	cancel, err := s.prepare(c)
	if err != nil {
		return err
	}
	defer cancel()

	cfg := xcontext.Configs(s.ctx)
	if cfg.PrometheusServer.Port != "" {
		go s.startPrometheus()
	}

	if err := s.provider.Refresh(s.ctx); err != nil {
		xcontext.Logger(s.ctx).Warnf("Cannot load marketplace: %v", err)
	} else {
		xcontext.Logger(s.ctx).Infof("Loaded %d listings and %d owned tokens",
			len(s.provider.Listings()), len(s.provider.OwnedTokens()))
	}

	var heads chan uint64
	if c.Bool("follow-blocks") {
		heads = make(chan uint64)
		go eth.NewHeadWatcher(s.ethClient, cfg.Chain).Run(s.ctx, heads)
	}

	xcontext.Logger(s.ctx).Infof("Watching marketplace every %s", cfg.Marketplace.WatchInterval.Duration)
	s.provider.Watch(s.ctx, cfg.Marketplace.WatchInterval.Duration, heads)

	xcontext.Logger(s.ctx).Infof("Stopped watching marketplace")
	return nil
}

func (s *srv) startPrometheus() {
	cfg := xcontext.Configs(s.ctx)
	httpSrv := &http.Server{
		Addr:    cfg.PrometheusServer.Address(),
		Handler: prometheus.NewHandler(),
	}

	go func() {
		<-s.ctx.Done()
		httpSrv.Close()
	}()

	xcontext.Logger(s.ctx).Infof("Starting prometheus on port: %s", cfg.PrometheusServer.Port)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		xcontext.Logger(s.ctx).Errorf("Prometheus server stopped: %v", err)
	}
}
