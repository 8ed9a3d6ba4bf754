package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/kiddarkness/itemshop/internal/app/system"
	"github.com/kiddarkness/itemshop/pkg/logger"
)

var _ system.Service = (*Refresher)(nil)

// Refresher keeps the catalog snapshot current: one refresh immediately on
// start (the shop must render on first page load) and then on the configured
// cron schedule. The shop API rotates offers on fixed boundaries, so cron
// specs like "@every 10m" or "0 0 * * *" both make sense here.
type Refresher struct {
	service *Service
	log     *logger.Logger
	spec    string

	mu      sync.Mutex
	cron    *cron.Cron
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// NewRefresher creates a lifecycle-managed catalog refresher.
func NewRefresher(service *Service, spec string, log *logger.Logger) *Refresher {
	if log == nil {
		log = logger.NewDefault("catalog-refresher")
	}
	if spec == "" {
		spec = "@every 10m"
	}
	return &Refresher{
		service: service,
		log:     log,
		spec:    spec,
	}
}

func (r *Refresher) Name() string { return "catalog-refresher" }

func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	runCtx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.running = true

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(r.spec, func() { r.refresh(runCtx) }); err != nil {
		r.running = false
		r.cancel = nil
		r.mu.Unlock()
		cancel()
		return err
	}
	r.cron = scheduler
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.refresh(runCtx)
	}()
	scheduler.Start()

	r.log.WithField("schedule", r.spec).Info("catalog refresher started")
	return nil
}

func (r *Refresher) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	cancel := r.cancel
	scheduler := r.cron
	r.running = false
	r.cancel = nil
	r.cron = nil
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if scheduler != nil {
			<-scheduler.Stop().Done()
		}
		r.wg.Wait()
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	r.log.Info("catalog refresher stopped")
	return nil
}

func (r *Refresher) refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := r.service.Refresh(ctx); err != nil {
		r.log.WithError(err).Warn("catalog refresh failed")
	}
}
