package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"crmneon/internal/config"

	"github.com/go-co-op/gocron/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const sweepTimeout = time.Minute

// overdueInvoicesSQL moves sent invoices past their due date to overdue
const overdueInvoicesSQL = `UPDATE invoices SET status = 'overdue', updated_at = NOW()
WHERE status = 'sent' AND due_date IS NOT NULL AND due_date < NOW()`

// Executor is satisfied by *pgxpool.Pool and pgxmock pools
type Executor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// StatsSource is satisfied by *pgxpool.Pool
type StatsSource interface {
	Stat() *pgxpool.Stat
}

// JobScheduler runs the periodic maintenance jobs on the migration pool
type JobScheduler struct {
	scheduler gocron.Scheduler
	db        Executor
	pools     map[string]StatsSource
	cfg       config.JobsConfig
	log       *zap.Logger

	invoicesMarked prometheus.Counter
	poolConns      *prometheus.GaugeVec

	jobJobs map[string]gocron.Job
	mu      sync.RWMutex
}

// NewJobScheduler creates a new job scheduler and registers every job
func NewJobScheduler(cfg config.JobsConfig, db Executor, pools map[string]StatsSource, reg prometheus.Registerer, log *zap.Logger) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		db:        db,
		pools:     pools,
		cfg:       cfg,
		log:       log,
		invoicesMarked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crm_invoices_marked_overdue_total",
			Help: "Invoices moved from sent to overdue by the sweep job",
		}),
		poolConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "crm_db_pool_connections",
			Help: "Database pool connections by pool and state",
		}, []string{"pool", "state"}),
		jobJobs: make(map[string]gocron.Job),
	}
	reg.MustRegister(js.invoicesMarked, js.poolConns)

	if err := js.registerJobs(); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.log.Info("starting background job scheduler", zap.Int("jobs", js.JobCount()))
	js.scheduler.Start()
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	js.log.Info("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// JobCount is the number of registered jobs
func (js *JobScheduler) JobCount() int {
	js.mu.RLock()
	defer js.mu.RUnlock()
	return len(js.jobJobs)
}

func (js *JobScheduler) registerJobs() error {
	js.mu.Lock()
	defer js.mu.Unlock()

	sweepJob, err := js.scheduler.NewJob(
		gocron.DurationJob(js.cfg.OverdueSweepInterval),
		gocron.NewTask(js.runOverdueSweep),
		gocron.WithName("overdue-invoice-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create overdue sweep job: %w", err)
	}
	js.jobJobs["overdue-invoice-sweep"] = sweepJob

	statsJob, err := js.scheduler.NewJob(
		gocron.DurationJob(js.cfg.PoolStatsInterval),
		gocron.NewTask(js.RecordPoolStats),
		gocron.WithName("pool-stats"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create pool stats job: %w", err)
	}
	js.jobJobs["pool-stats"] = statsJob

	return nil
}

func (js *JobScheduler) runOverdueSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	if _, err := js.SweepOverdueInvoices(ctx); err != nil {
		js.log.Error("overdue invoice sweep failed", zap.Error(err))
	}
}

// SweepOverdueInvoices marks every sent invoice whose due date has passed as
// overdue, across all tenants
func (js *JobScheduler) SweepOverdueInvoices(ctx context.Context) (int64, error) {
	tag, err := js.db.Exec(ctx, overdueInvoicesSQL)
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue invoices: %w", err)
	}

	marked := tag.RowsAffected()
	js.invoicesMarked.Add(float64(marked))
	if marked > 0 {
		js.log.Info("invoices marked overdue", zap.Int64("count", marked))
	}
	return marked, nil
}

// RecordPoolStats publishes connection counts of every pool
func (js *JobScheduler) RecordPoolStats() {
	for name, pool := range js.pools {
		stat := pool.Stat()
		js.poolConns.WithLabelValues(name, "total").Set(float64(stat.TotalConns()))
		js.poolConns.WithLabelValues(name, "acquired").Set(float64(stat.AcquiredConns()))
		js.poolConns.WithLabelValues(name, "idle").Set(float64(stat.IdleConns()))
		js.poolConns.WithLabelValues(name, "max").Set(float64(stat.MaxConns()))

		js.log.Debug("database pool stats",
			zap.String("pool", name),
			zap.Int32("total", stat.TotalConns()),
			zap.Int32("acquired", stat.AcquiredConns()),
			zap.Int32("idle", stat.IdleConns()),
		)
	}
}
