// Package cron は定期取り込みジョブのスケジューラを提供します。
package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/robfig/cron/v3"
)

// Config はスケジュール設定です。Spec は5フィールドの標準cron式です。
type Config struct {
	Spec     string `env:"IMPORT_CRON" envDefault:"0 6 * * *"`
	Timezone string `env:"IMPORT_TIMEZONE" envDefault:"UTC"`
}

// LoadConfig は環境変数からスケジュール設定を読み込みます。
func LoadConfig() (Config, error) {
	return env.ParseAs[Config]()
}

// Location は Timezone を解決します。
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Runner は robfig/cron をラップし、ジョブに共通のcontextを渡します。
// 前回の実行が終わっていないジョブはスキップされます。
type Runner struct {
	cron    *cron.Cron
	logger  *slog.Logger
	baseCtx context.Context
}

// New は loc のタイムゾーンで動く Runner を作成します。
func New(logger *slog.Logger, baseCtx context.Context, loc *time.Location) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	if loc == nil {
		loc = time.UTC
	}
	cl := cronLogger{logger: logger}
	return &Runner{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger:  logger,
		baseCtx: baseCtx,
	}
}

// Add は spec でジョブを登録します。ジョブのエラーはログに出力されます。
func (r *Runner) Add(spec, name string, job func(context.Context) error) (cron.EntryID, error) {
	return r.cron.AddFunc(spec, func() {
		if r.baseCtx.Err() != nil {
			return
		}
		start := time.Now()
		r.logger.Info("job started", "job", name)
		if err := job(r.baseCtx); err != nil {
			r.logger.Error("job failed", "job", name, "error", err, "elapsed", time.Since(start))
			return
		}
		r.logger.Info("job finished", "job", name, "elapsed", time.Since(start))
	})
}

// Next は登録済みジョブの次回実行時刻を返します。
func (r *Runner) Next(id cron.EntryID) time.Time {
	return r.cron.Entry(id).Next
}

func (r *Runner) Start() {
	r.logger.Info("cron started")
	r.cron.Start()
}

// Stop は新しい実行を止め、実行中のジョブの終了を待ちます。
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("cron stopped")
}

// cronLogger は cron.Logger を slog に橋渡しします。
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
