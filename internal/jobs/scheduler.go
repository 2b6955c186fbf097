// Package jobs runs the periodic background work on a cron schedule.
package jobs

import (
	"context"
	"fmt"

	"mitr-be/internal/pkg/logger"
	"mitr-be/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// Func is one run of a job. Errors are logged and counted; the schedule
// keeps going.
type Func func(ctx context.Context) error

type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	logger logger.ILogger
}

func NewScheduler(log logger.ILogger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cronLogger{log}),
			cron.SkipIfStillRunning(cronLogger{log}),
		)),
		ctx:    ctx,
		cancel: cancel,
		logger: log,
	}
}

// Add registers fn under name. spec is a standard five-field cron
// expression or a descriptor such as "@every 10m".
func (s *Scheduler) Add(name, spec string, fn Func) error {
	_, err := s.cron.AddFunc(spec, func() { s.run(name, fn) })
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	s.logger.Info("Jobs", "Job scheduled", map[string]interface{}{"job": name, "spec": spec})
	return nil
}

func (s *Scheduler) run(name string, fn Func) {
	err := fn(s.ctx)
	metrics.RecordJobRun(name, err == nil)
	if err != nil {
		s.logger.Error("Jobs", "Job failed", map[string]interface{}{"job": name, "error": err.Error()})
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
}

// cronLogger adapts ILogger to cron.Logger.
type cronLogger struct {
	log logger.ILogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("Jobs", msg, pairs(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := pairs(keysAndValues)
	fields["error"] = err.Error()
	l.log.Error("Jobs", msg, fields)
}

func pairs(kv []interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(kv)/2+1)
	for i := 0; i+1 < len(kv); i += 2 {
		out[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return out
}
