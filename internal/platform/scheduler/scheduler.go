// Package scheduler corre tareas periódicas (recordatorios, cierre de cuarentenas).
// Cada job corre de a una ejecución por vez; si hay Locker, de a una por cluster.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"vetcare-api/internal/platform/logger"
)

// Trigger calcula el próximo disparo estrictamente posterior a after.
type Trigger interface {
	Next(after time.Time) time.Time
}

type dailyTrigger struct {
	hour, minute int
	loc          *time.Location
}

// Daily dispara todos los días a hour:minute en loc.
func Daily(hour, minute int, loc *time.Location) Trigger {
	if loc == nil {
		loc = time.UTC
	}
	return dailyTrigger{hour: hour, minute: minute, loc: loc}
}

func (d dailyTrigger) Next(after time.Time) time.Time {
	t := after.In(d.loc)
	next := time.Date(t.Year(), t.Month(), t.Day(), d.hour, d.minute, 0, 0, d.loc)
	if !next.After(t) {
		next = time.Date(t.Year(), t.Month(), t.Day()+1, d.hour, d.minute, 0, 0, d.loc)
	}
	return next
}

type everyTrigger struct{ d time.Duration }

// Every dispara cada d, alineado al múltiplo de d.
func Every(d time.Duration) Trigger {
	if d <= 0 {
		d = time.Minute
	}
	return everyTrigger{d: d}
}

func (e everyTrigger) Next(after time.Time) time.Time {
	return after.Truncate(e.d).Add(e.d)
}

// Locker es un lock distribuido opcional. ok=false significa que otra réplica lo tiene.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}

type Job struct {
	Name    string
	Trigger Trigger
	Run     func(ctx context.Context) error
	// LockTTL es cuánto dura el lock distribuido; 0 usa un minuto.
	LockTTL time.Duration

	running atomic.Bool
}

type Scheduler struct {
	log    logger.Logger
	locker Locker
	now    func() time.Time

	mu   sync.Mutex
	jobs []*Job
	wg   sync.WaitGroup
}

func New(log logger.Logger, locker Locker) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{log: log, locker: locker, now: time.Now}
}

func (s *Scheduler) Add(j *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, j)
}

// Start lanza un loop por job. Termina cuando ctx se cancela; Wait espera las corridas en curso.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	jobs := append([]*Job(nil), s.jobs...)
	s.mu.Unlock()

	for _, j := range jobs {
		s.wg.Add(1)
		go func(j *Job) {
			defer s.wg.Done()
			s.loop(ctx, j)
		}(j)
	}
}

func (s *Scheduler) Wait() { s.wg.Wait() }

func (s *Scheduler) loop(ctx context.Context, j *Job) {
	for {
		next := j.Trigger.Next(s.now())
		s.log.Debug("job scheduled", map[string]any{"job": j.Name, "next": next.Format(time.RFC3339)})

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.fire(ctx, j)
		}()
	}
}

// fire corre el job una vez. Devuelve false si se salteó (corrida previa en curso o lock ajeno).
func (s *Scheduler) fire(ctx context.Context, j *Job) bool {
	if !j.running.CompareAndSwap(false, true) {
		s.log.Warn("job still running, tick skipped", map[string]any{"job": j.Name})
		return false
	}
	defer j.running.Store(false)

	if s.locker != nil {
		ttl := j.LockTTL
		if ttl <= 0 {
			ttl = time.Minute
		}
		release, ok, err := s.locker.TryLock(ctx, "vetcare:job:"+j.Name, ttl)
		if err != nil {
			s.log.Error("job lock failed", map[string]any{"job": j.Name, "error": err.Error()})
			return false
		}
		if !ok {
			s.log.Debug("job locked by another instance", map[string]any{"job": j.Name})
			return false
		}
		defer release()
	}

	start := s.now()
	s.log.Info("job started", map[string]any{"job": j.Name})
	if err := j.Run(ctx); err != nil {
		s.log.Error("job failed", map[string]any{"job": j.Name, "error": err.Error(), "duration": time.Since(start).String()})
		return true
	}
	s.log.Info("job finished", map[string]any{"job": j.Name, "duration": time.Since(start).String()})
	return true
}
