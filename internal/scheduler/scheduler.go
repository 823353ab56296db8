package scheduler

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Reason tells the consumer why a trigger fired
type Reason string

const (
	ReasonFirstLaunch Reason = "first-launch"
	ReasonPeriodic    Reason = "periodic"
)

// Trigger is a request to run an update check
type Trigger struct {
	Reason Reason
	At     time.Time
}

// Scheduler drives periodic re-checks. Triggers are delivered on C; when the
// consumer is busy pending triggers coalesce into one.
type Scheduler struct {
	out chan Trigger
	log *zerolog.Logger

	mu       sync.Mutex
	gen      uint64
	stop     chan struct{}
	enabled  bool
	interval time.Duration
	timers   []*time.Timer
}

// New creates an idle scheduler
func New(log *zerolog.Logger) *Scheduler {
	return &Scheduler{
		out: make(chan Trigger, 1),
		log: log,
	}
}

// C returns the trigger channel
func (s *Scheduler) C() <-chan Trigger {
	return s.out
}

// Once fires a single trigger after delay, independent of the recurring timer
func (s *Scheduler) Once(delay time.Duration, reason Reason) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := time.AfterFunc(delay, func() {
		s.emit(Trigger{Reason: reason, At: time.Now()})
	})
	s.timers = append(s.timers, t)
}

// Apply stops the recurring timer and, when enabled, restarts it so the next
// firing is interval from now. Timers are never stacked.
func (s *Scheduler) Apply(enabled bool, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.dropPendingPeriodic()

	s.enabled = enabled && interval > 0
	s.interval = interval
	if !s.enabled {
		s.log.Debug().Msg("periodic checks disabled")
		return
	}

	s.gen++
	s.stop = make(chan struct{})
	go s.loop(s.gen, interval, s.stop)

	s.log.Debug().Dur("interval", interval).Msg("periodic checks scheduled")
}

// Running reports whether a recurring timer is active and its period
func (s *Scheduler) Running() (bool, time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled, s.interval
}

// Stop cancels every pending timer
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.enabled = false
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
}

func (s *Scheduler) stopLocked() {
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
	// invalidates ticks that raced with the stop
	s.gen++
}

func (s *Scheduler) loop(gen uint64, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case at := <-ticker.C:
			// a tick is only delivered while its generation is current
			s.mu.Lock()
			current := s.gen == gen
			if current {
				s.emit(Trigger{Reason: ReasonPeriodic, At: at})
			}
			s.mu.Unlock()
			if !current {
				return
			}
		}
	}
}

func (s *Scheduler) emit(t Trigger) {
	select {
	case s.out <- t:
	default:
		s.log.Debug().Str("reason", string(t.Reason)).Msg("check already pending, trigger coalesced")
	}
}

// dropPendingPeriodic removes an undelivered tick of the previous interval
func (s *Scheduler) dropPendingPeriodic() {
	select {
	case t := <-s.out:
		if t.Reason != ReasonPeriodic {
			s.emit(t)
		}
	default:
	}
}
