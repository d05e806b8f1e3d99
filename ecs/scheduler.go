package ecs

import "time"

// maxFrameTime caps a single Advance so a long stall does not queue an
// unbounded number of fixed ticks.
const maxFrameTime = 0.25

// System updates a world.
type System interface {
	Update(w *World)
}

// Clock is the simulation time as seen by systems.
type Clock struct {
	// FixedDt is the duration of one fixed tick in seconds.
	FixedDt float64
	// FrameDt is the duration of the current frame in seconds.
	FrameDt float64
	// SinceTick is the time elapsed since the last fixed tick.
	SinceTick float64
	Ticks     uint64
	Frames    uint64
	Paused    bool
}

// Alpha is SinceTick over FixedDt, clamped to [0, 1]: where the current
// frame sits between the previous and next tick.
func (c *Clock) Alpha() float64 {
	if c == nil || c.FixedDt <= 0 {
		return 1
	}
	a := c.SinceTick / c.FixedDt
	if a < 0 {
		return 0
	}
	if a > 1 {
		return 1
	}
	return a
}

// Scheduler runs fixed systems at a constant tick rate and frame systems
// once per frame, with a fixed-timestep accumulator between them.
type Scheduler struct {
	fixed       []System
	frame       []System
	tickRate    float64
	accumulator float64
	lastTime    time.Time
}

// NewScheduler creates a scheduler ticking tickRate times per second.
func NewScheduler(tickRate float64) *Scheduler {
	if tickRate <= 0 {
		tickRate = 50
	}
	return &Scheduler{tickRate: tickRate}
}

func (s *Scheduler) TickRate() float64 {
	return s.tickRate
}

// AddFixed appends a system to the fixed tick order.
func (s *Scheduler) AddFixed(systems ...System) {
	for _, sys := range systems {
		if sys != nil {
			s.fixed = append(s.fixed, sys)
		}
	}
}

// AddFrame appends a system to the per-frame order.
func (s *Scheduler) AddFrame(systems ...System) {
	for _, sys := range systems {
		if sys != nil {
			s.frame = append(s.frame, sys)
		}
	}
}

// Systems returns fixed systems followed by frame systems.
func (s *Scheduler) Systems() []System {
	out := make([]System, 0, len(s.fixed)+len(s.frame))
	out = append(out, s.fixed...)
	return append(out, s.frame...)
}

// Advance moves the simulation forward by frameTime seconds: it runs as many
// fixed ticks as the accumulator allows, then every frame system once, and
// finally clears the frame event queue. It returns the number of fixed ticks
// run.
func (s *Scheduler) Advance(w *World, frameTime float64) int {
	if w == nil {
		return 0
	}
	if frameTime < 0 {
		frameTime = 0
	}
	if frameTime > maxFrameTime {
		frameTime = maxFrameTime
	}

	clock := w.Clock()
	dt := 1 / s.tickRate
	clock.FixedDt = dt
	clock.FrameDt = frameTime

	ticks := 0
	if !clock.Paused {
		s.accumulator += frameTime
		for s.accumulator >= dt {
			for _, sys := range s.fixed {
				sys.Update(w)
			}
			s.accumulator -= dt
			clock.Ticks++
			ticks++
		}
	}
	clock.SinceTick = s.accumulator

	for _, sys := range s.frame {
		sys.Update(w)
	}
	clock.Frames++
	w.events.flush()
	return ticks
}

// Update advances by the wall time since the previous call. The first call
// only starts the clock.
func (s *Scheduler) Update(w *World) int {
	now := time.Now()
	if s.lastTime.IsZero() {
		s.lastTime = now
		return s.Advance(w, 0)
	}
	frameTime := now.Sub(s.lastTime).Seconds()
	s.lastTime = now
	return s.Advance(w, frameTime)
}

// Resume restarts the wall clock so the time spent outside Update, such as
// a pause, is not replayed as catch-up ticks.
func (s *Scheduler) Resume() {
	s.lastTime = time.Time{}
}
