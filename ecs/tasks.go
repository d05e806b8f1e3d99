package ecs

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/lumen/common"
)

// Task is a unit of multi-frame work polled once per frame.
type Task interface {
	// Step advances the task by dt seconds and reports whether it is done.
	// A task may report done with completed false to abort.
	Step(dt float64) (done, completed bool)
	// Progress is in [0, 1].
	Progress() float64
}

// TaskID identifies a running task. Zero is never issued.
type TaskID uint64

type taskEntry struct {
	id     TaskID
	owner  Entity
	task   Task
	onDone func(completed bool)
}

// TaskRunner owns the running tasks of a World.
type TaskRunner struct {
	next  TaskID
	tasks []taskEntry
}

// Start runs t on behalf of owner. onDone, if set, is called once when the
// task finishes, aborts or is cancelled.
func (r *TaskRunner) Start(owner Entity, t Task, onDone func(completed bool)) TaskID {
	if r == nil || t == nil {
		return 0
	}
	r.next++
	r.tasks = append(r.tasks, taskEntry{id: r.next, owner: owner, task: t, onDone: onDone})
	return r.next
}

// Cancel stops a task and reports whether it was running.
func (r *TaskRunner) Cancel(id TaskID) bool {
	if r == nil {
		return false
	}
	for i, t := range r.tasks {
		if t.id == id {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			if t.onDone != nil {
				t.onDone(false)
			}
			return true
		}
	}
	return false
}

// CancelOwner cancels every task started for owner.
func (r *TaskRunner) CancelOwner(owner Entity) {
	if r == nil {
		return
	}
	var ids []TaskID
	for _, t := range r.tasks {
		if t.owner == owner {
			ids = append(ids, t.id)
		}
	}
	for _, id := range ids {
		r.Cancel(id)
	}
}

// Running reports whether id is still running.
func (r *TaskRunner) Running(id TaskID) bool {
	_, ok := r.find(id)
	return ok
}

// Progress returns the progress of a running task.
func (r *TaskRunner) Progress(id TaskID) (float64, bool) {
	t, ok := r.find(id)
	if !ok {
		return 0, false
	}
	return t.task.Progress(), true
}

func (r *TaskRunner) Len() int {
	if r == nil {
		return 0
	}
	return len(r.tasks)
}

func (r *TaskRunner) find(id TaskID) (taskEntry, bool) {
	if r == nil || id == 0 {
		return taskEntry{}, false
	}
	for _, t := range r.tasks {
		if t.id == id {
			return t, true
		}
	}
	return taskEntry{}, false
}

// Poll steps every task started before this call once. Tasks started by a
// callback first run on the next Poll.
func (r *TaskRunner) Poll(dt float64) {
	if r == nil {
		return
	}
	pending := append([]taskEntry(nil), r.tasks...)
	for _, t := range pending {
		if !r.Running(t.id) {
			continue
		}
		done, completed := t.task.Step(dt)
		if !done {
			continue
		}
		r.remove(t.id)
		if t.onDone != nil {
			t.onDone(completed)
		}
	}
}

func (r *TaskRunner) remove(id TaskID) {
	for i, t := range r.tasks {
		if t.id == id {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return
		}
	}
}

// LerpTask moves a position from From to To over Duration seconds and
// writes every intermediate position through Apply.
type LerpTask struct {
	From, To mgl64.Vec3
	Duration float64
	Apply    func(mgl64.Vec3)
	// Target, when set, is re-read every step so the end point can move.
	Target func() (mgl64.Vec3, bool)

	elapsed float64
}

func (t *LerpTask) Step(dt float64) (bool, bool) {
	if t.Target != nil {
		to, ok := t.Target()
		if !ok {
			return true, false
		}
		t.To = to
	}
	t.elapsed += dt
	if t.Duration <= 0 || t.elapsed >= t.Duration {
		if t.Apply != nil {
			t.Apply(t.To)
		}
		return true, true
	}
	if t.Apply != nil {
		t.Apply(common.LerpVec(t.From, t.To, t.elapsed/t.Duration))
	}
	return false, false
}

func (t *LerpTask) Progress() float64 {
	if t.Duration <= 0 {
		return 1
	}
	return common.Clamp01(t.elapsed / t.Duration)
}

// HoldTask completes once Hold has reported true for Duration seconds in a
// row. It aborts on the first step Hold reports false.
type HoldTask struct {
	Duration float64
	Hold     func() bool

	elapsed float64
}

func (t *HoldTask) Step(dt float64) (bool, bool) {
	if t.Hold != nil && !t.Hold() {
		return true, false
	}
	t.elapsed += dt
	if t.elapsed >= t.Duration {
		return true, true
	}
	return false, false
}

func (t *HoldTask) Progress() float64 {
	if t.Duration <= 0 {
		return 1
	}
	return common.Clamp01(t.elapsed / t.Duration)
}
