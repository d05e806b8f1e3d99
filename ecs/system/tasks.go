package system

import "github.com/milk9111/lumen/ecs"

// TaskSystem polls the world's tasks once per frame.
type TaskSystem struct{}

func NewTaskSystem() *TaskSystem { return &TaskSystem{} }

func (s *TaskSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	w.Tasks().Poll(w.Clock().FrameDt)
}
