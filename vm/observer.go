package vm

import "github.com/maxlang/maxlang/op"

// StepEvent describes one instruction about to execute.
type StepEvent struct {
	IP          int
	Instruction op.Instruction
	FrameDepth  int
}

// Observer receives a StepEvent for every instruction the machine executes.
// Implementations must be fast; they run inline with the dispatch loop.
type Observer interface {
	OnStep(StepEvent)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(StepEvent)

func (f ObserverFunc) OnStep(e StepEvent) {
	f(e)
}
