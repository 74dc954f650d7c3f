package common

import (
	"go.uber.org/atomic"
)

const (
	StatusOrigin int32 = iota
	StatusIniting
	StatusInited
	StatusStarting
	StatusStarted
	StatusStopping
	StatusStopped
)

// LifecycleStatus moves a component through init, start and stop. Each
// step succeeds only from the state before it.
type LifecycleStatus struct {
	status atomic.Int32
}

func (self *LifecycleStatus) PreInit() bool {
	return self.status.CAS(StatusOrigin, StatusIniting)
}
func (self *LifecycleStatus) PostInit() bool {
	return self.status.CAS(StatusIniting, StatusInited)
}
func (self *LifecycleStatus) PreStart() bool {
	return self.status.CAS(StatusInited, StatusStarting)
}
func (self *LifecycleStatus) PostStart() bool {
	return self.status.CAS(StatusStarting, StatusStarted)
}
func (self *LifecycleStatus) PreStop() bool {
	return self.status.CAS(StatusStarted, StatusStopping)
}
func (self *LifecycleStatus) PostStop() bool {
	return self.status.CAS(StatusStopping, StatusStopped)
}

func (self *LifecycleStatus) Stopped() bool {
	s := self.status.Load()
	return s == StatusStopped || s == StatusStopping
}
func (self *LifecycleStatus) GetStatus() int32 {
	return self.status.Load()
}
