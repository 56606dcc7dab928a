// Copyright 2026 Statekit Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package transition

import (
	"github.com/tiendc/go-deepcopy"
)

// ObservedStateSnapshot is a deep-copyable view of a transition instance,
// safe to hand to inspection or diagnostics code without sharing any state
// with the live machine.
type ObservedStateSnapshot struct {
	ID               string
	Status           Status
	PendingAppear    Status
	Shown            bool
	MountOnFirstShow bool
	UnmountOnHide    bool
	Appear           bool
	Enter            bool
	Exit             bool
	Timeouts         Timeouts
	HasPending       bool
	Destroyed        bool
}

// CreateObservedStateSnapshot returns a deep copy of the instance's
// observable state.
func (t *Transition) CreateObservedStateSnapshot() *ObservedStateSnapshot {
	t.mu.Lock()
	src := ObservedStateSnapshot{
		ID:               t.base.GetID(),
		PendingAppear:    t.appearStatus,
		Shown:            t.props.Shown,
		MountOnFirstShow: t.props.MountOnFirstShow,
		UnmountOnHide:    t.props.UnmountOnHide,
		Appear:           t.props.Appear,
		Enter:            t.props.Enter,
		Exit:             t.props.Exit,
		Timeouts:         t.props.Timeouts,
		HasPending:       t.token != nil,
		Destroyed:        t.destroyed,
	}
	t.mu.Unlock()

	src.Status = t.Status()

	snapshot := &ObservedStateSnapshot{}
	if err := deepcopy.Copy(snapshot, &src); err != nil {
		t.base.GetLogger().Errorf("failed to deep copy observed state: %v", err)
		return nil
	}

	return snapshot
}
