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

package fsm

import (
	"context"
	"sync"

	"github.com/looplab/fsm"
	"go.uber.org/zap"
)

// BaseInstance implements the shared state-machine plumbing for all
// transition-style lifecycles. Concrete machines (e.g. the UI Transition)
// embed or wrap this and supply their own transition table and callbacks.
type BaseInstance struct {
	cfg BaseInstanceConfig

	// mu is a mutex for protecting concurrent access to fields
	mu sync.RWMutex

	// fsm is the finite state machine that manages instance state
	fsm *fsm.FSM

	// Registered "enter_state" callbacks, dispatched after the state
	// change has been committed to the FSM.
	callbacks map[string]fsm.Callback

	// logger is the logger for the FSM
	logger *zap.SugaredLogger
}

// BaseInstanceConfig holds parameters for setting up the base FSM.
type BaseInstanceConfig struct {
	ID string

	// InitialState is the state the machine starts in.
	InitialState string

	// Transitions is the full transition table for the machine.
	Transitions []fsm.EventDesc
}

// NewBaseInstance sets up a new FSM with the supplied transition table.
// Callbacks registered via AddCallback under "enter_<state>" fire after the
// corresponding state has been committed, so a concurrent read of the state
// always agrees with what the callback observes.
func NewBaseInstance(cfg BaseInstanceConfig, logger *zap.SugaredLogger) *BaseInstance {
	baseInstance := &BaseInstance{
		cfg:       cfg,
		callbacks: make(map[string]fsm.Callback),
		logger:    logger,
	}

	baseInstance.fsm = fsm.NewFSM(
		cfg.InitialState,
		fsm.Events(cfg.Transitions),
		fsm.Callbacks{
			"enter_state": func(ctx context.Context, e *fsm.Event) {
				// Call registered callback for this state if exists
				if cb, ok := baseInstance.callbacks["enter_"+e.Dst]; ok {
					cb(ctx, e)
				}
			},
		},
	)

	return baseInstance
}

// AddCallback adds a callback for a given event name
func (s *BaseInstance) AddCallback(eventName string, callback fsm.Callback) {
	s.callbacks[eventName] = callback
}

// Current returns the current state of the FSM
func (s *BaseInstance) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fsm.Current()
}

// SetState forces the FSM into the given state without firing any events
// or callbacks. Used for silent derivations (e.g. reviving an unmounted
// instance) and for tests.
func (s *BaseInstance) SetState(state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fsm.SetState(state)
}

// SendEvent sends an event to the FSM and returns whether the event was
// processed. An already cancelled context is rejected up front: a context
// expiring mid-transition leaves the FSM's internal transition state set,
// which would make every later event fail with "previous transition did
// not complete".
func (s *BaseInstance) SendEvent(ctx context.Context, eventName string, args ...interface{}) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	return s.fsm.Event(ctx, eventName, args...)
}

// Can reports whether the event can occur in the current state.
func (s *BaseInstance) Can(eventName string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fsm.Can(eventName)
}

func (s *BaseInstance) GetID() string {
	return s.cfg.ID
}

func (s *BaseInstance) GetLogger() *zap.SugaredLogger {
	return s.logger
}
