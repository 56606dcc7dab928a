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

import "github.com/looplab/fsm"

// Status is the lifecycle status of a transition instance. Exactly one
// status is current at any time.
type Status string

const (
	// StatusUnmounted indicates the element is not rendered at all. It is
	// reachable only under an unmount-on-hide or mount-on-first-show
	// policy and renders nothing, but the instance itself stays alive: a
	// later "shown" update revives it to exited.
	StatusUnmounted Status = "unmounted"
	// StatusExited indicates the element is rendered but fully hidden.
	StatusExited Status = "exited"
	// StatusEntering indicates the enter transition is in flight.
	StatusEntering Status = "entering"
	// StatusEntered indicates the enter transition has settled.
	StatusEntered Status = "entered"
	// StatusExiting indicates the exit transition is in flight.
	StatusExiting Status = "exiting"
)

// Event names driving the status graph.
const (
	// eventEnter starts an enter transition.
	eventEnter = "enter"
	// eventEnterDone settles an in-flight enter transition.
	eventEnterDone = "enter_done"
	// eventEnterImmediate settles an enter without an intermediate
	// entering status (enter transitions disabled).
	eventEnterImmediate = "enter_immediate"
	// eventExit starts an exit transition.
	eventExit = "exit"
	// eventExitDone settles an in-flight exit transition.
	eventExitDone = "exit_done"
	// eventExitImmediate settles an exit without an intermediate exiting
	// status (exit transitions disabled).
	eventExitImmediate = "exit_immediate"
	// eventUnmount collapses a hidden element to unmounted. Silent: no
	// user hooks fire for it.
	eventUnmount = "unmount"
)

// Transitions is the full transition table of a transition instance.
// The unmounted -> exited revival is a silent derivation, not an event.
func Transitions() []fsm.EventDesc {
	return []fsm.EventDesc{
		{Name: eventEnter, Src: []string{string(StatusExited), string(StatusExiting)}, Dst: string(StatusEntering)},
		{Name: eventEnterDone, Src: []string{string(StatusEntering)}, Dst: string(StatusEntered)},
		{Name: eventEnterImmediate, Src: []string{string(StatusExited), string(StatusExiting)}, Dst: string(StatusEntered)},
		{Name: eventExit, Src: []string{string(StatusEntering), string(StatusEntered)}, Dst: string(StatusExiting)},
		{Name: eventExitDone, Src: []string{string(StatusExiting)}, Dst: string(StatusExited)},
		{Name: eventExitImmediate, Src: []string{string(StatusEntering), string(StatusEntered)}, Dst: string(StatusExited)},
		{Name: eventUnmount, Src: []string{string(StatusExited)}, Dst: string(StatusUnmounted)},
	}
}

// IsValid reports whether s is one of the five lifecycle statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusUnmounted, StatusExited, StatusEntering, StatusEntered, StatusExiting:
		return true
	default:
		return false
	}
}

// Encoded returns the numeric encoding used for the status gauge.
func (s Status) Encoded() float64 {
	switch s {
	case StatusUnmounted:
		return 0
	case StatusExited:
		return 1
	case StatusEntering:
		return 2
	case StatusEntered:
		return 3
	case StatusExiting:
		return 4
	default:
		return -1
	}
}

func (s Status) String() string {
	return string(s)
}
