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

// Node is an opaque handle to the host element a transition animates. The
// host framework owns it; the machine only passes it through to hooks and
// end listeners. It may be nil when no concrete node exists (e.g. a
// function-as-child usage).
type Node any

// Host is the boundary to the surrounding UI framework. The machine looks
// the node up on demand and never caches it.
type Host interface {
	// Node returns the current host node handle, or nil if absent.
	Node() Node
}

// Group is the read-only query a transition sends to an enclosing grouping
// coordinator. It is only consulted to compute appear semantics; the
// machine never owns or mutates the group.
type Group interface {
	// IsMounting reports whether the group is performing its own initial
	// mount.
	IsMounting() bool
}

// EnterHook is invoked on the enter side of the lifecycle. isAppearing is
// true when the enter plays as a first-mount "appear" transition.
type EnterHook func(node Node, isAppearing bool)

// ExitHook is invoked on the exit side of the lifecycle.
type ExitHook func(node Node)

// EndListener lets the host signal transition completion itself (e.g. on a
// transitionend event) instead of, or in addition to, the timeout. done
// must be called exactly once; extra calls are no-ops.
type EndListener func(node Node, done func())

// Props is the externally controlled configuration of a transition
// instance. The instance treats it as a view over host-supplied properties
// and re-reads it on every update.
type Props struct {
	// Shown drives the machine: true requests enter, false requests exit.
	Shown bool

	// MountOnFirstShow keeps the element unmounted until it is first
	// shown.
	MountOnFirstShow bool

	// UnmountOnHide collapses the element to unmounted once an exit has
	// settled.
	UnmountOnHide bool

	// Appear plays the enter transition on the very first mount instead
	// of skipping it.
	Appear bool

	// Enter enables enter transitions. When false, shows jump straight
	// to entered.
	Enter bool

	// Exit enables exit transitions. When false, hides jump straight to
	// exited.
	Exit bool

	// Timeouts supplies the per-phase durations. Required unless an
	// AddEndListener is set.
	Timeouts Timeouts

	// AddEndListener, if set, is handed the in-flight phase's completion
	// token as its done callback.
	AddEndListener EndListener

	OnEnter    EnterHook
	OnEntering EnterHook
	OnEntered  EnterHook

	OnExit    ExitHook
	OnExiting ExitHook
	OnExited  ExitHook
}

// DefaultProps returns the zero configuration with enter and exit
// transitions enabled, matching the defaults of the host-facing surface.
func DefaultProps() Props {
	return Props{
		Enter: true,
		Exit:  true,
	}
}

// normalized returns a copy of p with all absent hooks replaced by no-ops
// so callers never need nil checks.
func (p Props) normalized() Props {
	noopEnter := func(Node, bool) {}
	noopExit := func(Node) {}

	if p.OnEnter == nil {
		p.OnEnter = noopEnter
	}
	if p.OnEntering == nil {
		p.OnEntering = noopEnter
	}
	if p.OnEntered == nil {
		p.OnEntered = noopEnter
	}
	if p.OnExit == nil {
		p.OnExit = noopExit
	}
	if p.OnExiting == nil {
		p.OnExiting = noopExit
	}
	if p.OnExited == nil {
		p.OnExited = noopExit
	}

	return p
}
