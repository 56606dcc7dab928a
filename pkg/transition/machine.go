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
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"

	internal_fsm "github.com/statekit/transition/internal/fsm"
	"github.com/statekit/transition/pkg/logger"
	"github.com/statekit/transition/pkg/metrics"
)

// Config holds the construction parameters of a Transition.
type Config struct {
	// ID names the instance in logs and metrics. A random one is
	// generated when empty.
	ID string

	// Props is the initial configuration.
	Props Props

	// Host looks up the node handle on demand. Optional.
	Host Host

	// Group is the enclosing grouping coordinator, if any. The instance
	// only queries it and never owns it.
	Group Group
}

// Transition tracks the lifecycle of a UI element across enter and exit
// transitions, exposing one of five discrete statuses so a host layer can
// apply time-based visual effects during mounting, unmounting, or
// visibility toggles.
//
// The host drives it through four lifecycle calls: New at construction,
// OnMount once after the first commit, OnPropertiesChanged once per
// observable configuration change, and OnUnmount once, terminally.
type Transition struct {
	base  *internal_fsm.BaseInstance
	host  Host
	group Group

	// mu protects props, appearStatus, token, and destroyed. Timers and
	// end listeners resolve on their own goroutines, so the cooperative
	// single-thread model of the host is re-established with a lock.
	mu           sync.Mutex
	props        Props
	appearStatus Status
	token        *completionToken
	destroyed    bool
}

// New computes the initial status from the props and the parent group and
// sets up the status graph. When the instance is constructed already shown
// under an appear policy, a pending entering status is stored and consumed
// by OnMount.
func New(cfg Config) *Transition {
	id := cfg.ID
	if id == "" {
		id = uuid.NewString()
	}

	props := cfg.Props.normalized()

	var initialStatus, appearStatus Status
	if props.Shown {
		// Inside a group that is past its own initial mount, a freshly
		// inserted child's first enter is really an enter, so the enter
		// flag decides whether it animates.
		var appear bool
		if cfg.Group != nil && !cfg.Group.IsMounting() {
			appear = props.Enter
		} else {
			appear = props.Appear
		}
		if appear {
			initialStatus = StatusExited
			appearStatus = StatusEntering
		} else {
			initialStatus = StatusEntered
		}
	} else {
		if props.UnmountOnHide || props.MountOnFirstShow {
			initialStatus = StatusUnmounted
		} else {
			initialStatus = StatusExited
		}
	}

	t := &Transition{
		host:         cfg.Host,
		group:        cfg.Group,
		props:        props,
		appearStatus: appearStatus,
	}

	t.base = internal_fsm.NewBaseInstance(internal_fsm.BaseInstanceConfig{
		ID:           id,
		InitialState: string(initialStatus),
		Transitions:  Transitions(),
	}, logger.For(logger.ComponentTransition).Named(id))

	metrics.InitInstanceMetrics(metrics.ComponentTransitionInstance, id)
	t.registerCallbacks()

	return t
}

// registerCallbacks wires the user hooks to the post-commit side of each
// status change. A hook therefore always observes a status that a
// concurrent read would agree with.
func (t *Transition) registerCallbacks() {
	t.base.AddCallback("enter_"+string(StatusEntering), func(ctx context.Context, e *fsm.Event) {
		t.recordStatus(StatusEntering)
		node, appearing := enterArgs(e)
		t.currentProps().OnEntering(node, appearing)
	})

	t.base.AddCallback("enter_"+string(StatusEntered), func(ctx context.Context, e *fsm.Event) {
		t.recordStatus(StatusEntered)
		node, appearing := enterArgs(e)
		t.currentProps().OnEntered(node, appearing)
	})

	t.base.AddCallback("enter_"+string(StatusExiting), func(ctx context.Context, e *fsm.Event) {
		t.recordStatus(StatusExiting)
		t.currentProps().OnExiting(exitArgs(e))
	})

	t.base.AddCallback("enter_"+string(StatusExited), func(ctx context.Context, e *fsm.Event) {
		t.recordStatus(StatusExited)
		t.currentProps().OnExited(exitArgs(e))
	})

	t.base.AddCallback("enter_"+string(StatusUnmounted), func(ctx context.Context, e *fsm.Event) {
		t.recordStatus(StatusUnmounted)
		t.base.GetLogger().Debugf("Collapsed %s to unmounted", t.base.GetID())
	})
}

// OnMount is invoked by the host exactly once after the first render
// commit. It consumes the pending appear status, if any.
func (t *Transition) OnMount(ctx context.Context) {
	t.mu.Lock()
	if t.destroyed {
		t.mu.Unlock()
		return
	}
	next := t.appearStatus
	t.appearStatus = ""
	t.mu.Unlock()

	t.updateStatus(ctx, true, next)
}

// OnPropertiesChanged is invoked by the host once per property update
// where the configuration observably changed. It stores the new props,
// derives the requested status change, and dispatches it.
func (t *Transition) OnPropertiesChanged(ctx context.Context, next Props) {
	next = next.normalized()

	t.mu.Lock()
	if t.destroyed {
		t.mu.Unlock()
		return
	}
	t.props = next
	t.mu.Unlock()

	// A shown update while unmounted revives the instance to exited
	// before the comparison below runs, so it sees a consistent
	// exited -> entering request. Pure: no callbacks fire.
	if next.Shown && t.Status() == StatusUnmounted {
		t.base.SetState(string(StatusExited))
	}

	var nextStatus Status
	current := t.Status()
	if next.Shown {
		if current != StatusEntering && current != StatusEntered {
			nextStatus = StatusEntering
		}
	} else {
		if current == StatusEntering || current == StatusEntered {
			nextStatus = StatusExiting
		}
	}

	t.updateStatus(ctx, false, nextStatus)
}

// OnUnmount is the hard cancellation boundary: it cancels any outstanding
// completion and permanently silences the instance. No hook may fire after
// it returns, even if an external timer or listener later resolves.
func (t *Transition) OnUnmount() {
	t.mu.Lock()
	if t.destroyed {
		t.mu.Unlock()
		return
	}
	t.destroyed = true
	token := t.token
	t.token = nil
	t.mu.Unlock()

	if token != nil && token.cancel() {
		metrics.IncCancelledCompletion(metrics.ComponentTransitionInstance, t.base.GetID())
	}

	t.base.GetLogger().Debugf("Unmounted %s, cancelled pending completion", t.base.GetID())
}

// SetShown re-submits the current props with the shown flag set to the
// given value, as a host adapter would on a visibility toggle.
func (t *Transition) SetShown(ctx context.Context, shown bool) {
	props := t.currentProps()
	props.Shown = shown
	t.OnPropertiesChanged(ctx, props)
}

// Status returns the current lifecycle status.
func (t *Transition) Status() Status {
	return Status(t.base.Current())
}

// ShouldRender reports whether the host should render the child at all.
// Unmounted renders nothing.
func (t *Transition) ShouldRender() bool {
	return t.Status() != StatusUnmounted
}

// ID returns the instance identifier.
func (t *Transition) ID() string {
	return t.base.GetID()
}

// updateStatus dispatches a requested status change. A non-empty next
// status cancels any pending completion first, so at most one pending
// completion exists at any instant. An empty next status while hidden and
// settled collapses to unmounted when the unmount-on-hide policy is set;
// no user hooks fire for that silent transition.
func (t *Transition) updateStatus(ctx context.Context, mounting bool, next Status) {
	if next != "" {
		t.cancelPending()

		if next == StatusEntering {
			t.performEnter(ctx, t.node(), mounting)
		} else {
			t.performExit(ctx, t.node())
		}
		return
	}

	t.mu.Lock()
	unmountOnHide := t.props.UnmountOnHide
	t.mu.Unlock()

	if unmountOnHide && t.Status() == StatusExited {
		if err := t.base.SendEvent(ctx, eventUnmount); err != nil {
			t.base.GetLogger().Debugf("Unmount collapse skipped: %v", err)
		}
	}
}

// performEnter runs the ordered enter sequence: the pre-hook fires before
// the entering status commits, the during-hook after it, and the settled
// hook after the completion resolves.
func (t *Transition) performEnter(ctx context.Context, node Node, mounting bool) {
	props := t.currentProps()

	appearing := mounting
	if t.group != nil {
		appearing = t.group.IsMounting()
	}

	if !mounting && !props.Enter {
		if err := t.base.SendEvent(ctx, eventEnterImmediate, node, appearing); err != nil {
			t.base.GetLogger().Debugf("Immediate enter skipped: %v", err)
		}
		return
	}

	props.OnEnter(node, appearing)

	if err := t.base.SendEvent(ctx, eventEnter, node, appearing); err != nil {
		t.base.GetLogger().Debugf("Enter skipped: %v", err)
		return
	}

	phase := PhaseEnter
	if appearing {
		phase = PhaseAppear
	}

	t.armCompletion(node, props.Timeouts.Resolve(phase), props.AddEndListener, func() {
		if t.isDestroyed() {
			return
		}
		if err := t.base.SendEvent(context.Background(), eventEnterDone, node, appearing); err != nil {
			t.base.GetLogger().Debugf("Enter completion skipped: %v", err)
		}
	})
}

// performExit mirrors performEnter for the exit side. Once the exit has
// settled, the unmount-on-hide policy may collapse the instance further to
// unmounted.
func (t *Transition) performExit(ctx context.Context, node Node) {
	props := t.currentProps()

	if !props.Exit {
		if err := t.base.SendEvent(ctx, eventExitImmediate, node); err != nil {
			t.base.GetLogger().Debugf("Immediate exit skipped: %v", err)
			return
		}
		t.maybeUnmountAfterExit(ctx)
		return
	}

	props.OnExit(node)

	if err := t.base.SendEvent(ctx, eventExit, node); err != nil {
		t.base.GetLogger().Debugf("Exit skipped: %v", err)
		return
	}

	t.armCompletion(node, props.Timeouts.Resolve(PhaseExit), props.AddEndListener, func() {
		if t.isDestroyed() {
			return
		}
		if err := t.base.SendEvent(context.Background(), eventExitDone, node); err != nil {
			t.base.GetLogger().Debugf("Exit completion skipped: %v", err)
			return
		}
		t.maybeUnmountAfterExit(context.Background())
	})
}

// armCompletion arms a fresh completion token for the in-flight phase and
// connects it to the end listener and the phase timeout. Both may race;
// only the first to fire has effect. With no node to observe, or neither a
// timeout nor a listener configured, the token fires on the next
// scheduling tick so an enabled transition still settles eventually.
func (t *Transition) armCompletion(node Node, timeout *time.Duration, listener EndListener, complete func()) {
	token := newCompletionToken(complete)

	t.mu.Lock()
	if t.destroyed {
		t.mu.Unlock()
		return
	}
	previous := t.token
	t.token = token
	t.mu.Unlock()

	if previous != nil && previous.cancel() {
		metrics.IncCancelledCompletion(metrics.ComponentTransitionInstance, t.base.GetID())
	}

	if node == nil || (timeout == nil && listener == nil) {
		token.scheduleAfter(0)
		return
	}

	if listener != nil {
		listener(node, token.fire)
	}
	if timeout != nil {
		token.scheduleAfter(*timeout)
	}
}

// cancelPending cancels the outstanding completion token, if any, so a
// stale completion from a superseded phase can never fire.
func (t *Transition) cancelPending() {
	t.mu.Lock()
	token := t.token
	t.token = nil
	t.mu.Unlock()

	if token != nil && token.cancel() {
		metrics.IncCancelledCompletion(metrics.ComponentTransitionInstance, t.base.GetID())
	}
}

// maybeUnmountAfterExit collapses a settled, hidden instance to unmounted
// when the unmount-on-hide policy is set.
func (t *Transition) maybeUnmountAfterExit(ctx context.Context) {
	t.mu.Lock()
	unmountOnHide := t.props.UnmountOnHide
	destroyed := t.destroyed
	t.mu.Unlock()

	if destroyed || !unmountOnHide || t.Status() != StatusExited {
		return
	}

	if err := t.base.SendEvent(ctx, eventUnmount); err != nil {
		t.base.GetLogger().Debugf("Unmount collapse skipped: %v", err)
	}
}

func (t *Transition) currentProps() Props {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.props
}

func (t *Transition) isDestroyed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.destroyed
}

func (t *Transition) node() Node {
	if t.host == nil {
		return nil
	}
	return t.host.Node()
}

func (t *Transition) recordStatus(status Status) {
	metrics.ObserveStatusChange(
		metrics.ComponentTransitionInstance,
		t.base.GetID(),
		string(status),
		status.Encoded(),
	)
}

// enterArgs extracts the node handle and the appearing flag from an
// enter-side event.
func enterArgs(e *fsm.Event) (Node, bool) {
	var node Node
	appearing := false
	if len(e.Args) > 0 {
		node = e.Args[0]
	}
	if len(e.Args) > 1 {
		if b, ok := e.Args[1].(bool); ok {
			appearing = b
		}
	}
	return node, appearing
}

// exitArgs extracts the node handle from an exit-side event.
func exitArgs(e *fsm.Event) Node {
	if len(e.Args) > 0 {
		return e.Args[0]
	}
	return nil
}
