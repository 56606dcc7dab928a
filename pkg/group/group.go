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

// Package group coordinates appear semantics across sibling transitions.
// During the group's own initial mount, children play their configured
// appear transition; children inserted later treat their first enter as an
// ordinary enter.
package group

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/statekit/transition/pkg/logger"
	"github.com/statekit/transition/pkg/metrics"
	"github.com/statekit/transition/pkg/transition"
)

// Config holds the construction parameters of a TransitionGroup.
type Config struct {
	// ID names the group in logs. A random one is generated when empty.
	ID string

	// Appear, Enter, and Exit override the corresponding flag on every
	// inserted child when set.
	Appear *bool
	Enter  *bool
	Exit   *bool
}

type child struct {
	tr      *transition.Transition
	mounted bool
}

// TransitionGroup manages a keyed set of sibling transitions and answers
// their "is this the group's initial mount" query. It owns its children;
// the children only hold a read-only reference back.
type TransitionGroup struct {
	id     string
	cfg    Config
	logger *zap.SugaredLogger

	mu       sync.RWMutex
	mounted  bool
	children map[string]*child
}

// New creates an empty group. The group counts as performing its initial
// mount until OnMount is called.
func New(cfg Config) *TransitionGroup {
	id := cfg.ID
	if id == "" {
		id = uuid.NewString()
	}

	metrics.SetGroupChildren(id, 0)

	return &TransitionGroup{
		id:       id,
		cfg:      cfg,
		logger:   logger.For(logger.ComponentGroup).Named(id),
		children: make(map[string]*child),
	}
}

// IsMounting implements transition.Group. It reports true until the
// group's first commit.
func (g *TransitionGroup) IsMounting() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return !g.mounted
}

// ID returns the group identifier.
func (g *TransitionGroup) ID() string {
	return g.id
}

// Insert creates a transition for the given key, wired to this group, and
// registers it. An empty key gets a generated one. Children inserted
// before OnMount are mounted by it; children inserted afterwards mount
// immediately, so their first enter plays as an ordinary enter. The chosen
// key is returned.
func (g *TransitionGroup) Insert(ctx context.Context, key string, cfg transition.Config) (string, *transition.Transition) {
	if key == "" {
		key = uuid.NewString()
	}

	cfg.Group = g
	cfg.Props = g.applyOverrides(cfg.Props)
	cfg.Props = g.relayExited(key, cfg.Props)

	tr := transition.New(cfg)

	g.mu.Lock()
	if old, ok := g.children[key]; ok {
		// Replacing a child supersedes it entirely.
		old.tr.OnUnmount()
	}
	mountNow := g.mounted
	g.children[key] = &child{tr: tr, mounted: mountNow}
	metrics.SetGroupChildren(g.id, len(g.children))
	g.mu.Unlock()

	g.logger.Debugf("Inserted child %s", key)

	if mountNow {
		tr.OnMount(ctx)
	}

	return key, tr
}

// OnMount is invoked once after the group's first commit. It mounts all
// children inserted so far while the group still reports IsMounting, then
// flips the flag so later inserts and queries see an established group.
func (g *TransitionGroup) OnMount(ctx context.Context) {
	g.mu.Lock()
	if g.mounted {
		g.mu.Unlock()
		return
	}
	pending := make([]*child, 0, len(g.children))
	for _, c := range g.children {
		if !c.mounted {
			c.mounted = true
			pending = append(pending, c)
		}
	}
	g.mu.Unlock()

	for _, c := range pending {
		c.tr.OnMount(ctx)
	}

	g.mu.Lock()
	g.mounted = true
	g.mu.Unlock()
}

// Remove unmounts and drops the child for the given key.
func (g *TransitionGroup) Remove(key string) {
	g.mu.Lock()
	c, ok := g.children[key]
	delete(g.children, key)
	metrics.SetGroupChildren(g.id, len(g.children))
	g.mu.Unlock()

	if ok {
		c.tr.OnUnmount()
		g.logger.Debugf("Removed child %s", key)
	}
}

// Child returns the transition registered under key, or nil.
func (g *TransitionGroup) Child(key string) *transition.Transition {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if c, ok := g.children[key]; ok {
		return c.tr
	}
	return nil
}

// SetShown toggles the shown flag of the child registered under key.
func (g *TransitionGroup) SetShown(ctx context.Context, key string, shown bool) {
	if tr := g.Child(key); tr != nil {
		tr.SetShown(ctx, shown)
	}
}

// Statuses returns the current status of every child, keyed like the
// registry. Unmounted children are included; the render layer decides to
// draw nothing for them.
func (g *TransitionGroup) Statuses() map[string]transition.Status {
	g.mu.RLock()
	defer g.mu.RUnlock()

	statuses := make(map[string]transition.Status, len(g.children))
	for key, c := range g.children {
		statuses[key] = c.tr.Status()
	}
	return statuses
}

// Len returns the number of registered children.
func (g *TransitionGroup) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.children)
}

// applyOverrides applies the group-level appear/enter/exit overrides to a
// child's props.
func (g *TransitionGroup) applyOverrides(props transition.Props) transition.Props {
	if g.cfg.Appear != nil {
		props.Appear = *g.cfg.Appear
	}
	if g.cfg.Enter != nil {
		props.Enter = *g.cfg.Enter
	}
	if g.cfg.Exit != nil {
		props.Exit = *g.cfg.Exit
	}
	return props
}

// relayExited chains a registry cleanup step behind the child's own
// settled-exit hook: a child that unmounts on hide leaves the group once
// its exit settles.
func (g *TransitionGroup) relayExited(key string, props transition.Props) transition.Props {
	userExited := props.OnExited
	unmountOnHide := props.UnmountOnHide

	props.OnExited = func(node transition.Node) {
		if userExited != nil {
			userExited(node)
		}
		if unmountOnHide {
			g.mu.Lock()
			delete(g.children, key)
			metrics.SetGroupChildren(g.id, len(g.children))
			g.mu.Unlock()
			g.logger.Debugf("Child %s exited, dropped from registry", key)
		}
	}

	return props
}
