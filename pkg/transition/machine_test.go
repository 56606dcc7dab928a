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
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestTransition(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Transition Suite")
}

// hookLog records hook invocations across goroutines.
type hookLog struct {
	mu        sync.Mutex
	calls     []string
	appearing map[string]bool
}

func newHookLog() *hookLog {
	return &hookLog{appearing: make(map[string]bool)}
}

func (h *hookLog) recordEnter(name string, isAppearing bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, name)
	h.appearing[name] = isAppearing
}

func (h *hookLog) recordExit(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, name)
}

func (h *hookLog) count(name string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, c := range h.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (h *hookLog) sequence() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.calls...)
}

func (h *hookLog) wasAppearing(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.appearing[name]
}

// loggedProps returns props whose six hooks record into h.
func loggedProps(h *hookLog, timeout time.Duration) Props {
	p := DefaultProps()
	p.Timeouts = UniformTimeouts(timeout)
	p.OnEnter = func(node Node, isAppearing bool) { h.recordEnter("onEnter", isAppearing) }
	p.OnEntering = func(node Node, isAppearing bool) { h.recordEnter("onEntering", isAppearing) }
	p.OnEntered = func(node Node, isAppearing bool) { h.recordEnter("onEntered", isAppearing) }
	p.OnExit = func(node Node) { h.recordExit("onExit") }
	p.OnExiting = func(node Node) { h.recordExit("onExiting") }
	p.OnExited = func(node Node) { h.recordExit("onExited") }
	return p
}

type fakeHost struct {
	node Node
}

func (f *fakeHost) Node() Node { return f.node }

type fakeGroup struct {
	mounting bool
}

func (f *fakeGroup) IsMounting() bool { return f.mounting }

var _ = Describe("Transition", func() {
	var (
		ctx   context.Context
		hooks *hookLog
		host  *fakeHost
	)

	BeforeEach(func() {
		ctx = context.Background()
		hooks = newHookLog()
		host = &fakeHost{node: "node-1"}
	})

	Context("when computing the initial status", func() {
		It("starts exited when hidden", func() {
			tr := New(Config{Props: loggedProps(hooks, 20*time.Millisecond), Host: host})
			Expect(tr.Status()).To(Equal(StatusExited))
			Expect(tr.ShouldRender()).To(BeTrue())
		})

		It("starts unmounted when hidden under unmount-on-hide", func() {
			p := loggedProps(hooks, 20*time.Millisecond)
			p.UnmountOnHide = true
			tr := New(Config{Props: p, Host: host})
			Expect(tr.Status()).To(Equal(StatusUnmounted))
			Expect(tr.ShouldRender()).To(BeFalse())
		})

		It("starts unmounted when hidden under mount-on-first-show", func() {
			p := loggedProps(hooks, 20*time.Millisecond)
			p.MountOnFirstShow = true
			tr := New(Config{Props: p, Host: host})
			Expect(tr.Status()).To(Equal(StatusUnmounted))
		})

		It("starts entered when shown without an appear policy, firing no hooks", func() {
			p := loggedProps(hooks, 20*time.Millisecond)
			p.Shown = true
			tr := New(Config{Props: p, Host: host})

			tr.OnMount(ctx)

			Expect(tr.Status()).To(Equal(StatusEntered))
			Expect(hooks.sequence()).To(BeEmpty())
		})
	})

	Context("when appearing on first mount", func() {
		It("plays exited -> entering -> entered with isAppearing=true", func() {
			p := loggedProps(hooks, 20*time.Millisecond)
			p.Shown = true
			p.Appear = true
			tr := New(Config{Props: p, Host: host})

			Expect(tr.Status()).To(Equal(StatusExited))

			tr.OnMount(ctx)
			Expect(tr.Status()).To(Equal(StatusEntering))

			Eventually(tr.Status, "1s", "5ms").Should(Equal(StatusEntered))

			Expect(hooks.sequence()).To(Equal([]string{"onEnter", "onEntering", "onEntered"}))
			Expect(hooks.wasAppearing("onEnter")).To(BeTrue())
			Expect(hooks.wasAppearing("onEntering")).To(BeTrue())
			Expect(hooks.wasAppearing("onEntered")).To(BeTrue())
		})
	})

	Context("when toggling shown", func() {
		It("walks the enter sequence with isAppearing=false", func() {
			tr := New(Config{Props: loggedProps(hooks, 20*time.Millisecond), Host: host})
			tr.OnMount(ctx)

			tr.SetShown(ctx, true)
			Expect(tr.Status()).To(Equal(StatusEntering))

			Eventually(tr.Status, "1s", "5ms").Should(Equal(StatusEntered))
			Expect(hooks.count("onEntered")).To(Equal(1))
			Expect(hooks.wasAppearing("onEntered")).To(BeFalse())
		})

		It("completes a full round trip with each hook firing once per traversal", func() {
			tr := New(Config{Props: loggedProps(hooks, 20*time.Millisecond), Host: host})
			tr.OnMount(ctx)

			tr.SetShown(ctx, true)
			Eventually(tr.Status, "1s", "5ms").Should(Equal(StatusEntered))

			tr.SetShown(ctx, false)
			Expect(tr.Status()).To(Equal(StatusExiting))
			Eventually(tr.Status, "1s", "5ms").Should(Equal(StatusExited))

			tr.SetShown(ctx, true)
			Eventually(tr.Status, "1s", "5ms").Should(Equal(StatusEntered))

			Expect(hooks.sequence()).To(Equal([]string{
				"onEnter", "onEntering", "onEntered",
				"onExit", "onExiting", "onExited",
				"onEnter", "onEntering", "onEntered",
			}))
		})
	})

	Context("when enter transitions are disabled", func() {
		It("jumps straight to entered, invoking only onEntered", func() {
			p := loggedProps(hooks, 20*time.Millisecond)
			p.Enter = false
			tr := New(Config{Props: p, Host: host})
			tr.OnMount(ctx)

			tr.SetShown(ctx, true)

			Expect(tr.Status()).To(Equal(StatusEntered))
			Expect(hooks.sequence()).To(Equal([]string{"onEntered"}))
		})
	})

	Context("when exit transitions are disabled", func() {
		It("jumps straight to exited, invoking only onExited", func() {
			p := loggedProps(hooks, 20*time.Millisecond)
			p.Exit = false
			tr := New(Config{Props: p, Host: host})
			tr.OnMount(ctx)

			tr.SetShown(ctx, true)
			Eventually(tr.Status, "1s", "5ms").Should(Equal(StatusEntered))

			tr.SetShown(ctx, false)

			Expect(tr.Status()).To(Equal(StatusExited))
			Expect(hooks.count("onExit")).To(Equal(0))
			Expect(hooks.count("onExiting")).To(Equal(0))
			Expect(hooks.count("onExited")).To(Equal(1))
		})
	})

	Context("when a transition is superseded mid-flight", func() {
		It("re-requests entering while exiting and never fires the stale onExited", func() {
			p := loggedProps(hooks, 20*time.Millisecond)
			p.Timeouts.Exit = durationPtr(100 * time.Millisecond)
			tr := New(Config{Props: p, Host: host})
			tr.OnMount(ctx)

			tr.SetShown(ctx, true)
			Eventually(tr.Status, "1s", "5ms").Should(Equal(StatusEntering))
			Eventually(tr.Status, "1s", "5ms").Should(Equal(StatusEntered))

			tr.SetShown(ctx, false)
			Expect(tr.Status()).To(Equal(StatusExiting))

			// Supersede the exit before its completion resolves.
			tr.SetShown(ctx, true)
			Expect(tr.Status()).To(Equal(StatusEntering))

			Eventually(tr.Status, "1s", "5ms").Should(Equal(StatusEntered))

			// Past the stale exit timeout now: its completion must stay dead.
			Consistently(func() int { return hooks.count("onExited") }, "150ms", "10ms").Should(BeZero())
			Expect(tr.Status()).To(Equal(StatusEntered))
		})
	})

	Context("when the unmount-on-hide policy is active", func() {
		It("revives from unmounted on show and collapses back after exit settles", func() {
			p := loggedProps(hooks, 20*time.Millisecond)
			p.UnmountOnHide = true
			tr := New(Config{Props: p, Host: host})
			tr.OnMount(ctx)

			Expect(tr.Status()).To(Equal(StatusUnmounted))

			tr.SetShown(ctx, true)
			Expect(tr.Status()).To(Equal(StatusEntering))
			Eventually(tr.Status, "1s", "5ms").Should(Equal(StatusEntered))

			tr.SetShown(ctx, false)
			Eventually(tr.Status, "1s", "5ms").Should(Equal(StatusUnmounted))

			Expect(hooks.count("onExited")).To(Equal(1))
			Expect(tr.ShouldRender()).To(BeFalse())
		})
	})

	Context("when the instance is torn down", func() {
		It("silences a previously armed completion", func() {
			tr := New(Config{Props: loggedProps(hooks, 50*time.Millisecond), Host: host})
			tr.OnMount(ctx)

			tr.SetShown(ctx, true)
			Expect(tr.Status()).To(Equal(StatusEntering))

			tr.OnUnmount()

			Consistently(func() int { return hooks.count("onEntered") }, "120ms", "10ms").Should(BeZero())
		})

		It("treats later lifecycle calls as no-ops", func() {
			tr := New(Config{Props: loggedProps(hooks, 20*time.Millisecond), Host: host})
			tr.OnMount(ctx)
			tr.OnUnmount()

			tr.SetShown(ctx, true)

			Expect(tr.Status()).To(Equal(StatusExited))
			Expect(hooks.sequence()).To(BeEmpty())
		})

		It("is idempotent", func() {
			tr := New(Config{Props: loggedProps(hooks, 20*time.Millisecond), Host: host})
			tr.OnMount(ctx)
			tr.OnUnmount()
			tr.OnUnmount()
		})
	})

	Context("when an end listener drives completion", func() {
		It("settles when the listener's done callback is invoked", func() {
			var done func()
			var doneMu sync.Mutex

			p := loggedProps(hooks, 0)
			p.Timeouts = Timeouts{}
			p.AddEndListener = func(node Node, d func()) {
				doneMu.Lock()
				done = d
				doneMu.Unlock()
			}
			tr := New(Config{Props: p, Host: host})
			tr.OnMount(ctx)

			tr.SetShown(ctx, true)
			Expect(tr.Status()).To(Equal(StatusEntering))

			doneMu.Lock()
			d := done
			doneMu.Unlock()
			Expect(d).ToNot(BeNil())

			d()
			Expect(tr.Status()).To(Equal(StatusEntered))

			// A second invocation of done must be a no-op.
			d()
			Expect(tr.Status()).To(Equal(StatusEntered))
			Expect(hooks.count("onEntered")).To(Equal(1))
		})
	})

	Context("when neither node, timeout, nor listener is available", func() {
		It("still settles via an immediate deferred completion", func() {
			p := loggedProps(hooks, 0)
			p.Timeouts = Timeouts{}
			tr := New(Config{Props: p}) // no host, so no node
			tr.OnMount(ctx)

			tr.SetShown(ctx, true)

			Eventually(tr.Status, "1s", "5ms").Should(Equal(StatusEntered))
		})
	})

	Context("when nested under a parent group", func() {
		It("derives isAppearing from the group's initial-mount flag", func() {
			p := loggedProps(hooks, 20*time.Millisecond)
			tr := New(Config{Props: p, Host: host, Group: &fakeGroup{mounting: true}})
			tr.OnMount(ctx)

			tr.SetShown(ctx, true)
			Eventually(tr.Status, "1s", "5ms").Should(Equal(StatusEntered))

			Expect(hooks.wasAppearing("onEntering")).To(BeTrue())
		})

		It("uses the enter flag as the appear policy once the group is established", func() {
			p := loggedProps(hooks, 20*time.Millisecond)
			p.Shown = true
			p.Appear = false
			tr := New(Config{Props: p, Host: host, Group: &fakeGroup{mounting: false}})

			// Enter enabled: the first mount inside an established group
			// plays as a regular enter.
			Expect(tr.Status()).To(Equal(StatusExited))

			tr.OnMount(ctx)
			Eventually(tr.Status, "1s", "5ms").Should(Equal(StatusEntered))
		})
	})

	Context("when snapshotting observed state", func() {
		It("returns an independent deep copy", func() {
			p := loggedProps(hooks, 20*time.Millisecond)
			p.UnmountOnHide = true
			tr := New(Config{ID: "snap-test", Props: p, Host: host})
			tr.OnMount(ctx)

			snapshot := tr.CreateObservedStateSnapshot()
			Expect(snapshot).ToNot(BeNil())
			Expect(snapshot.ID).To(Equal("snap-test"))
			Expect(snapshot.Status).To(Equal(StatusUnmounted))
			Expect(snapshot.UnmountOnHide).To(BeTrue())
			Expect(snapshot.Destroyed).To(BeFalse())

			snapshot.Status = StatusEntered
			Expect(tr.Status()).To(Equal(StatusUnmounted))
		})
	})
})

func durationPtr(d time.Duration) *time.Duration {
	return &d
}
