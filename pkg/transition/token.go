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
	"sync"
	"time"
)

// completionToken guards the single outstanding scheduled completion of an
// in-flight phase. A timer and an end listener may race to fire it; only
// the first caller has effect, and a cancelled token never fires. At most
// one live token exists per instance.
type completionToken struct {
	mu       sync.Mutex
	active   bool
	callback func()
	timer    *time.Timer
}

func newCompletionToken(callback func()) *completionToken {
	return &completionToken{
		active:   true,
		callback: callback,
	}
}

// fire deactivates the token, clears the stored callback, and invokes it.
// A second fire, or a fire after cancel, is a no-op.
func (c *completionToken) fire() {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	c.active = false
	callback := c.callback
	c.callback = nil
	c.timer = nil
	c.mu.Unlock()

	callback()
}

// cancel marks the token inert and stops a pending timer if one is armed.
// It reports whether the token was still live.
func (c *completionToken) cancel() bool {
	c.mu.Lock()
	wasActive := c.active
	c.active = false
	c.callback = nil
	timer := c.timer
	c.timer = nil
	c.mu.Unlock()

	if wasActive && timer != nil {
		timer.Stop()
	}

	return wasActive
}

// scheduleAfter arms a timer that fires the token after d, unless the
// token has already been fired or cancelled.
func (c *completionToken) scheduleAfter(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return
	}
	c.timer = time.AfterFunc(d, c.fire)
}
