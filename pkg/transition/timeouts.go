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

import "time"

// Phase is one of the three timed sub-lifecycles of a transition.
type Phase string

const (
	PhaseEnter  Phase = "enter"
	PhaseExit   Phase = "exit"
	PhaseAppear Phase = "appear"
)

// Timeouts holds the per-phase durations of a transition. A nil field
// means "no timeout for that phase": the phase then settles through the
// end listener exclusively, or through an immediate deferred completion
// when no listener is configured either.
type Timeouts struct {
	Enter  *time.Duration
	Exit   *time.Duration
	Appear *time.Duration
}

// UniformTimeouts returns a Timeouts where all three phases share d.
func UniformTimeouts(d time.Duration) Timeouts {
	return Timeouts{
		Enter:  &d,
		Exit:   &d,
		Appear: &d,
	}
}

// Resolve returns the duration for the given phase, or nil when the phase
// has no timeout configured. Each phase resolves independently.
func (t Timeouts) Resolve(phase Phase) *time.Duration {
	switch phase {
	case PhaseEnter:
		return t.Enter
	case PhaseExit:
		return t.Exit
	case PhaseAppear:
		return t.Appear
	default:
		return nil
	}
}

// IsZero reports whether no phase has a timeout configured.
func (t Timeouts) IsZero() bool {
	return t.Enter == nil && t.Exit == nil && t.Appear == nil
}
