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
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Timeouts", func() {
	It("shares a uniform duration across all three phases", func() {
		t := UniformTimeouts(300 * time.Millisecond)

		for _, phase := range []Phase{PhaseEnter, PhaseExit, PhaseAppear} {
			resolved := t.Resolve(phase)
			Expect(resolved).ToNot(BeNil())
			Expect(*resolved).To(Equal(300 * time.Millisecond))
		}
	})

	It("resolves structured phases independently", func() {
		enter := 100 * time.Millisecond
		t := Timeouts{Enter: &enter}

		Expect(t.Resolve(PhaseEnter)).To(HaveValue(Equal(enter)))
		Expect(t.Resolve(PhaseExit)).To(BeNil())
		Expect(t.Resolve(PhaseAppear)).To(BeNil())
	})

	It("resolves unknown phases to no timeout", func() {
		t := UniformTimeouts(time.Second)
		Expect(t.Resolve(Phase("bogus"))).To(BeNil())
	})

	It("reports zero when no phase is configured", func() {
		Expect(Timeouts{}.IsZero()).To(BeTrue())
		Expect(UniformTimeouts(0).IsZero()).To(BeFalse())
	})
})
