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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Status", func() {
	It("recognizes exactly the five lifecycle statuses", func() {
		for _, s := range []Status{StatusUnmounted, StatusExited, StatusEntering, StatusEntered, StatusExiting} {
			Expect(s.IsValid()).To(BeTrue(), "expected %s to be valid", s)
		}
		Expect(Status("mounted").IsValid()).To(BeFalse())
		Expect(Status("").IsValid()).To(BeFalse())
	})

	It("encodes each status distinctly for the gauge", func() {
		seen := map[float64]Status{}
		for _, s := range []Status{StatusUnmounted, StatusExited, StatusEntering, StatusEntered, StatusExiting} {
			code := s.Encoded()
			Expect(seen).ToNot(HaveKey(code))
			seen[code] = s
		}
		Expect(Status("bogus").Encoded()).To(Equal(float64(-1)))
	})

	It("keeps every transition table endpoint inside the status set", func() {
		for _, desc := range Transitions() {
			Expect(Status(desc.Dst).IsValid()).To(BeTrue())
			for _, src := range desc.Src {
				Expect(Status(src).IsValid()).To(BeTrue())
			}
		}
	})
})
