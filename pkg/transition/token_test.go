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
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("completionToken", func() {
	var (
		fired int32
		token *completionToken
	)

	BeforeEach(func() {
		fired = 0
		token = newCompletionToken(func() {
			atomic.AddInt32(&fired, 1)
		})
	})

	It("fires the wrapped callback exactly once", func() {
		token.fire()
		token.fire()
		Expect(atomic.LoadInt32(&fired)).To(Equal(int32(1)))
	})

	It("never fires after cancellation", func() {
		Expect(token.cancel()).To(BeTrue())
		token.fire()
		Expect(atomic.LoadInt32(&fired)).To(BeZero())
	})

	It("reports an already spent token on cancel", func() {
		token.fire()
		Expect(token.cancel()).To(BeFalse())
	})

	It("fires through a scheduled timer", func() {
		token.scheduleAfter(10 * time.Millisecond)
		Eventually(func() int32 { return atomic.LoadInt32(&fired) }, "1s", "5ms").Should(Equal(int32(1)))
	})

	It("stops a scheduled timer on cancel", func() {
		token.scheduleAfter(20 * time.Millisecond)
		Expect(token.cancel()).To(BeTrue())
		Consistently(func() int32 { return atomic.LoadInt32(&fired) }, "80ms", "10ms").Should(BeZero())
	})

	It("ignores scheduling on a spent token", func() {
		token.fire()
		token.scheduleAfter(10 * time.Millisecond)
		Consistently(func() int32 { return atomic.LoadInt32(&fired) }, "50ms", "10ms").Should(Equal(int32(1)))
	})
})
