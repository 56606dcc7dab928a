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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Component labels.
	ComponentTransitionInstance = "transition_instance"
	ComponentTransitionGroup    = "transition_group"
)

var (
	// Namespace and subsystem for all metrics.
	namespace = "statekit"
	subsystem = "transition"

	// Status transition counter.
	transitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "status_changes_total",
			Help:      "Total number of committed status changes by instance and resulting status",
		},
		[]string{"component", "instance", "status"},
	)

	// Cancelled completion tokens.
	cancelledCompletionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "cancelled_completions_total",
			Help:      "Total number of completion tokens cancelled before firing",
		},
		[]string{"component", "instance"},
	)

	// Current status gauge. Encoded as: 0=unmounted, 1=exited, 2=entering,
	// 3=entered, 4=exiting.
	currentStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "current_status",
			Help:      "Current lifecycle status of a transition instance",
		},
		[]string{"component", "instance"},
	)

	// Registered children per group.
	groupChildren = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "group_children",
			Help:      "Number of children currently registered in a transition group",
		},
		[]string{"instance"},
	)
)

// ObserveStatusChange records a committed status change for an instance.
func ObserveStatusChange(component, instance, status string, encoded float64) {
	transitionsTotal.WithLabelValues(component, instance, status).Inc()
	currentStatus.WithLabelValues(component, instance).Set(encoded)
}

// IncCancelledCompletion records a completion token that was cancelled
// before it could fire.
func IncCancelledCompletion(component, instance string) {
	cancelledCompletionsTotal.WithLabelValues(component, instance).Inc()
}

// SetGroupChildren records the current child count of a group.
func SetGroupChildren(instance string, count int) {
	groupChildren.WithLabelValues(instance).Set(float64(count))
}

// InitInstanceMetrics pre-creates the metric series for an instance so that
// dashboards see it before its first transition.
func InitInstanceMetrics(component, instance string) {
	cancelledCompletionsTotal.WithLabelValues(component, instance)
	currentStatus.WithLabelValues(component, instance)
}
