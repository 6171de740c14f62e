// Package metrics defines and registers all custom Prometheus metrics for
// the recipe-vault API. It is the single source of truth for metric names,
// labels, and help strings. Metrics register with the default registry at
// package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "recipevault"

// ── Onboarding metrics ────────────────────────────────────────────────────────

// OnboardingStepsTotal counts successful forward transitions in the
// onboarding flow.
// Labels:
//   - path: "a", "b", or "" before a branch is chosen
//   - screen: the screen the transition landed on
var OnboardingStepsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "onboarding_steps_total",
		Help:      "Total number of onboarding step advances, by path and target screen.",
	},
	[]string{"path", "screen"},
)

// OnboardingCompletedTotal counts completed onboarding flows.
// Label:
//   - path: the branch the user finished on
var OnboardingCompletedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "onboarding_completed_total",
		Help:      "Total number of completed onboarding flows, by path.",
	},
	[]string{"path"},
)

// OnboardingResetsTotal counts developer-triggered onboarding resets.
var OnboardingResetsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "onboarding_resets_total",
		Help:      "Total number of onboarding state resets.",
	},
)

// OnboardingFallbackTotal counts state resolutions that fell back to the
// Welcome screen because the persisted cursor was outside the flow table.
var OnboardingFallbackTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "onboarding_fallback_total",
		Help:      "Total number of onboarding screen resolutions that hit the Welcome fallback.",
	},
)

// ── Content metrics ───────────────────────────────────────────────────────────

// RecipesCreatedTotal counts newly created recipes.
// Label:
//   - source: "manual", "onboarding", or "import"
var RecipesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recipes_created_total",
		Help:      "Total number of recipes created, by source.",
	},
	[]string{"source"},
)

// ── Import metrics ────────────────────────────────────────────────────────────

// ImportQueueDepth tracks the current number of jobs waiting in each worker
// channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ImportQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "import_queue_depth",
		Help:      "Current number of import jobs pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ImportProcessingDuration measures how long a single import job takes from
// dequeue to persistence.
// Label:
//   - source: the import source of the job
var ImportProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "import_processing_duration_seconds",
		Help:      "Duration of import job processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"source"},
)
