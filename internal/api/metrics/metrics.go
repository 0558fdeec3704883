// Package metrics defines and registers all custom Prometheus metrics for
// the storefront. It is the single source of truth for metric names, labels,
// and help strings; metrics register with the default registry at import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// SignupsTotal counts successfully created accounts.
var SignupsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of accounts created.",
	},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure" (failure covers unknown email and wrong
//     password alike; the split is deliberately not exposed)
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ResetTokensTotal counts password-reset token lifecycle events.
// Label:
//   - stage: "issued" or "consumed"
var ResetTokensTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reset_tokens_total",
		Help:      "Total number of password-reset tokens, by lifecycle stage.",
	},
	[]string{"stage"},
)

// CSRFRejectionsTotal counts state-changing requests rejected by the CSRF
// guard before reaching any business logic.
var CSRFRejectionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "csrf_rejections_total",
		Help:      "Total number of requests rejected for a missing or invalid CSRF token.",
	},
)

// ── File lifecycle metrics ────────────────────────────────────────────────────

// UploadsTotal counts image upload outcomes.
// Label:
//   - result: "accepted", "rejected" (not an image / too large) or "error"
//     (storage I/O failure)
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total number of image uploads, by result.",
	},
	[]string{"result"},
)

// UploadSizeBytes observes the size of accepted uploads.
var UploadSizeBytes = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upload_size_bytes",
		Help:      "Size distribution of accepted image uploads.",
		Buckets:   prometheus.ExponentialBuckets(1024, 4, 8), // 1KiB .. 16MiB
	},
)

// OrphanFilesSweptTotal counts files removed by the janitor, whether handed
// over explicitly or found by the periodic sweep.
var OrphanFilesSweptTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orphan_files_swept_total",
		Help:      "Total number of orphaned image files removed.",
	},
)

// ── Shop metrics ──────────────────────────────────────────────────────────────

// OrdersPlacedTotal counts placed orders.
var OrdersPlacedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_placed_total",
		Help:      "Total number of orders placed.",
	},
)
