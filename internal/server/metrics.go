package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vidshelf"

// HTTPRequestsTotal counts served requests.
// Labels:
//   - method: HTTP method
//   - route: registered pattern (e.g. "/playlists/{id}/items")
//   - status: response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests, by method, route and status.",
	},
	[]string{"method", "route", "status"},
)

// LibraryOperationsTotal counts library operations.
// Labels:
//   - operation: e.g. "create_playlist", "add_item"
//   - result: "ok", "duplicate", "missing_playlist", "missing_item", "invalid" or "error"
var LibraryOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "library_operations_total",
		Help:      "Total number of library operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// AuthEventsTotal counts identity and session events.
// Labels:
//   - event: "register", "login", "logout" or "redirect"
//   - result: "ok" or a short failure reason
var AuthEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Total number of identity and session events.",
	},
	[]string{"event", "result"},
)

// SearchRequestsTotal counts remote catalog searches.
// Label:
//   - result: "ok", "invalid", "missing_key" or "failed"
var SearchRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_requests_total",
		Help:      "Total number of catalog searches, by result.",
	},
	[]string{"result"},
)
