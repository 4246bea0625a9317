package systeminfo

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	reasonRelationMissing    = "relation_missing"
	reasonTransactionInvalid = "transaction_invalid"

	opInsert = "insert"
	opUpdate = "update"
	opDelete = "delete"
)

var (
	recoveries = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "system_info_recoveries_total",
			Help: "Number of system info lookups recovered locally, by reason.",
		},
		[]string{"reason"},
	)

	writes = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "system_info_writes_total",
			Help: "Number of committed system info writes, by operation.",
		},
		[]string{"op"},
	)
)
