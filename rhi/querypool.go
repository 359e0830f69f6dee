// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package rhi

// QueryKind selects what a QueryPool measures, grounded on
// original_source's rhiquery_pool.h, which enumerates occlusion,
// pipeline-statistics and timestamp queries.
type QueryKind int

// Query kinds.
const (
	QueryOcclusion QueryKind = iota
	QueryTimestamp
	QueryPipelineStatistics
)

// QueryPool is a fixed-size array of GPU queries (spec.md §7
// "Supplemented features: query pools"). package driver has no query
// primitive of its own, so no query is ever measured: begin logs a
// PerformanceWarning, end does nothing, and resolve zeroes the
// requested results (see dispatch.go); wiring real hardware queries would require
// extending package driver itself, which is out of scope here (see
// DESIGN.md).
type QueryPool struct {
	resourceBase
	kind    QueryKind
	count   int
	results []uint64
}

// NewQueryPool creates a pool of count queries of the given kind.
func (d *Device) NewQueryPool(kind QueryKind, count int) (*QueryPool, error) {
	qp := &QueryPool{kind: kind, count: count, results: make([]uint64, count)}
	qp.resourceBase = newResourceBase(ResourceQueryPool, func() {})
	return qp, nil
}

// Count returns the number of queries in the pool.
func (qp *QueryPool) Count() int { return qp.count }

// Results returns the most recently resolved query values. wait
// controls whether the call blocks until the GPU has finished writing
// them, resolving the "does resolve block" open question spec.md §9
// leaves unanswered in the source: true blocks on the Device's last
// submitted completion channel, false returns whatever was resolved
// as of the last call without waiting (and may be stale).
func (d *Device) QueryPoolResults(qp *QueryPool, wait bool) ([]uint64, error) {
	if wait {
		if err := d.waitIdle(); err != nil {
			return nil, err
		}
	}
	return qp.results, nil
}
