// Package registry implements the two-phase delivery between shard
// publishers and the registration sink.
//
// A Hub starts without a sink. Payloads published in that phase are kept in
// the holding area, keyed by source id in first-publish order, with later
// publishes for the same id replacing the payload in place. Install sets the
// sink and drains the holding area into it exactly once. From then on
// Publish calls the sink directly.
//
// The package level Publish and Install work on a lazily created
// process-wide hub, named after the fixed register and holding area names
// every generated shard refers to.
package registry
