// Package node defines the worker-registry entry upserted by each
// heartbeat: a node id, optional name, and a flat map of scalar labels.
//
// A Node is never deleted by the core; heartbeats only ever create or
// refresh one. Labels preserve their JSON scalar category (an int label
// stays distinct from a float label) across encode/decode, unlike a bare
// map[string]any.
package node
