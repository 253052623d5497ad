// Package clusterstore provides pluggable counter backends for
// cluster-mode flow control (spec.md §4.4's ClusterMode, expanded in
// SPEC_FULL.md §4.4 "Domain-stack addition — cluster mode"). It is the
// teacher repo's rate-limit counter store, generalised from a standalone
// limiter's backing store into the shared-counter collaborator the
// cluster package's TokenClient consults.
//
//   - [MemoryStore]: fast, in-memory counters, lost on restart.
//   - [SQLiteStore]: persistent counters backed by SQLite.
//   - [RedisStore]: counters shared across processes via Redis, the
//     backend that actually makes ClusterMode meaningful.
//   - [TieredStore]: memory fast-path in front of any persistent Store.
package clusterstore
