// Package mongo connects to MongoDB with the v2 driver and exposes a
// readiness probe.
package mongo
