// Package opensearch connects to an OpenSearch cluster and exposes a
// readiness probe.
package opensearch
