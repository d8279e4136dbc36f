// Package cassandra opens gocql sessions, creating the keyspace on first
// connect, and exposes a readiness probe.
package cassandra
