package cassandra

import "errors"

var (
	ErrFailedToConnect     = errors.New("failed to connect to cassandra")
	ErrInvalidConsistency  = errors.New("invalid cassandra consistency level")
	ErrInvalidKeyspaceName = errors.New("invalid cassandra keyspace name")
	ErrHealthcheckFailed   = errors.New("cassandra healthcheck failed")
)
