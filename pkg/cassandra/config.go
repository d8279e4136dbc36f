package cassandra

import "time"

// Config holds Cassandra cluster settings.
type Config struct {
	Hosts             []string      `env:"CASSANDRA_HOSTS" envDefault:"127.0.0.1" envSeparator:","`
	Keyspace          string        `env:"CASSANDRA_KEYSPACE" envDefault:"opsnotify"`
	ReplicationFactor int           `env:"CASSANDRA_REPLICATION_FACTOR" envDefault:"1"`
	Consistency       string        `env:"CASSANDRA_CONSISTENCY" envDefault:"ONE"`
	Username          string        `env:"CASSANDRA_USERNAME"`
	Password          string        `env:"CASSANDRA_PASSWORD"`
	Timeout           time.Duration `env:"CASSANDRA_TIMEOUT" envDefault:"5s"`
	ConnectTimeout    time.Duration `env:"CASSANDRA_CONNECT_TIMEOUT" envDefault:"10s"`
}
