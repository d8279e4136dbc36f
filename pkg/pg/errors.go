package pg

import "errors"

var (
	ErrEmptyConnectionString = errors.New("pg.empty_connection_string: set PG_CONN_URL")
	ErrParseConfig           = errors.New("pg.parse_config")
	ErrConnect               = errors.New("pg.connect")
	ErrHealthcheck           = errors.New("pg.healthcheck")
	ErrMigrate               = errors.New("pg.migrate")
)
