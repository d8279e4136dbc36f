package opensearch

// Config holds OpenSearch cluster settings.
type Config struct {
	Addresses  []string `env:"OPENSEARCH_ADDRESSES,required" envSeparator:","`
	Username   string   `env:"OPENSEARCH_USERNAME"`
	Password   string   `env:"OPENSEARCH_PASSWORD"`
	MaxRetries int      `env:"OPENSEARCH_MAX_RETRIES" envDefault:"3"`
	Index      string   `env:"OPENSEARCH_INDEX" envDefault:"notifications"`
}
