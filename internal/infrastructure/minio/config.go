package minio

type ClientConfig struct {
	AccessKey string
	SecretKey string
	Endpoint  string `yaml:"endpoint"`
	UseSSL    bool   `yaml:"use_ssl"`
	Region    string `yaml:"region"`
}

type StoreConfig struct {
	Timeout int64 `yaml:"timeout_in_ms"`
	// PublicURL is the base used to build blob urls, e.g. http://localhost:9000.
	// Defaults to the client endpoint.
	PublicURL string `yaml:"public_url"`
}
