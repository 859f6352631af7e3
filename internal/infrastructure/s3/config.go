package s3

type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	UsePathStyle    bool   `yaml:"use_path_style"`
	Timeout         int64  `yaml:"timeout_in_ms"`
	PublicURL       string `yaml:"public_url"`
}
