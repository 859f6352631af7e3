package pubsub

const (
	TransportLocal = "local"
	TransportRedis = "redis"

	DefaultChannel = "image:notifications"
)

type Config struct {
	URI        string
	Transport  string `yaml:"transport"`
	Channel    string `yaml:"channel"`
	BufferSize int    `yaml:"buffer_size"`
	Timeout    int64  `yaml:"timeout_in_ms"`
}
