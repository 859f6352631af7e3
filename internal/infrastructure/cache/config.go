package cache

const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendNone   = "none"
)

type Config struct {
	URI        string
	Backend    string `yaml:"backend"`
	Timeout    int64  `yaml:"timeout_in_ms"`
	MemorySize int    `yaml:"memory_size"`
	ListTTL    int64  `yaml:"list_ttl_in_ms"`
	ItemTTL    int64  `yaml:"item_ttl_in_ms"`
}
