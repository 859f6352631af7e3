package database

type Config struct {
	URI               string
	DBName            string `yaml:"db_name"`
	ConnectionTimeout int    `yaml:"connection_timeout_in_ms"`
	QueryTimeout      int    `yaml:"query_timeout_in_ms"`
}
