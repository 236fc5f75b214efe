package config

type Config struct {
	Command    string
	ScriptFile string

	Interactive bool
	Debug       bool

	Prompt      string
	JobCapacity int
}

func New() *Config {
	return &Config{
		Prompt:      "$ ",
		JobCapacity: 64,
	}
}
