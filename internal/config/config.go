package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env  string     `yaml:"env" env:"ENV" env-default:"local"`
	HTTP HTTPConfig `yaml:"http"`
	Room RoomConfig `yaml:"room"`
}

type HTTPConfig struct {
	Address        string   `yaml:"address" env:"HTTP_ADDRESS" env-default:""`
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-default:""`
}

type RoomConfig struct {
	CodeLength        int           `yaml:"code_length" env-default:"6"`
	AllowLeadingZeros bool          `yaml:"allow_leading_zeros" env-default:"false"`
	MaxControllers    int           `yaml:"max_controllers" env-default:"4"`
	MaxAge            time.Duration `yaml:"max_age" env-default:"1h"`
	SweepInterval     time.Duration `yaml:"sweep_interval" env-default:"5m"`
}

func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		panic("config path is empty")
	}

	return MustLoadPath(configPath)
}

func MustLoadPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	cfg.setDefaults()

	return &cfg
}

func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	if res == "" {
		res = "config/local.yaml"
	}

	return res
}

func (c *Config) setDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":3000"
	}
	if len(c.HTTP.AllowedOrigins) == 0 {
		c.HTTP.AllowedOrigins = []string{
			"http://localhost:5173",
			"http://localhost:5174",
		}
	}
	if c.Room.CodeLength <= 0 {
		c.Room.CodeLength = 6
	}
	if c.Room.MaxControllers <= 0 {
		c.Room.MaxControllers = 4
	}
	if c.Room.MaxAge <= 0 {
		c.Room.MaxAge = time.Hour
	}
	if c.Room.SweepInterval <= 0 {
		c.Room.SweepInterval = 5 * time.Minute
	}
}
