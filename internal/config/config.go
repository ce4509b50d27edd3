package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	// LogFile keeps logs off the screen the board is drawn on. Empty logs to stderr.
	LogFile  string `yaml:"log-file" env:"LOG_FILE" env-default:"kalah-client.log"`
	HTTPPort string `yaml:"http-port" env:"HTTP_PORT" env-default:""`
	Server   Server `yaml:"server"`
	Game     Game   `yaml:"game"`
	Redis    Redis  `yaml:"redis"`
}

type Server struct {
	URL              string        `yaml:"url" env:"SERVER_URL" env-default:"ws://localhost:8080/ws"`
	HandshakeTimeout time.Duration `yaml:"handshake-timeout" env:"SERVER_HANDSHAKE_TIMEOUT" env-default:"10s"`
	WriteTimeout     time.Duration `yaml:"write-timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"10s"`
	PingPeriod       time.Duration `yaml:"ping-period" env:"SERVER_PING_PERIOD" env-default:"30s"`
}

// Game is the starting configuration the client draws at pairing.
type Game struct {
	Pits  int `yaml:"pits" env:"GAME_PITS" env-default:"6"`
	Seeds int `yaml:"seeds" env:"GAME_SEEDS" env-default:"6"`
}

type Redis struct {
	Enabled    bool          `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host       string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port       string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	HistoryTTL time.Duration `yaml:"history-ttl" env:"REDIS_HISTORY_TTL" env-default:"24h"`
}

// MustLoad reads path when it exists and the environment otherwise.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, err
		}

		return config, config.validate()
	}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, err
	}

	return config, config.validate()
}

func (that *Config) validate() error {
	if that.Server.URL == "" {
		return errors.New("server.url is required")
	}

	if that.Game.Pits < 1 || that.Game.Seeds < 0 {
		return fmt.Errorf("invalid game configuration: %d pits of %d seeds", that.Game.Pits, that.Game.Seeds)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
