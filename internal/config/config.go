package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string    `yaml:"log-level"   env:"LOG_LEVEL"   env-default:"info"`
	HTTPPort   string    `yaml:"http-port"   env:"HTTP_PORT"   env-default:"3000"`
	SocketPort string    `yaml:"socket-port" env:"SOCKET_PORT" env-default:"3001"`
	Redis      Redis     `yaml:"redis"`
	WebSocket  WebSocket `yaml:"websocket"`
	History    History   `yaml:"history"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// WebSocket tunes every client connection.
type WebSocket struct {
	SendBuffer     int           `yaml:"send-buffer"     env-default:"64"`
	ReadLimit      int64         `yaml:"read-limit"      env-default:"4096"`
	WriteWait      time.Duration `yaml:"write-wait"      env-default:"10s"`
	PongWait       time.Duration `yaml:"pong-wait"       env-default:"30s"`
	PingPeriod     time.Duration `yaml:"ping-period"     env-default:"25s"`
	AllowedOrigins []string      `yaml:"allowed-origins" env:"WS_ALLOWED_ORIGINS" env-separator:","`
}

type History struct {
	Buffer int `yaml:"buffer" env-default:"256"`
}

// Load - reads the config file at path, then applies environment overrides.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	if that.Host == "" || that.Port == "" {
		return ""
	}

	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func (that *Config) validate() error {
	if that.WebSocket.PingPeriod >= that.WebSocket.PongWait {
		return fmt.Errorf("websocket ping-period %s must be shorter than pong-wait %s",
			that.WebSocket.PingPeriod, that.WebSocket.PongWait)
	}

	if that.WebSocket.SendBuffer <= 0 {
		return fmt.Errorf("websocket send-buffer must be positive, got %d", that.WebSocket.SendBuffer)
	}

	return nil
}
