package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Activity ActivityConfig
	MQTT     MQTTConfig
}

type ServerConfig struct {
	Host string
	Port int
	Mode string // debug, release, test
}

type DatabaseConfig struct {
	Driver       string // sqlite or mysql
	SQLitePath   string
	DSN          string // mysql only
	MaxOpenConns int
	MaxIdleConns int
}

type JWTConfig struct {
	Secret        string
	ExpireMinutes time.Duration
}

type ActivityConfig struct {
	BufferSize int
}

type MQTTConfig struct {
	Enabled  bool
	Broker   string
	Port     int
	ClientID string
	Username string
	Password string
	Topic    string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 5000)
	viper.SetDefault("server.mode", "debug")

	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.sqlite_path", "./scarrow.db")
	viper.SetDefault("database.dsn", "")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)

	viper.SetDefault("jwt.secret", "change-this-secret-in-production")
	viper.SetDefault("jwt.expire_minutes", 30)

	viper.SetDefault("activity.buffer_size", 256)

	viper.SetDefault("mqtt.enabled", false)
	viper.SetDefault("mqtt.broker", "localhost")
	viper.SetDefault("mqtt.port", 1883)
	viper.SetDefault("mqtt.client_id", "scarrow-server")
	viper.SetDefault("mqtt.username", "")
	viper.SetDefault("mqtt.password", "")
	viper.SetDefault("mqtt.topic", "scarrow/devices/+/logs")

	// Environment variables
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("server.host"),
			Port: viper.GetInt("server.port"),
			Mode: viper.GetString("server.mode"),
		},
		Database: DatabaseConfig{
			Driver:       viper.GetString("database.driver"),
			SQLitePath:   viper.GetString("database.sqlite_path"),
			DSN:          viper.GetString("database.dsn"),
			MaxOpenConns: viper.GetInt("database.max_open_conns"),
			MaxIdleConns: viper.GetInt("database.max_idle_conns"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("jwt.secret"),
			ExpireMinutes: time.Duration(viper.GetInt("jwt.expire_minutes")),
		},
		Activity: ActivityConfig{
			BufferSize: viper.GetInt("activity.buffer_size"),
		},
		MQTT: MQTTConfig{
			Enabled:  viper.GetBool("mqtt.enabled"),
			Broker:   viper.GetString("mqtt.broker"),
			Port:     viper.GetInt("mqtt.port"),
			ClientID: viper.GetString("mqtt.client_id"),
			Username: viper.GetString("mqtt.username"),
			Password: viper.GetString("mqtt.password"),
			Topic:    viper.GetString("mqtt.topic"),
		},
	}

	return cfg, nil
}
