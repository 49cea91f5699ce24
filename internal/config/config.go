package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	AzureOpenAI AzureOpenAIConfig
	MQTT        MQTTConfig
	Insights    InsightsConfig
	Reports     ReportsConfig
	Logger      LoggerConfig
}

type ServerConfig struct {
	Host     string
	Port     int
	BasePath string
}

type DatabaseConfig struct {
	Server          string
	Database        string
	User            string
	Password        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AzureOpenAIConfig struct {
	Endpoint        string
	APIKey          string
	APIVersion      string
	ChatDeployment  string
	EmbedDeployment string
	Timeout         time.Duration
}

type MQTTConfig struct {
	Enabled        bool
	BrokerURL      string
	TopicPrefix    string
	ClientIDPrefix string
}

type InsightsConfig struct {
	UploadDir  string
	SessionTTL time.Duration
}

type ReportsConfig struct {
	LeadTimeURL string
}

type LoggerConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 5050)
	v.SetDefault("SERVER_BASE_PATH", "/nokia-ai")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("AZURE_OPENAI_API_VERSION", "2024-02-15-preview")
	v.SetDefault("AZURE_OPENAI_TIMEOUT", "60s")
	v.SetDefault("MQTT_ENABLED", false)
	v.SetDefault("MQTT_BROKER_URL", "tcp://localhost:1883")
	v.SetDefault("MQTT_TOPIC_PREFIX", "factory")
	v.SetDefault("MQTT_CLIENT_ID_PREFIX", "factory-gpt")
	v.SetDefault("INSIGHT_UPLOAD_DIR", os.TempDir())
	v.SetDefault("INSIGHT_SESSION_TTL", "1h")
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")

	// Env
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host:     v.GetString("SERVER_HOST"),
			Port:     v.GetInt("SERVER_PORT"),
			BasePath: v.GetString("SERVER_BASE_PATH"),
		},
		Database: DatabaseConfig{
			Server:          v.GetString("DB_SERVER"),
			Database:        v.GetString("DB_DATABASE"),
			User:            v.GetString("DB_UID"),
			Password:        v.GetString("DB_PWD"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: parseDuration(v.GetString("DB_CONN_MAX_LIFETIME"), 30*time.Minute),
		},
		AzureOpenAI: AzureOpenAIConfig{
			Endpoint:        v.GetString("AZURE_OPENAI_ENDPOINT"),
			APIKey:          v.GetString("AZURE_OPENAI_KEY"),
			APIVersion:      v.GetString("AZURE_OPENAI_API_VERSION"),
			ChatDeployment:  v.GetString("AZURE_OPENAI_CHAT_DEPLOYMENT"),
			EmbedDeployment: v.GetString("AZURE_OPENAI_EMBED_DEPLOYMENT"),
			Timeout:         parseDuration(v.GetString("AZURE_OPENAI_TIMEOUT"), 60*time.Second),
		},
		MQTT: MQTTConfig{
			Enabled:        v.GetBool("MQTT_ENABLED"),
			BrokerURL:      v.GetString("MQTT_BROKER_URL"),
			TopicPrefix:    v.GetString("MQTT_TOPIC_PREFIX"),
			ClientIDPrefix: v.GetString("MQTT_CLIENT_ID_PREFIX"),
		},
		Insights: InsightsConfig{
			UploadDir:  v.GetString("INSIGHT_UPLOAD_DIR"),
			SessionTTL: parseDuration(v.GetString("INSIGHT_SESSION_TTL"), time.Hour),
		},
		Reports: ReportsConfig{
			LeadTimeURL: v.GetString("LEAD_TIME_REPORT_URL"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
	}

	return cfg, nil
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// Validate checks that all connection settings are present.
func (c *DatabaseConfig) Validate() error {
	if c.Server == "" || c.Database == "" || c.User == "" || c.Password == "" {
		return errors.New("database environment variables (DB_SERVER, DB_DATABASE, DB_UID, DB_PWD) not set")
	}
	return nil
}

// DSN builds a pgx connection string from the DB_* variables.
func (c *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   c.Server,
		Path:   "/" + c.Database,
	}
	return u.String()
}

// Validate checks that all chat completion settings are present.
func (c *AzureOpenAIConfig) Validate() error {
	if c.Endpoint == "" || c.APIKey == "" || c.ChatDeployment == "" || c.APIVersion == "" {
		return errors.New("one or more Azure OpenAI environment variables are missing")
	}
	return nil
}

// Addr returns the host:port the HTTP server binds to.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
