package configuration

import (
	"fmt"
	"os"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/mexilacteos/itdesk/pkg/logging"
)

const Production = "production"

var singleton = sync.OnceValue(func() *Configuration {
	c := &Configuration{}
	if err := c.load([]string{".env", ".env.local"}); err != nil {
		panic(err)
	}
	return c
})

// Use returns the process-wide configuration, loading it on first call.
func Use() *Configuration {
	return singleton()
}

func LoadEnv(envFiles []string) (int, error) {
	existingFiles := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existingFiles = append(existingFiles, file)
		}
	}

	if len(existingFiles) == 0 {
		return 0, nil
	}

	return len(existingFiles), godotenv.Load(existingFiles...)
}

type DatabaseOptions struct {
	Name     string `env:"DB_NAME" envDefault:"itdesk"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
}

func (d *DatabaseOptions) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Name, d.Password,
	)
}

type PrometheusOptions struct {
	Enabled bool   `env:"PROMETHEUS_METRICS_ENABLED" envDefault:"true"`
	Path    string `env:"PROMETHEUS_METRICS_PATH" envDefault:"/debug/prometheus"`
}

type Configuration struct {
	Database   DatabaseOptions
	Prometheus PrometheusOptions

	GoAppEnvironment string `env:"GO_APP_ENV" envDefault:"development"`
	ServerAddress    string `env:"SERVER_ADDRESS" envDefault:":8080"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	LogPath          string `env:"LOG_PATH" envDefault:"./logs/app.log"`
	FolioNamespace   string `env:"FOLIO_NAMESPACE" envDefault:"it.request"`

	logger *logrus.Logger
	once   sync.Once
}

func (c *Configuration) load(envFiles []string) error {
	if _, err := LoadEnv(envFiles); err != nil {
		return err
	}
	return env.Parse(c)
}

func (c *Configuration) Logger() *logrus.Logger {
	c.once.Do(func() {
		level, err := logrus.ParseLevel(c.LogLevel)
		if err != nil {
			level = logrus.InfoLevel
		}
		if c.GoAppEnvironment == Production {
			logger, fErr := logging.FileLogger(level, c.LogPath)
			if fErr == nil {
				c.logger = logger
				return
			}
		}
		c.logger = logging.ConsoleLogger(level)
	})
	return c.logger
}
