package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App               App               `mapstructure:",squash"`
	Server            Server            `mapstructure:",squash"`
	Database          Database          `mapstructure:",squash"`
	Auth              Auth              `mapstructure:",squash"`
	Register          Register          `mapstructure:",squash"`
	Report            Report            `mapstructure:",squash"`
	OpenRegisterWatch OpenRegisterWatch `mapstructure:",squash"`
}

type App struct {
	LogLevel string         `mapstructure:"log_level"`
	Timezone string         `mapstructure:"timezone"`
	Location *time.Location `mapstructure:"-"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Database struct {
	DSN             string `mapstructure:"-"`
	Driver          string `mapstructure:"database_driver"` // postgres | memory
	Password        string `mapstructure:"database_password"`
	URL             string `mapstructure:"database_url"`
	User            string `mapstructure:"database_user"`
	NotifyChannel   string `mapstructure:"database_notify_channel"`
	ListenerEnabled bool   `mapstructure:"database_listener_enabled"`
}

type Auth struct {
	Secret        string        `mapstructure:"auth_secret"`
	TokenTTL      time.Duration `mapstructure:"auth_token_ttl"`
	AdminUser     string        `mapstructure:"auth_admin_user"`
	AdminPassword string        `mapstructure:"auth_admin_password"` // vazio não cria usuário inicial
}

type Register struct {
	StoreTimeout time.Duration `mapstructure:"register_store_timeout"`
}

type Report struct {
	DefaultPageSize int `mapstructure:"report_default_page_size"`
	MaxPageSize     int `mapstructure:"report_max_page_size"`
}

type OpenRegisterWatch struct {
	CronSchedule string `mapstructure:"open_register_watch_cron"`
	Enabled      bool   `mapstructure:"open_register_watch_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173,https://marlogas.vercel.app")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/marlogas?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_NOTIFY_CHANNEL", "dispatches_changed")
	viper.SetDefault("DATABASE_LISTENER_ENABLED", true)

	viper.SetDefault("AUTH_SECRET", "your_secret_key")
	viper.SetDefault("AUTH_TOKEN_TTL", "12h")
	viper.SetDefault("AUTH_ADMIN_USER", "admin")
	viper.SetDefault("AUTH_ADMIN_PASSWORD", "")

	viper.SetDefault("REGISTER_STORE_TIMEOUT", "5s") // Tempo máximo de cada chamada ao banco

	viper.SetDefault("REPORT_DEFAULT_PAGE_SIZE", 20)
	viper.SetDefault("REPORT_MAX_PAGE_SIZE", 100)

	// Verificação de caja esquecida aberta
	viper.SetDefault("OPEN_REGISTER_WATCH_CRON", "45 22 * * *") // Todos os dias às 22h45
	viper.SetDefault("OPEN_REGISTER_WATCH_ENABLED", false)

	viper.SetDefault("TIMEZONE", "America/Lima")
	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if err := config.finalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// finalize completa os campos derivados e valida os valores lidos
func (c *Config) finalize() error {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return fmt.Errorf("config: fuso horário inválido %q: %w", c.App.Timezone, err)
	}
	c.App.Location = loc

	if c.Report.DefaultPageSize <= 0 {
		c.Report.DefaultPageSize = 20
	}
	if c.Report.MaxPageSize < c.Report.DefaultPageSize {
		c.Report.MaxPageSize = c.Report.DefaultPageSize
	}

	if c.Database.Driver != "postgres" && c.Database.Driver != "memory" {
		return fmt.Errorf("config: driver de banco não suportado: %s", c.Database.Driver)
	}

	c.Database.DSN = fmt.Sprintf(
		"postgres://%s:%s@%s",
		c.Database.User,
		c.Database.Password,
		c.Database.URL,
	)

	return nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
