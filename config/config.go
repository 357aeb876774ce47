package config

import (
	"os"
	"path"
	"strings"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// SysConfig system configuration
type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

// WebConfig http api configuration
type WebConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DBConfig storage backend configuration. Type is one of bolt, sqlite, postgres.
type DBConfig struct {
	Type     string `yaml:"type"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Passwd   string `yaml:"passwd"`
	Bucket   string `yaml:"bucket"`
	MaxConn  int    `yaml:"max_conn"`
	IdleConn int    `yaml:"idle_conn"`
	Debug    bool   `yaml:"debug"`
}

// LogConfig log configuration
type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

// CatalogConfig points at the directory or base url serving the catalog json files.
type CatalogConfig struct {
	Source      string `yaml:"source"`
	Timeout     int    `yaml:"timeout"`
	RefreshSpec string `yaml:"refresh_spec"`
}

// SearchConfig AI assisted product search
type SearchConfig struct {
	Enabled    bool   `yaml:"enabled"`
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	Timeout    int    `yaml:"timeout"`
	MaxResults int    `yaml:"max_results"`
}

// CheckoutConfig order submission settings
type CheckoutConfig struct {
	WhatsappNumber     string `yaml:"whatsapp_number"`
	RedirectToWhatsApp bool   `yaml:"redirect_to_whatsapp"`
	MaxOrders          int    `yaml:"max_orders"`
	Currency           string `yaml:"currency"`
}

// AdminConfig credentials for the order review dashboard
type AdminConfig struct {
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	PasswordHash string `yaml:"password_hash"`
}

// MailConfig staff notification on new orders
type MailConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Host     string   `yaml:"host"`
	Port     int      `yaml:"port"`
	User     string   `yaml:"user"`
	Password string   `yaml:"password"`
	From     string   `yaml:"from"`
	To       []string `yaml:"to"`
}

type AppConfig struct {
	System   SysConfig      `yaml:"system"`
	Web      WebConfig      `yaml:"web"`
	Database DBConfig       `yaml:"database"`
	Logger   LogConfig      `yaml:"logger"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Search   SearchConfig   `yaml:"search"`
	Checkout CheckoutConfig `yaml:"checkout"`
	Admin    AdminConfig    `yaml:"admin"`
	Mail     MailConfig     `yaml:"mail"`
}

func (c *AppConfig) GetDataDir() string {
	return path.Join(c.System.Workdir, "data")
}

func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) CatalogTimeout() time.Duration {
	return time.Duration(c.Catalog.Timeout) * time.Second
}

func (c *AppConfig) SearchTimeout() time.Duration {
	return time.Duration(c.Search.Timeout) * time.Second
}

// InitDirs creates the working directories
func (c *AppConfig) InitDirs() error {
	for _, dir := range []string{c.GetDataDir(), c.GetLogDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// DefaultAppConfig the built-in configuration used when no file is given
var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "RGIMStore",
		Location: "America/New_York",
		Workdir:  "/var/storefront",
		Debug:    true,
	},
	Web: WebConfig{
		Host: "0.0.0.0",
		Port: 1880,
	},
	Database: DBConfig{
		Type:     "bolt",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "storefront",
		User:     "postgres",
		Passwd:   "",
		Bucket:   "rgim",
		MaxConn:  20,
		IdleConn: 5,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: false,
		Filename:   "/var/storefront/logs/storefront.log",
	},
	Catalog: CatalogConfig{
		Source:      "./data",
		Timeout:     10,
		RefreshSpec: "@every 10m",
	},
	Search: SearchConfig{
		Enabled:    false,
		Model:      "gemini-2.0-flash",
		Timeout:    10,
		MaxResults: 10,
	},
	Checkout: CheckoutConfig{
		WhatsappNumber:     "13058462224",
		RedirectToWhatsApp: true,
		MaxOrders:          500,
		Currency:           "USD",
	},
	Admin: AdminConfig{
		Username: "admin",
		Password: "admin123",
	},
	Mail: MailConfig{
		Port: 587,
	},
}

// LoadConfig reads the yaml file over the defaults and applies environment overrides.
// A missing or unreadable file leaves the defaults in place.
func LoadConfig(cfile string) *AppConfig {
	cfg := *DefaultAppConfig
	cfg.Mail.To = append([]string(nil), DefaultAppConfig.Mail.To...)
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				panic(err)
			}
		}
	}
	applyEnv(&cfg)
	return &cfg
}

func setEnvValue(name string, val *string) {
	if v := os.Getenv(name); v != "" {
		*val = v
	}
}

func setEnvBoolValue(name string, val *bool) {
	if v := os.Getenv(name); v != "" {
		*val = cast.ToBool(v)
	}
}

func setEnvIntValue(name string, val *int) {
	if v := os.Getenv(name); v != "" {
		if i, err := cast.ToIntE(v); err == nil {
			*val = i
		}
	}
}

func applyEnv(cfg *AppConfig) {
	setEnvValue("STOREFRONT_SYSTEM_WORKER_DIR", &cfg.System.Workdir)
	setEnvValue("STOREFRONT_SYSTEM_LOCATION", &cfg.System.Location)
	setEnvBoolValue("STOREFRONT_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("STOREFRONT_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("STOREFRONT_WEB_PORT", &cfg.Web.Port)

	setEnvValue("STOREFRONT_DB_TYPE", &cfg.Database.Type)
	setEnvValue("STOREFRONT_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("STOREFRONT_DB_PORT", &cfg.Database.Port)
	setEnvValue("STOREFRONT_DB_NAME", &cfg.Database.Name)
	setEnvValue("STOREFRONT_DB_USER", &cfg.Database.User)
	setEnvValue("STOREFRONT_DB_PWD", &cfg.Database.Passwd)

	setEnvValue("STOREFRONT_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("STOREFRONT_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)

	setEnvValue("STOREFRONT_CATALOG_SOURCE", &cfg.Catalog.Source)
	setEnvIntValue("STOREFRONT_CATALOG_TIMEOUT", &cfg.Catalog.Timeout)

	setEnvBoolValue("STOREFRONT_SEARCH_ENABLED", &cfg.Search.Enabled)
	setEnvValue("STOREFRONT_SEARCH_API_KEY", &cfg.Search.APIKey)
	setEnvValue("STOREFRONT_SEARCH_MODEL", &cfg.Search.Model)

	setEnvValue("STOREFRONT_WHATSAPP_NUMBER", &cfg.Checkout.WhatsappNumber)
	setEnvIntValue("STOREFRONT_MAX_ORDERS", &cfg.Checkout.MaxOrders)

	setEnvValue("STOREFRONT_ADMIN_USERNAME", &cfg.Admin.Username)
	setEnvValue("STOREFRONT_ADMIN_PASSWORD", &cfg.Admin.Password)
	setEnvValue("STOREFRONT_ADMIN_PASSWORD_HASH", &cfg.Admin.PasswordHash)

	setEnvBoolValue("STOREFRONT_MAIL_ENABLED", &cfg.Mail.Enabled)
	setEnvValue("STOREFRONT_MAIL_HOST", &cfg.Mail.Host)
	setEnvIntValue("STOREFRONT_MAIL_PORT", &cfg.Mail.Port)
	setEnvValue("STOREFRONT_MAIL_USER", &cfg.Mail.User)
	setEnvValue("STOREFRONT_MAIL_PASSWORD", &cfg.Mail.Password)
	setEnvValue("STOREFRONT_MAIL_FROM", &cfg.Mail.From)
	if v := os.Getenv("STOREFRONT_MAIL_TO"); v != "" {
		cfg.Mail.To = cast.ToStringSlice(strings.ReplaceAll(v, ",", " "))
	}
}
