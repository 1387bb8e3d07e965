package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverSQLServer = "sqlserver"
	DriverSQLite    = "sqlite"

	ProviderEnv      = "env"
	ProviderKeyVault = "keyvault"
)

// Destination and source names used when the environment does not override them.
const (
	DefaultTable       = "TB_MODEL_RESULT"
	DefaultColumn      = "RESULT"
	DefaultInputFile   = "audio.csv"
	DefaultInputColumn = "length(audio_file@left)"
	DefaultEnvPrefix   = "SECRET_"
	DefaultLogsDir     = "logs"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

type Config struct {
	InputFile   string
	InputColumn string

	DBDriver       string
	DBTable        string
	DBColumn       string
	TimeoutSeconds int

	SecretProvider  string
	SecretEnvPrefix string
	KeyVault        KeyVaultConfig

	LogsDir        string
	FileSuccessDir string
	FileFailedDir  string

	FTP FTPConfig
}

type KeyVaultConfig struct {
	URL          string
	TenantID     string
	ClientID     string
	ClientSecret string
}

type FTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	RemoteDir string
}

// Enabled reports whether the input file should be staged from FTP.
func (c FTPConfig) Enabled() bool {
	return c.Host != ""
}

func Load() *Config {
	_ = godotenv.Load()

	timeoutSeconds, _ := strconv.Atoi(os.Getenv("TIMEOUT_SECONDS"))
	port, _ := strconv.Atoi(os.Getenv("FTP_PORT"))
	if port == 0 {
		port = 21
	}

	return &Config{
		InputFile:   envOr("INPUT_FILE", DefaultInputFile),
		InputColumn: envOr("INPUT_COLUMN", DefaultInputColumn),

		DBDriver:       strings.ToLower(envOr("DB_DRIVER", DriverSQLServer)),
		DBTable:        envOr("DB_TABLE", DefaultTable),
		DBColumn:       envOr("DB_COLUMN", DefaultColumn),
		TimeoutSeconds: timeoutSeconds,

		SecretProvider:  strings.ToLower(envOr("SECRET_PROVIDER", ProviderEnv)),
		SecretEnvPrefix: envOr("SECRET_ENV_PREFIX", DefaultEnvPrefix),
		KeyVault: KeyVaultConfig{
			URL:          os.Getenv("KEYVAULT_URL"),
			TenantID:     os.Getenv("AZURE_TENANT_ID"),
			ClientID:     os.Getenv("AZURE_CLIENT_ID"),
			ClientSecret: os.Getenv("AZURE_CLIENT_SECRET"),
		},

		LogsDir:        envOr("LOG_PATH", DefaultLogsDir),
		FileSuccessDir: os.Getenv("PROCESS_SUCCESS_DIR"),
		FileFailedDir:  os.Getenv("PROCESS_FAILED_DIR"),

		FTP: FTPConfig{
			Host:      os.Getenv("FTP_HOST"),
			Port:      port,
			Username:  os.Getenv("FTP_USERNAME"),
			Password:  os.Getenv("FTP_PASSWORD"),
			RemoteDir: os.Getenv("FTP_REMOTE_DIR"),
		},
	}
}

// Validate rejects settings that would only fail later, after side effects.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLServer, DriverSQLite:
	default:
		return fmt.Errorf("DB_DRIVER %q not supported (want %s or %s)", c.DBDriver, DriverSQLServer, DriverSQLite)
	}

	switch c.SecretProvider {
	case ProviderEnv:
	case ProviderKeyVault:
		if c.KeyVault.URL == "" {
			return fmt.Errorf("KEYVAULT_URL is required when SECRET_PROVIDER=%s", ProviderKeyVault)
		}
	default:
		return fmt.Errorf("SECRET_PROVIDER %q not supported (want %s or %s)", c.SecretProvider, ProviderEnv, ProviderKeyVault)
	}

	if !ValidIdentifier(c.DBTable) {
		return fmt.Errorf("DB_TABLE %q is not a valid identifier", c.DBTable)
	}
	if !ValidIdentifier(c.DBColumn) || strings.Contains(c.DBColumn, ".") {
		return fmt.Errorf("DB_COLUMN %q is not a valid identifier", c.DBColumn)
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("TIMEOUT_SECONDS must not be negative, got %d", c.TimeoutSeconds)
	}
	if strings.TrimSpace(c.InputFile) == "" || strings.TrimSpace(c.InputColumn) == "" {
		return fmt.Errorf("INPUT_FILE and INPUT_COLUMN must not be empty")
	}
	return nil
}

// ValidIdentifier reports whether name is a plain or schema-qualified SQL identifier.
func ValidIdentifier(name string) bool {
	return identPattern.MatchString(name)
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}
