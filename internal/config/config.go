// Package config loads the prompt store settings from defaults, an optional
// JSON file, command-line flags and environment variables, in that order of
// increasing priority.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Duration is a time.Duration written as "10s" in both JSON and env.
type Duration time.Duration

// SetValue implements cleanenv.Setter.
func (d *Duration) SetValue(s string) error {
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return d.SetValue(s)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Options holds the configuration values for the application.
type Options struct {
	// ServerAddress is the ip:port the HTTP server listens on.
	ServerAddress string `json:"server_address" env:"SERVER_ADDRESS"`

	// DatabaseDSN selects the PostgreSQL backend when set.
	DatabaseDSN string `json:"database_dsn" env:"DATABASE_DSN"`

	// FileStoragePath selects the file backend when set.
	FileStoragePath string `json:"file_storage_path" env:"FILE_STORAGE_PATH"`

	// Cosmos settings select the Cosmos DB backend when either a connection
	// string or an endpoint and key are present.
	CosmosConnectionString string `json:"cosmos_connection_string" env:"COSMOS_CONNECTION_STRING"`
	CosmosEndpoint         string `json:"cosmos_endpoint" env:"COSMOS_ENDPOINT"`
	CosmosKey              string `json:"cosmos_key" env:"COSMOS_KEY"`
	CosmosDatabase         string `json:"cosmos_database" env:"COSMOS_DATABASE"`
	CosmosContainer        string `json:"cosmos_container" env:"COSMOS_CONTAINER"`

	// JWTSecret signs identity tokens.
	JWTSecret string `json:"jwt_secret" env:"JWT_SECRET"`

	// SessionKey must accompany token requests. Token issuance is disabled
	// while it is empty.
	SessionKey string `json:"session_key" env:"SESSION_KEY"`

	LogLevel string `json:"log_level" env:"LOG_LEVEL"`

	// EnableHTTPS serves TLS on :443 with certificates from Let's Encrypt
	// for TLSHosts.
	EnableHTTPS bool     `json:"enable_https" env:"ENABLE_HTTPS"`
	TLSHosts    []string `json:"tls_hosts" env:"TLS_HOSTS" env-separator:","`

	// OptimisticConcurrency makes updates fail on concurrent modification
	// instead of overwriting.
	OptimisticConcurrency bool `json:"optimistic_concurrency" env:"OPTIMISTIC_CONCURRENCY"`

	// DeleteFlushInterval is how often queued batch deletes are applied.
	DeleteFlushInterval Duration `json:"delete_flush_interval" env:"DELETE_FLUSH_INTERVAL"`

	// Config is the path of the JSON configuration file.
	Config string `json:"-" env:"CONFIG"`
}

// ErrMissingSecret is returned when no JWT secret is configured.
var ErrMissingSecret = errors.New("jwt secret must be set")

func defaults() Options {
	return Options{
		ServerAddress:       "localhost:8080",
		CosmosDatabase:      "chat",
		CosmosContainer:     "prompts",
		LogLevel:            "info",
		DeleteFlushInterval: Duration(10 * time.Second),
	}
}

// Parse reads the process arguments and environment.
func Parse() (*Options, error) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs is Parse with explicit arguments.
func ParseArgs(args []string) (*Options, error) {
	opts := defaults()

	var (
		flagged  = defaults()
		hosts    string
		interval time.Duration
	)

	fs := flag.NewFlagSet("promptstore", flag.ContinueOnError)
	fs.StringVar(&flagged.Config, "c", "", "path to JSON config file")
	fs.StringVar(&flagged.ServerAddress, "a", flagged.ServerAddress, "run on ip:port server")
	fs.StringVar(&flagged.DatabaseDSN, "d", "", "PostgreSQL DSN")
	fs.StringVar(&flagged.FileStoragePath, "f", "", "path to storage file")
	fs.StringVar(&flagged.CosmosConnectionString, "cosmos", "", "Cosmos DB connection string")
	fs.StringVar(&flagged.CosmosDatabase, "cosmos-db", flagged.CosmosDatabase, "Cosmos DB database")
	fs.StringVar(&flagged.CosmosContainer, "cosmos-container", flagged.CosmosContainer, "Cosmos DB container")
	fs.StringVar(&flagged.JWTSecret, "k", "", "JWT signing secret")
	fs.StringVar(&flagged.SessionKey, "session-key", "", "key required to issue tokens")
	fs.StringVar(&flagged.LogLevel, "l", flagged.LogLevel, "log level")
	fs.BoolVar(&flagged.EnableHTTPS, "s", false, "enable https")
	fs.StringVar(&hosts, "tls-hosts", "", "comma separated hosts for autocert")
	fs.BoolVar(&flagged.OptimisticConcurrency, "occ", false, "reject concurrent updates")
	fs.DurationVar(&interval, "delete-interval", time.Duration(flagged.DeleteFlushInterval), "batch delete flush interval")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfgPath := flagged.Config
	if env := os.Getenv("CONFIG"); env != "" {
		cfgPath = env
	}
	if cfgPath != "" {
		if err := readJSON(cfgPath, &opts); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", cfgPath, err)
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "c":
			opts.Config = flagged.Config
		case "a":
			opts.ServerAddress = flagged.ServerAddress
		case "d":
			opts.DatabaseDSN = flagged.DatabaseDSN
		case "f":
			opts.FileStoragePath = flagged.FileStoragePath
		case "cosmos":
			opts.CosmosConnectionString = flagged.CosmosConnectionString
		case "cosmos-db":
			opts.CosmosDatabase = flagged.CosmosDatabase
		case "cosmos-container":
			opts.CosmosContainer = flagged.CosmosContainer
		case "k":
			opts.JWTSecret = flagged.JWTSecret
		case "session-key":
			opts.SessionKey = flagged.SessionKey
		case "l":
			opts.LogLevel = flagged.LogLevel
		case "s":
			opts.EnableHTTPS = flagged.EnableHTTPS
		case "tls-hosts":
			opts.TLSHosts = strings.Split(hosts, ",")
		case "occ":
			opts.OptimisticConcurrency = flagged.OptimisticConcurrency
		case "delete-interval":
			opts.DeleteFlushInterval = Duration(interval)
		}
	})

	if err := cleanenv.ReadEnv(&opts); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	opts.Config = cfgPath

	if opts.JWTSecret == "" {
		return nil, ErrMissingSecret
	}

	return &opts, nil
}

// readJSON overlays the file onto opts. Keys absent from the file keep
// their current values.
func readJSON(path string, opts *Options) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewDecoder(f).Decode(opts)
}

// Usage prints the environment variables understood by Parse.
func Usage() (string, error) {
	var opts Options
	return cleanenv.GetDescription(&opts, nil)
}
