package app

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"appstate/internal/services/session"
)

// ConfigFile is the config file name looked up under Home.
const ConfigFile = "appstate.toml"

// Environment overrides, applied after the config file.
const (
	EnvHome       = "APPSTATE_HOME"
	EnvPassphrase = "APPSTATE_PASSPHRASE"
	EnvAPIURL     = "APPSTATE_API_URL"
)

// Backend kinds accepted by [storage].
const (
	BackendFile    = "file"
	BackendKeyring = "keyring"
	BackendMemory  = "memory"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home    string         `toml:"-"` // config directory, e.g. $HOME/.appstate
	Storage StorageConfig  `toml:"storage"`
	Routes  session.Routes `toml:"routes"`
	API     APIConfig      `toml:"api"`
	Log     LogConfig      `toml:"log"`

	Passphrase string       `toml:"-"` // unlocks the secure file backend
	HTTP       *http.Client `toml:"-"` // optional; defaults to http.DefaultClient
}

type StorageConfig struct {
	Secure  string `toml:"secure"`  // file | keyring | memory
	Plain   string `toml:"plain"`   // file | memory
	Watch   bool   `toml:"watch"`   // rehydrate on out-of-band file changes
	Service string `toml:"service"` // keyring service name
}

type APIConfig struct {
	URL string `toml:"url"` // auth backend, e.g. http://127.0.0.1:8081
}

type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig(home string) *Config {
	return &Config{
		Home: home,
		Storage: StorageConfig{
			Secure:  BackendFile,
			Plain:   BackendFile,
			Service: "appstate",
		},
		Routes: session.DefaultRoutes(),
		Log:    LogConfig{Level: "info"},
	}
}

// DefaultHome returns $APPSTATE_HOME or ~/.appstate.
func DefaultHome() (string, error) {
	if h := os.Getenv(EnvHome); h != "" {
		return h, nil
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".appstate"), nil
}

// Load reads path over the defaults for home. A missing file is not an error.
func Load(home, path string) (*Config, error) {
	cfg := DefaultConfig(home)

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// LoadFromHome loads <home>/appstate.toml.
func LoadFromHome(home string) (*Config, error) {
	return Load(home, filepath.Join(home, ConfigFile))
}

func (c *Config) applyEnv() {
	if p := os.Getenv(EnvPassphrase); p != "" && c.Passphrase == "" {
		c.Passphrase = p
	}
	if u := os.Getenv(EnvAPIURL); u != "" {
		c.API.URL = u
	}
}

// Validate fills unset fields with defaults and rejects unknown values.
func (c *Config) Validate() error {
	if c.Home == "" {
		return errors.New("home directory is not set")
	}

	if c.Storage.Secure == "" {
		c.Storage.Secure = BackendFile
	}
	switch c.Storage.Secure {
	case BackendFile, BackendKeyring, BackendMemory:
	default:
		return fmt.Errorf("invalid storage.secure: %s (must be file, keyring, or memory)", c.Storage.Secure)
	}

	if c.Storage.Plain == "" {
		c.Storage.Plain = BackendFile
	}
	switch c.Storage.Plain {
	case BackendFile, BackendMemory:
	default:
		return fmt.Errorf("invalid storage.plain: %s (must be file or memory)", c.Storage.Plain)
	}

	if c.Storage.Watch && c.Storage.Plain != BackendFile {
		return errors.New("storage.watch requires storage.plain = \"file\"")
	}
	if c.Storage.Service == "" {
		c.Storage.Service = "appstate"
	}

	def := session.DefaultRoutes()
	if c.Routes.AuthArea == "" {
		c.Routes.AuthArea = def.AuthArea
	}
	if c.Routes.SignIn == "" {
		c.Routes.SignIn = def.SignIn
	}
	if c.Routes.Home == "" {
		c.Routes.Home = def.Home
	}
	if c.Routes.NotFound == "" {
		c.Routes.NotFound = def.NotFound
	}
	area := "/" + c.Routes.AuthArea
	if in := c.Routes.SignIn.String(); in != area && !strings.HasPrefix(in, area+"/") {
		return fmt.Errorf("routes.sign_in %q must be inside the %q area", c.Routes.SignIn, c.Routes.AuthArea)
	}

	c.API.URL = strings.TrimRight(c.API.URL, "/")

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	return nil
}

// PlainDir is where the plaintext file backend keeps its entries.
func (c *Config) PlainDir() string { return filepath.Join(c.Home, "prefs") }

// SecureDir is where the secure file backend keeps its entries.
func (c *Config) SecureDir() string { return filepath.Join(c.Home, "secure") }
