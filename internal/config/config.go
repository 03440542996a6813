package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Search     Search     `yaml:"search"`
	Registries Registries `yaml:"registries"`
	Scoring    Scoring    `yaml:"scoring"`
	Email      Email      `yaml:"email"`
	Output     Output     `yaml:"output"`
	Server     Server     `yaml:"server"`
	Logging    Logging    `yaml:"logging"`
}

type Search struct {
	Google  GoogleConfig  `yaml:"google"`
	NewsAPI NewsAPIConfig `yaml:"newsapi"`
	Feeds   []Feed        `yaml:"feeds"`
}

type GoogleConfig struct {
	Enabled      bool   `yaml:"enabled"`
	APIKeyEnv    string `yaml:"api_key_env"`
	CSEIDEnv     string `yaml:"cse_id_env"`
	DateRestrict string `yaml:"date_restrict"`
	MaxQueries   int    `yaml:"max_queries"`
}

type NewsAPIConfig struct {
	Enabled   bool     `yaml:"enabled"`
	APIKeyEnv string   `yaml:"api_key_env"`
	Queries   []string `yaml:"queries"`
	DaysBack  int      `yaml:"days_back"`
}

type Feed struct {
	URL  string `yaml:"url"`
	Name string `yaml:"name"`
}

// Registries are the fixed, ordered term lists the scorer matches against.
// Order matters: the first fund entry found in an item's text wins.
type Registries struct {
	Funds           []string `yaml:"funds"`
	PensionGenerics []string `yaml:"pension_generics"`
	AssetClasses    []string `yaml:"asset_classes"`
	ActionKeywords  []string `yaml:"action_keywords"`
	ExcludeKeywords []string `yaml:"exclude_keywords"`
}

type Scoring struct {
	MinScore     int `yaml:"min_score"`
	CacheTTLDays int `yaml:"cache_ttl_days"`
}

type Email struct {
	Recipient   string `yaml:"recipient"`
	Sender      string `yaml:"sender"`
	SMTPHost    string `yaml:"smtp_host"`
	SMTPPort    int    `yaml:"smtp_port"`
	UserEnv     string `yaml:"user_env"`
	PasswordEnv string `yaml:"password_env"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for pensionwatch.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "pensionwatch")
}

// DataDir returns the XDG data directory for pensionwatch.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "pensionwatch")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/pensionwatch/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'pensionwatch init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults. The registry
// lists default to the built-in sets; a config that names a registry
// replaces that list wholesale.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Search: Search{
			Google: GoogleConfig{
				Enabled:      true,
				APIKeyEnv:    "GOOGLE_API_KEY",
				CSEIDEnv:     "GOOGLE_CSE_ID",
				DateRestrict: "d3",
				MaxQueries:   90,
			},
			NewsAPI: NewsAPIConfig{
				Enabled:   true,
				APIKeyEnv: "NEWSAPI_KEY",
				DaysBack:  3,
			},
		},
		Registries: Registries{
			Funds:           defaultFunds,
			PensionGenerics: defaultPensionGenerics,
			AssetClasses:    defaultAssetClasses,
			ActionKeywords:  defaultActionKeywords,
			ExcludeKeywords: defaultExcludeKeywords,
		},
		Scoring: Scoring{
			MinScore:     25,
			CacheTTLDays: 30,
		},
		Email: Email{
			SMTPHost:    "smtp.gmail.com",
			SMTPPort:    587,
			UserEnv:     "SMTP_USER",
			PasswordEnv: "SMTP_PASSWORD",
		},
		Server:  Server{Port: 8000},
		Logging: Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.Search.NewsAPI.Queries) == 0 {
		cfg.Search.NewsAPI.Queries = defaultNewsAPIQueries
	}

	return cfg, nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
