package settings

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Givikap120/ppv2/app/logger"
	"github.com/Givikap120/ppv2/app/rulesets/api"
)

const DefaultDifficultyURL = "https://osu.lea.moe"

type APIConfig struct {
	ClientID     string        `yaml:"client_id"`
	ClientSecret string        `yaml:"client_secret"`
	BaseURL      string        `yaml:"base_url"`
	TokenURL     string        `yaml:"token_url"`
	Timeout      time.Duration `yaml:"timeout"`
}

type DifficultyConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`

	// CacheDriver is "sqlite3" or "postgres". An empty CacheDSN disables the cache.
	CacheDriver string        `yaml:"cache_driver"`
	CacheDSN    string        `yaml:"cache_dsn"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`
}

type PerformanceConfig struct {
	Version string `yaml:"version"`
	Workers int    `yaml:"workers"`
}

type Settings struct {
	Logging     logger.Config     `yaml:"logging"`
	API         APIConfig         `yaml:"api"`
	Difficulty  DifficultyConfig  `yaml:"difficulty"`
	Performance PerformanceConfig `yaml:"performance"`
}

func Default() Settings {
	return Settings{
		Logging: logger.DefaultConfig(),
		API: APIConfig{
			BaseURL:  "https://osu.ppy.sh",
			TokenURL: "https://osu.ppy.sh/oauth/token",
			Timeout:  15 * time.Second,
		},
		Difficulty: DifficultyConfig{
			URL:         DefaultDifficultyURL,
			Timeout:     15 * time.Second,
			CacheDriver: "sqlite3",
			CacheTTL:    7 * 24 * time.Hour,
		},
		Performance: PerformanceConfig{
			Version: api.Revised.String(),
			Workers: 4,
		},
	}
}

// Load reads a YAML file over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (Settings, error) {
	s := Default()

	if path != "" {
		data, err := os.ReadFile(path)

		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return s, fmt.Errorf("settings: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &s); err != nil {
				return s, fmt.Errorf("settings: parse %s: %w", path, err)
			}
		}
	}

	s.applyEnv()

	if _, err := s.FormulaVersion(); err != nil {
		return s, fmt.Errorf("settings: %w", err)
	}

	if s.Performance.Workers < 1 {
		s.Performance.Workers = 1
	}

	return s, nil
}

func (s *Settings) applyEnv() {
	overrides := map[string]*string{
		"OSU_CLIENT_ID":       &s.API.ClientID,
		"OSU_CLIENT_SECRET":   &s.API.ClientSecret,
		"PPV2_DIFFICULTY_URL": &s.Difficulty.URL,
		"PPV2_CACHE_DSN":      &s.Difficulty.CacheDSN,
		"PPV2_VERSION":        &s.Performance.Version,
		"LOG_LEVEL":           &s.Logging.Level,
	}

	for key, target := range overrides {
		if value := os.Getenv(key); value != "" {
			*target = value
		}
	}
}

func (s Settings) FormulaVersion() (api.Version, error) {
	return api.ParseVersion(s.Performance.Version)
}

// Save writes the settings as YAML, used by `ppcalc config` to bootstrap a file.
func (s Settings) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}
