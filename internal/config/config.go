package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const envPrefix = "RESOLVER_"

type LogConfig struct {
	Level  string
	Format string
}

type CinemetaConfig struct {
	BaseURL string
}

type HTTPConfig struct {
	UserAgent      string
	RetryAttempts  int
	RetryDelay     time.Duration
	Timeout        time.Duration
	StoreRateLimit float64
	StoreRateBurst int
}

type DSearchConfig struct {
	MatchThreshold    float64
	LinkSecret        string
	ResolveRateLimit  int
	ResolveRateWindow time.Duration
	CatalogPageSize   int
}

var (
	Environment string
	ListenAddr  string
	BaseURL     *url.URL
	Log         LogConfig
	Cinemeta    CinemetaConfig
	HTTP        HTTPConfig
	DSearch     DSearchConfig
)

type values struct {
	environment string
	listenAddr  string
	baseURL     string
	log         LogConfig
	cinemeta    CinemetaConfig
	http        HTTPConfig
	dsearch     DSearchConfig
}

func defaults() values {
	return values{
		environment: "prod",
		listenAddr:  ":7000",
		baseURL:     "http://localhost:7000",
		log:         LogConfig{Level: "info", Format: "auto"},
		cinemeta:    CinemetaConfig{BaseURL: "https://v3-cinemeta.strem.io"},
		http: HTTPConfig{
			UserAgent:      "resolver",
			RetryAttempts:  5,
			RetryDelay:     1 * time.Second,
			Timeout:        5 * time.Second,
			StoreRateLimit: 4,
			StoreRateBurst: 8,
		},
		dsearch: DSearchConfig{
			MatchThreshold:    0.3,
			ResolveRateLimit:  30,
			ResolveRateWindow: 1 * time.Minute,
			CatalogPageSize:   50,
		},
	}
}

type fileValues struct {
	Environment *string `toml:"environment"`
	ListenAddr  *string `toml:"listen_addr"`
	BaseURL     *string `toml:"base_url"`
	Log         struct {
		Level  *string `toml:"level"`
		Format *string `toml:"format"`
	} `toml:"log"`
	Cinemeta struct {
		BaseURL *string `toml:"base_url"`
	} `toml:"cinemeta"`
	HTTP struct {
		UserAgent      *string  `toml:"user_agent"`
		RetryAttempts  *int     `toml:"retry_attempts"`
		RetryDelay     *string  `toml:"retry_delay"`
		Timeout        *string  `toml:"timeout"`
		StoreRateLimit *float64 `toml:"store_rate_limit"`
		StoreRateBurst *int     `toml:"store_rate_burst"`
	} `toml:"http"`
	DSearch struct {
		MatchThreshold    *float64 `toml:"match_threshold"`
		LinkSecret        *string  `toml:"link_secret"`
		ResolveRateLimit  *int     `toml:"resolve_rate_limit"`
		ResolveRateWindow *string  `toml:"resolve_rate_window"`
		CatalogPageSize   *int     `toml:"catalog_page_size"`
	} `toml:"dsearch"`
}

func setIfPresent[T any](target *T, value *T) {
	if value != nil {
		*target = *value
	}
}

func setDurationIfPresent(target *time.Duration, value *string, key string) error {
	if value == nil {
		return nil
	}
	d, err := time.ParseDuration(*value)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*target = d
	return nil
}

func (fv *fileValues) apply(v *values) error {
	setIfPresent(&v.environment, fv.Environment)
	setIfPresent(&v.listenAddr, fv.ListenAddr)
	setIfPresent(&v.baseURL, fv.BaseURL)
	setIfPresent(&v.log.Level, fv.Log.Level)
	setIfPresent(&v.log.Format, fv.Log.Format)
	setIfPresent(&v.cinemeta.BaseURL, fv.Cinemeta.BaseURL)
	setIfPresent(&v.http.UserAgent, fv.HTTP.UserAgent)
	setIfPresent(&v.http.RetryAttempts, fv.HTTP.RetryAttempts)
	setIfPresent(&v.http.StoreRateLimit, fv.HTTP.StoreRateLimit)
	setIfPresent(&v.http.StoreRateBurst, fv.HTTP.StoreRateBurst)
	setIfPresent(&v.dsearch.MatchThreshold, fv.DSearch.MatchThreshold)
	setIfPresent(&v.dsearch.LinkSecret, fv.DSearch.LinkSecret)
	setIfPresent(&v.dsearch.ResolveRateLimit, fv.DSearch.ResolveRateLimit)
	setIfPresent(&v.dsearch.CatalogPageSize, fv.DSearch.CatalogPageSize)
	return errors.Join(
		setDurationIfPresent(&v.http.RetryDelay, fv.HTTP.RetryDelay, "http.retry_delay"),
		setDurationIfPresent(&v.http.Timeout, fv.HTTP.Timeout, "http.timeout"),
		setDurationIfPresent(&v.dsearch.ResolveRateWindow, fv.DSearch.ResolveRateWindow, "dsearch.resolve_rate_window"),
	)
}

type envReader struct {
	errs []error
}

func (er *envReader) lookup(key string) (string, bool) {
	value, ok := os.LookupEnv(envPrefix + key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

func (er *envReader) string(target *string, key string) {
	if value, ok := er.lookup(key); ok {
		*target = value
	}
}

func (er *envReader) int(target *int, key string) {
	if value, ok := er.lookup(key); ok {
		n, err := strconv.Atoi(value)
		if err != nil {
			er.errs = append(er.errs, fmt.Errorf("invalid %s%s: %w", envPrefix, key, err))
			return
		}
		*target = n
	}
}

func (er *envReader) float(target *float64, key string) {
	if value, ok := er.lookup(key); ok {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			er.errs = append(er.errs, fmt.Errorf("invalid %s%s: %w", envPrefix, key, err))
			return
		}
		*target = f
	}
}

func (er *envReader) duration(target *time.Duration, key string) {
	if value, ok := er.lookup(key); ok {
		d, err := time.ParseDuration(value)
		if err != nil {
			er.errs = append(er.errs, fmt.Errorf("invalid %s%s: %w", envPrefix, key, err))
			return
		}
		*target = d
	}
}

func applyEnv(v *values) error {
	er := &envReader{}
	er.string(&v.environment, "ENV")
	er.string(&v.listenAddr, "LISTEN_ADDR")
	er.string(&v.baseURL, "BASE_URL")
	er.string(&v.log.Level, "LOG_LEVEL")
	er.string(&v.log.Format, "LOG_FORMAT")
	er.string(&v.cinemeta.BaseURL, "CINEMETA_BASE_URL")
	er.string(&v.http.UserAgent, "HTTP_USER_AGENT")
	er.int(&v.http.RetryAttempts, "HTTP_RETRY_ATTEMPTS")
	er.duration(&v.http.RetryDelay, "HTTP_RETRY_DELAY")
	er.duration(&v.http.Timeout, "HTTP_TIMEOUT")
	er.float(&v.http.StoreRateLimit, "HTTP_STORE_RATE_LIMIT")
	er.int(&v.http.StoreRateBurst, "HTTP_STORE_RATE_BURST")
	er.float(&v.dsearch.MatchThreshold, "DSEARCH_MATCH_THRESHOLD")
	er.string(&v.dsearch.LinkSecret, "DSEARCH_LINK_SECRET")
	er.int(&v.dsearch.ResolveRateLimit, "DSEARCH_RESOLVE_RATE_LIMIT")
	er.duration(&v.dsearch.ResolveRateWindow, "DSEARCH_RESOLVE_RATE_WINDOW")
	er.int(&v.dsearch.CatalogPageSize, "DSEARCH_CATALOG_PAGE_SIZE")
	return errors.Join(er.errs...)
}

func (v *values) validate() (*url.URL, error) {
	var errs []error
	baseURL, err := url.Parse(strings.TrimSuffix(v.baseURL, "/"))
	if err != nil || baseURL.Scheme == "" || baseURL.Host == "" {
		errs = append(errs, fmt.Errorf("invalid base url: %q", v.baseURL))
	}
	if v.http.RetryAttempts < 1 {
		errs = append(errs, errors.New("http retry attempts must be at least 1"))
	}
	if v.http.Timeout <= 0 {
		errs = append(errs, errors.New("http timeout must be positive"))
	}
	if v.dsearch.MatchThreshold < 0 || v.dsearch.MatchThreshold > 1 {
		errs = append(errs, fmt.Errorf("match threshold must be within [0, 1]: %v", v.dsearch.MatchThreshold))
	}
	if v.dsearch.CatalogPageSize < 1 {
		errs = append(errs, errors.New("catalog page size must be at least 1"))
	}
	switch v.log.Format {
	case "auto", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid log format: %q", v.log.Format))
	}
	return baseURL, errors.Join(errs...)
}

// Load resets the configuration to defaults, overlays the TOML file at path
// (if not empty) and then the RESOLVER_* environment variables.
func Load(path string) error {
	v := defaults()

	if path != "" {
		blob, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		fv := fileValues{}
		if err := toml.Unmarshal(blob, &fv); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		if err := fv.apply(&v); err != nil {
			return err
		}
	}

	if err := applyEnv(&v); err != nil {
		return err
	}

	baseURL, err := v.validate()
	if err != nil {
		return err
	}

	if v.dsearch.LinkSecret == "" {
		v.dsearch.LinkSecret = generateLinkSecret()
	}

	Environment = v.environment
	ListenAddr = v.listenAddr
	BaseURL = baseURL
	Log = v.log
	Cinemeta = v.cinemeta
	HTTP = v.http
	DSearch = v.dsearch
	return nil
}

func IsDev() bool {
	return Environment == "dev"
}

func init() {
	if err := Load(""); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v, falling back to defaults\n", err)
		v := defaults()
		baseURL, _ := v.validate()
		Environment, ListenAddr, BaseURL = v.environment, v.listenAddr, baseURL
		Log, Cinemeta, HTTP, DSearch = v.log, v.cinemeta, v.http, v.dsearch
		DSearch.LinkSecret = generateLinkSecret()
	}
}
