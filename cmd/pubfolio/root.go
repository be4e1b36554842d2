package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eringen/pubfolio"
)

// config mirrors config.yaml. Every key can be overridden with a PUBFOLIO_
// environment variable, e.g. PUBFOLIO_SITE_URL or PUBFOLIO_SESSION_SECRET.
type config struct {
	Site struct {
		Name        string `mapstructure:"name"`
		URL         string `mapstructure:"url"`
		Description string `mapstructure:"description"`
		Author      string `mapstructure:"author"`
	} `mapstructure:"site"`

	Addr       string `mapstructure:"addr"`
	ContentDir string `mapstructure:"content_dir"`
	PagesDir   string `mapstructure:"pages_dir"`
	DataDir    string `mapstructure:"data_dir"`
	StaticDir  string `mapstructure:"static_dir"`

	SessionSecret string `mapstructure:"session_secret"`
	CookieSecure  bool   `mapstructure:"cookie_secure"`

	Analytics struct {
		Enabled bool   `mapstructure:"enabled"`
		Path    string `mapstructure:"path"`
	} `mapstructure:"analytics"`

	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	Watch    bool          `mapstructure:"watch"`

	Feed struct {
		MaxTotal   int `mapstructure:"max_total"`
		MaxPerType int `mapstructure:"max_per_type"`
	} `mapstructure:"feed"`

	RelatedCount    int `mapstructure:"related_count"`
	SearchRateLimit int `mapstructure:"search_rate_limit"`
}

func (c config) site() pubfolio.SiteConfig {
	return pubfolio.SiteConfig{
		Name:                  c.Site.Name,
		URL:                   c.Site.URL,
		Description:           c.Site.Description,
		Author:                c.Site.Author,
		Addr:                  c.Addr,
		ContentDir:            c.ContentDir,
		PagesDir:              c.PagesDir,
		DataDir:               c.DataDir,
		AnalyticsEnabled:      c.Analytics.Enabled,
		AnalyticsDatabasePath: c.Analytics.Path,
		SessionSecret:         c.SessionSecret,
		CookieSecure:          c.CookieSecure,
		CacheTTL:              c.CacheTTL,
		Watch:                 c.Watch,
		FeedMaxTotal:          c.Feed.MaxTotal,
		FeedMaxPerType:        c.Feed.MaxPerType,
		RelatedCount:          c.RelatedCount,
		SearchRateLimit:       c.SearchRateLimit,
	}.WithDefaults()
}

var (
	cfgFile   string
	appConfig config
)

var rootCmd = &cobra.Command{
	Use:   "pubfolio",
	Short: "pubfolio - reviews, trips and a wedding page in one small site",
	Long: `pubfolio serves a personal site built from markdown reviews and JSON
data files: a mixed home feed, review pages and database, backpacking trips,
a wedding gallery, and fuzzy search.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.AddCommand(serveCmd, buildCmd, searchCmd, versionCmd)
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("site.name", "Folio")
	v.SetDefault("site.url", "http://localhost:3000")
	v.SetDefault("site.description", "")
	v.SetDefault("site.author", "")
	v.SetDefault("addr", ":3000")
	v.SetDefault("content_dir", "content/reviews")
	v.SetDefault("pages_dir", "content/pages")
	v.SetDefault("data_dir", "data")
	v.SetDefault("static_dir", "public")
	v.SetDefault("session_secret", "")
	v.SetDefault("cookie_secure", false)
	v.SetDefault("analytics.enabled", false)
	v.SetDefault("analytics.path", "data/analytics.db")
	v.SetDefault("cache_ttl", "5m")
	v.SetDefault("watch", false)
	v.SetDefault("feed.max_total", 10)
	v.SetDefault("feed.max_per_type", 4)
	v.SetDefault("related_count", 3)
	v.SetDefault("search_rate_limit", 60)

	v.SetEnvPrefix("PUBFOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func initializeConfig(_ *cobra.Command) error {
	v := newViper()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return fmt.Errorf("read config: %w", err)
		}
		log.Info("no config file found, using defaults and environment")
	} else {
		log.Infof("using config file %s", v.ConfigFileUsed())
	}

	if err := v.Unmarshal(&appConfig); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}
