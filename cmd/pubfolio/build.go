package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"

	"github.com/eringen/pubfolio"
	"github.com/eringen/pubfolio/feed"
)

var outputDir string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Write sitemap.xml, robots.txt, feed.xml and search-index.json",
	Long: `build renders the site's machine-readable files into the output directory
so they can be served by a CDN or checked into a deploy.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig.site()
		cache := newCache(cfg)
		return runBuild(cfg, cache, outputDir, time.Now())
	},
}

func init() {
	buildCmd.Flags().StringVarP(&outputDir, "out", "o", "dist", "output directory")
}

func newCache(cfg pubfolio.SiteConfig) *pubfolio.SiteCache {
	return pubfolio.NewSiteCache(pubfolio.Dirs{
		Content: cfg.ContentDir,
		Pages:   cfg.PagesDir,
		Data:    cfg.DataDir,
		Static:  appConfig.StaticDir,
	}, cfg.CacheTTL, log.New("pubfolio"))
}

// runBuild writes the site files into dir. Reviews are the primary content,
// so a review that cannot be loaded fails the build before anything is
// written; the optional data files are left out with a logged error.
func runBuild(cfg pubfolio.SiteConfig, cache *pubfolio.SiteCache, dir string, now time.Time) error {
	snap := cache.Snapshot()
	if snap.ReviewsErr != nil {
		return snap.ReviewsErr
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{"sitemap.xml", func(w io.Writer) error {
			return pubfolio.WriteSitemap(w, cfg.URL, snap, now)
		}},
		{"robots.txt", func(w io.Writer) error {
			_, err := io.WriteString(w, pubfolio.RobotsTxt(cfg.URL))
			return err
		}},
		{"feed.xml", func(w io.Writer) error {
			return pubfolio.WriteRSS(w, cfg, feed.Aggregate(snap.Feed, cfg.FeedMaxTotal, cfg.FeedMaxPerType))
		}},
		{"search-index.json", func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(snap.Index)
		}},
	}
	for _, f := range files {
		if err := writeFile(filepath.Join(dir, f.name), f.write); err != nil {
			return err
		}
		log.Infof("wrote %s", filepath.Join(dir, f.name))
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
