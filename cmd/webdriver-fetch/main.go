// Binary webdriver-fetch downloads the WebDriver binaries, and optionally
// the browsers, needed to run feature files against a local browser.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"cloud.google.com/go/storage"
	"github.com/golang/glog"
	"github.com/google/go-github/v27/github"
	"github.com/spf13/cobra"
	"google.golang.org/api/option"

	"github.com/wanmail/godog-webdriver/internal/fetch"
)

type fetchFlags struct {
	dir      string
	chrome   bool
	firefox  bool
	selenium bool
	sauce    bool
	browsers bool
	latest   bool
}

// sources finds the files to download. Tests replace it to avoid the
// network.
type sources struct {
	chrome      func(ctx context.Context, build string) ([]fetch.File, error)
	geckodriver func(ctx context.Context) (fetch.File, error)
}

func realSources() sources {
	return sources{
		chrome: func(ctx context.Context, build string) ([]fetch.File, error) {
			client, err := storage.NewClient(ctx, option.WithHTTPClient(http.DefaultClient))
			if err != nil {
				return nil, fmt.Errorf("cannot create a storage client for downloading chrome: %w", err)
			}
			defer client.Close()
			return fetch.Chrome(ctx, client, build)
		},
		geckodriver: func(ctx context.Context) (fetch.File, error) {
			return fetch.LatestGeckoDriver(ctx, github.NewClient(nil))
		},
	}
}

func newFetchCommand(src sources, client *http.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "webdriver-fetch",
		Short:        "Download WebDriver binaries",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}
	flags := &fetchFlags{}

	f := cmd.Flags()
	f.StringVar(&flags.dir, "dir", "drivers", "Directory receiving the files")
	f.BoolVar(&flags.chrome, "chrome", true, "Download chromedriver")
	f.BoolVar(&flags.firefox, "firefox", true, "Download geckodriver")
	f.BoolVar(&flags.selenium, "selenium", true, "Download the standalone Selenium server")
	f.BoolVar(&flags.sauce, "sauce-connect", false, "Download the Sauce Connect Proxy")
	f.BoolVar(&flags.browsers, "browsers", false, "Also download Chromium and Firefox")
	f.BoolVar(&flags.latest, "latest", false, "Download the latest releases instead of the known versions")
	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		files, err := flags.files(ctx, src)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(flags.dir, 0755); err != nil {
			return err
		}
		fetcher := &fetch.Fetcher{Dir: flags.dir, Client: client, SkipBrowsers: !flags.browsers}
		return fetcher.FetchAll(ctx, files)
	}
	return cmd
}

func (flags *fetchFlags) files(ctx context.Context, src sources) ([]fetch.File, error) {
	var files []fetch.File
	if flags.selenium {
		files = append(files, fetch.SeleniumFile)
	}
	if flags.chrome {
		switch {
		case flags.latest || flags.browsers:
			build := fetch.ChromeBuild
			if flags.latest {
				build = ""
			}
			chrome, err := src.chrome(ctx, build)
			if err != nil {
				return nil, err
			}
			files = append(files, chrome...)
		default:
			files = append(files, fetch.ChromeDriverFile)
		}
	}
	if flags.firefox {
		if flags.latest {
			gd, err := src.geckodriver(ctx)
			if err != nil {
				return nil, err
			}
			files = append(files, gd)
			files = append(files, fetch.FirefoxFile(""))
		} else {
			files = append(files, fetch.GeckoDriverFile, fetch.FirefoxFile(fetch.FirefoxVersion))
		}
	}
	if flags.sauce {
		files = append(files, fetch.SauceConnectFile)
	}
	return files, nil
}

func main() {
	cmd := newFetchCommand(realSources(), http.DefaultClient)
	err := cmd.Execute()
	glog.Flush()
	if err != nil {
		os.Exit(1)
	}
}
