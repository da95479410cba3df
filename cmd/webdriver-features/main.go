// Binary webdriver-features runs Gherkin feature files against a browser
// profile using the built-in step definitions.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cucumber/godog"
	"github.com/cucumber/godog/colors"
	"github.com/golang/glog"
	"github.com/spf13/cobra"

	webdriver "github.com/wanmail/godog-webdriver"
	"github.com/wanmail/godog-webdriver/profile"
)

type featuresDeps struct {
	open func(config, browser string) (*profile.Driver, error)
}

type featuresFlags struct {
	config      string
	browser     string
	baseURL     string
	format      string
	tags        string
	screenshots string
	timeout     time.Duration
	strict      bool
	noColors    bool
}

func newFeaturesCommand(deps featuresDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "webdriver-features [paths...]",
		Short:        "Run feature files in a browser",
		Long:         "webdriver-features runs Gherkin feature files against the browser profile selected by --browser or $WEBDRIVER.",
		SilenceUsage: true,
	}
	flags := &featuresFlags{}

	f := cmd.Flags()
	f.StringVar(&flags.config, "config", "browsers.yaml", "Path to the browser profiles file")
	f.StringVar(&flags.browser, "browser", "firefox", "Profile to use when $WEBDRIVER is not set")
	f.StringVar(&flags.baseURL, "base-url", "", "URL that relative paths in steps are resolved against")
	f.StringVar(&flags.format, "format", "pretty", "Formatter name (pretty, progress, cucumber, junit, events)")
	f.StringVar(&flags.tags, "tags", "", "Tag expression selecting the scenarios to run")
	f.StringVar(&flags.screenshots, "screenshots", "", "Directory receiving a screenshot of every failed scenario")
	f.DurationVar(&flags.timeout, "timeout", webdriver.DefaultTimeout, "Default wait for elements to appear")
	f.BoolVar(&flags.strict, "strict", false, "Fail on pending or undefined steps")
	f.BoolVar(&flags.noColors, "no-colors", false, "Disable colored output")
	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{"features"}
		}
		return runFeatures(cmd.OutOrStdout(), deps, flags, args)
	}
	return cmd
}

func runFeatures(out io.Writer, deps featuresDeps, flags *featuresFlags, paths []string) error {
	d, err := deps.open(flags.config, flags.browser)
	if err != nil {
		return err
	}
	defer func() {
		if err := d.Quit(); err != nil {
			glog.Warningf("Error quitting %s session: %v", d.Profile.Name, err)
		}
	}()

	opts := []webdriver.Option{webdriver.Timeout(flags.timeout)}
	if flags.baseURL != "" {
		opts = append(opts, webdriver.BaseURL(flags.baseURL))
	}
	if flags.screenshots != "" {
		opts = append(opts, webdriver.ScreenshotDir(flags.screenshots))
	}
	b, err := webdriver.New(d, opts...)
	if err != nil {
		return err
	}

	if !flags.noColors {
		out = colors.Colored(out)
	}
	suite := godog.TestSuite{
		Name:                d.Profile.Name,
		ScenarioInitializer: b.InitializeScenario,
		Options: &godog.Options{
			Format: flags.format,
			Paths:  paths,
			Tags:   flags.tags,
			Strict: flags.strict,
			Output: out,
		},
	}
	if status := suite.Run(); status != 0 {
		return fmt.Errorf("features failed in profile %q (status %d)", d.Profile.Name, status)
	}
	return nil
}

func main() {
	cmd := newFeaturesCommand(featuresDeps{open: profile.Open})
	err := cmd.Execute()
	glog.Flush()
	if err != nil {
		os.Exit(1)
	}
}
