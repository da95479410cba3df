package webdriver

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/golang/glog"
	"github.com/tebeka/selenium"
)

const (
	// DefaultTimeout is how long timed steps wait when the sentence does not
	// name a number of seconds.
	DefaultTimeout = 15 * time.Second
	// DefaultInterval is the delay between two evaluations of a wait
	// condition.
	DefaultInterval = 200 * time.Millisecond
)

// disableBeforeUnload removes jQuery beforeunload handlers so that the next
// scenario is free to navigate away from the page.
const disableBeforeUnload = `
try {
    $(window).off('beforeunload');
} catch (e) {
}
`

// Option configures a Browser instance.
type Option func(*Browser) error

// Timeout sets the default wait used by steps that poll the page.
func Timeout(d time.Duration) Option {
	return func(b *Browser) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %v", d)
		}
		b.timeout = d
		return nil
	}
}

// Interval sets the polling interval used while waiting for the page.
func Interval(d time.Duration) Option {
	return func(b *Browser) error {
		if d <= 0 {
			return fmt.Errorf("interval must be positive, got %v", d)
		}
		b.interval = d
		return nil
	}
}

// BaseURL makes visit steps resolve relative URLs against base.
func BaseURL(base string) Option {
	return func(b *Browser) error {
		u, err := url.Parse(base)
		if err != nil {
			return fmt.Errorf("failed to parse base URL %q: %w", base, err)
		}
		if !u.IsAbs() {
			return fmt.Errorf("base URL %q must be absolute", base)
		}
		b.base = u
		return nil
	}
}

// ScreenshotDir causes a screenshot of the browser window to be written to
// dir whenever a scenario fails.
func ScreenshotDir(dir string) Option {
	return func(b *Browser) error {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
		b.screenshotDir = dir
		return nil
	}
}

// KeepBeforeUnload leaves beforeunload handlers in place between scenarios.
func KeepBeforeUnload() Option {
	return func(b *Browser) error {
		b.keepBeforeUnload = true
		return nil
	}
}

// Browser binds the step catalog to a single WebDriver session. Scenarios
// are expected to run one at a time against it.
type Browser struct {
	wd selenium.WebDriver

	timeout, interval time.Duration
	base              *url.URL
	screenshotDir     string
	keepBeforeUnload  bool

	// shots counts the screenshots saved per file name.
	shots map[string]int
}

// New returns a Browser driving wd.
func New(wd selenium.WebDriver, opts ...Option) (*Browser, error) {
	if wd == nil {
		return nil, errors.New("webdriver: nil WebDriver")
	}
	b := &Browser{
		wd:       wd,
		timeout:  DefaultTimeout,
		interval: DefaultInterval,
		shots:    make(map[string]int),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// WebDriver returns the driver the steps are executed against.
func (b *Browser) WebDriver() selenium.WebDriver {
	return b.wd
}

// InitializeScenario registers the step catalog and the after-scenario
// cleanup on sc. It has the signature expected by
// godog.TestSuite.ScenarioInitializer.
func (b *Browser) InitializeScenario(sc *godog.ScenarioContext) {
	for _, s := range b.steps() {
		sc.Step(s.expr, s.fn)
	}
	sc.After(b.afterScenario)
}

func (b *Browser) afterScenario(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
	if err != nil && b.screenshotDir != "" {
		if serr := b.saveScreenshot(sc.Name); serr != nil {
			glog.Warningf("Unable to save screenshot for scenario %q: %v", sc.Name, serr)
		}
	}
	if !b.keepBeforeUnload {
		if _, serr := b.wd.ExecuteScript(disableBeforeUnload, nil); serr != nil {
			glog.Warningf("Unable to disable beforeunload handlers: %v", serr)
		}
	}
	return ctx, nil
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func (b *Browser) saveScreenshot(scenario string) error {
	buf, err := b.wd.Screenshot()
	if err != nil {
		return err
	}
	name := strings.Trim(unsafeFileChars.ReplaceAllString(scenario, "_"), "_")
	if name == "" {
		name = "scenario"
	}
	// Outline examples share the scenario name.
	b.shots[name]++
	if n := b.shots[name]; n > 1 {
		name = fmt.Sprintf("%s_%d", name, n)
	}
	path := filepath.Join(b.screenshotDir, name+".png")
	glog.Infof("Saving screenshot of failed scenario to %q", path)
	return os.WriteFile(path, buf, 0644)
}

// resolve returns ref relative to the base URL, if one was configured.
func (b *Browser) resolve(ref string) (string, error) {
	if b.base == nil {
		return ref, nil
	}
	u, err := b.base.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL %q: %w", ref, err)
	}
	return u.String(), nil
}

// wait polls cond for at most timeout.
func (b *Browser) wait(timeout time.Duration, cond Condition) error {
	return Poll(context.Background(), timeout, b.interval, cond)
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
