// Package profile opens WebDriver sessions described by named browser
// profiles in a YAML file.
//
// A profile file maps names to browser settings:
//
//	firefox:
//	  webdriver: firefox
//	  firefox:
//	    headless: true
//	  timeouts:
//	    implicit: 2s
//
//	grid-chrome:
//	  webdriver: chrome
//	  remote: true
//	  host: selenium.internal
//	  capabilities:
//	    platform: LINUX
//
// The WEBDRIVER environment variable picks the profile, and WEBDRIVER_HUB or
// WEBDRIVER_HOST redirect remote profiles to another Selenium hub.
package profile

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/blang/semver"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"
	slog "github.com/tebeka/selenium/log"
	"github.com/tebeka/selenium/sauce"
	"gopkg.in/yaml.v3"
)

// ConfigError reports an invalid or incomplete profile file.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return e.Msg
}

func configErrorf(format string, args ...interface{}) error {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// Config is the content of a profile file, keyed by profile name.
type Config map[string]*Profile

// Profile describes how to open one browser.
type Profile struct {
	// Name is the key of the profile in its file.
	Name string `yaml:"-"`

	// WebDriver is the browser type: firefox, chrome, ie, edge, safari,
	// opera, phantomjs, htmlunit or htmlunitwithjs.
	WebDriver string `yaml:"webdriver"`

	// Remote selects a Selenium hub instead of a driver started locally.
	Remote          bool   `yaml:"remote"`
	HubURL          string `yaml:"hub"`
	Host            string `yaml:"host"`
	CommandExecutor string `yaml:"command_executor"`

	// ExtraCapabilities are merged over the capabilities built from the
	// other settings.
	ExtraCapabilities map[string]interface{} `yaml:"capabilities"`

	Chrome  *ChromeOptions  `yaml:"chrome"`
	Firefox *FirefoxOptions `yaml:"firefox"`
	// Logging maps a log type (browser, driver, ...) to a level.
	Logging map[string]string `yaml:"logging"`
	Proxy   *Proxy            `yaml:"proxy"`
	Sauce   *Sauce            `yaml:"sauce"`

	SeleniumVersion string `yaml:"selenium_version"`

	Timeouts Timeouts      `yaml:"timeouts"`
	Driver   DriverOptions `yaml:"driver"`
}

// ChromeOptions are passed to Chrome as goog:chromeOptions.
type ChromeOptions struct {
	Binary     string   `yaml:"binary"`
	Args       []string `yaml:"args"`
	Headless   bool     `yaml:"headless"`
	Extensions []string `yaml:"extensions"`
}

// FirefoxOptions are passed to Firefox as moz:firefoxOptions.
type FirefoxOptions struct {
	Binary   string                 `yaml:"binary"`
	Args     []string               `yaml:"args"`
	Prefs    map[string]interface{} `yaml:"prefs"`
	Headless bool                   `yaml:"headless"`
	// Profile is a directory holding a Firefox profile to start from.
	Profile  string `yaml:"profile"`
	LogLevel string `yaml:"log_level"`
}

// Proxy configures the proxy used by the browser.
type Proxy struct {
	Type          string   `yaml:"type"`
	AutoconfigURL string   `yaml:"autoconfig_url"`
	HTTP          string   `yaml:"http"`
	SSL           string   `yaml:"ssl"`
	SOCKS         string   `yaml:"socks"`
	SOCKSVersion  int      `yaml:"socks_version"`
	NoProxy       []string `yaml:"no_proxy"`
}

// Sauce holds the Sauce Labs job settings of a remote profile.
type Sauce struct {
	Browser  string   `yaml:"browser"`
	Version  string   `yaml:"version"`
	Platform string   `yaml:"platform"`
	Name     string   `yaml:"name"`
	Build    string   `yaml:"build"`
	Tags     []string `yaml:"tags"`

	// Connect starts a Sauce Connect tunnel and routes the session through it.
	Connect *SauceConnect `yaml:"connect"`
}

// SauceConnect configures the Sauce Connect Proxy binary.
type SauceConnect struct {
	// Path defaults to sc in the driver directory or on the PATH.
	Path    string   `yaml:"path"`
	Port    int      `yaml:"port"`
	Tunnel  string   `yaml:"tunnel"`
	LogFile string   `yaml:"log_file"`
	Args    []string `yaml:"args"`
}

// Timeouts are applied to the session once it is open.
type Timeouts struct {
	Implicit time.Duration `yaml:"implicit"`
	PageLoad time.Duration `yaml:"page_load"`
	Script   time.Duration `yaml:"script"`
}

// DriverOptions configure the driver process started for local profiles.
type DriverOptions struct {
	// Path to chromedriver or geckodriver. When empty, Dir and then the PATH
	// are searched.
	Path string `yaml:"path"`
	// Dir is searched for driver binaries, newest version first.
	Dir string `yaml:"dir"`
	// SeleniumJar starts a Selenium server instead of the bare driver.
	SeleniumJar string `yaml:"selenium_jar"`
	JavaPath    string `yaml:"java_path"`
	Port        int    `yaml:"port"`
	FrameBuffer bool   `yaml:"frame_buffer"`
	// Output receives the driver logs: "stdout", "stderr" or a file name.
	Output string `yaml:"output"`
}

// Load reads the profile file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a profile file.
func Parse(data []byte) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	for name, p := range c {
		if p == nil {
			return nil, configErrorf("profile '%s' is empty", name)
		}
		p.Name = name
		if p.SeleniumVersion != "" {
			if _, err := semver.ParseTolerant(p.SeleniumVersion); err != nil {
				return nil, configErrorf("profile '%s': invalid selenium_version %q: %v", name, p.SeleniumVersion, err)
			}
		}
	}
	return c, nil
}

// Names returns the profile names in order.
func (c Config) Names() []string {
	names := make([]string, 0, len(c))
	for n := range c {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Select returns the profile named by the WEBDRIVER variable, or def if it
// is unset.
func (c Config) Select(env Env, def string) (*Profile, error) {
	name := def
	if env.Browser != "" {
		name = env.Browser
	}
	p, ok := c[name]
	if !ok {
		return nil, configErrorf("unknown browser '%s'", name)
	}
	return p, nil
}

// baseCapabilities are the default capabilities of each browser type.
var baseCapabilities = map[string]selenium.Capabilities{
	"firefox": {
		"browserName":         "firefox",
		"acceptInsecureCerts": true,
	},
	"chrome": {
		"browserName": "chrome",
		"version":     "",
		"platform":    "ANY",
	},
	"ie": {
		"browserName": "internet explorer",
		"version":     "",
		"platform":    "WINDOWS",
	},
	"edge": {
		"browserName": "MicrosoftEdge",
		"version":     "",
		"platform":    "WINDOWS",
	},
	"safari": {
		"browserName": "safari",
		"version":     "",
		"platform":    "MAC",
	},
	"opera": {
		"browserName": "opera",
		"version":     "",
		"platform":    "ANY",
	},
	"phantomjs": {
		"browserName":       "phantomjs",
		"version":           "",
		"platform":          "ANY",
		"javascriptEnabled": true,
	},
	"htmlunit": {
		"browserName": "htmlunit",
		"version":     "",
		"platform":    "ANY",
	},
	"htmlunitwithjs": {
		"browserName":       "htmlunit",
		"version":           "firefox",
		"platform":          "ANY",
		"javascriptEnabled": true,
	},
}

// Capabilities returns the capabilities requested when opening the session.
func (p *Profile) Capabilities() (selenium.Capabilities, error) {
	if p.WebDriver == "" {
		return nil, configErrorf("profile '%s': must specify 'webdriver'", p.Name)
	}
	base, ok := baseCapabilities[strings.ToLower(p.WebDriver)]
	if !ok {
		return nil, configErrorf("profile '%s': unknown driver: %s", p.Name, p.WebDriver)
	}
	caps := make(selenium.Capabilities, len(base))
	for k, v := range base {
		caps[k] = v
	}

	if o := p.Chrome; o != nil {
		cc := chrome.Capabilities{
			Path: o.Binary,
			Args: append([]string(nil), o.Args...),
			W3C:  true,
		}
		if o.Headless {
			cc.Args = append(cc.Args, "--headless", "--no-sandbox")
		}
		for _, ext := range o.Extensions {
			if err := cc.AddExtension(ext); err != nil {
				return nil, fmt.Errorf("profile '%s': loading extension %q: %w", p.Name, ext, err)
			}
		}
		caps.AddChrome(cc)
	}
	if o := p.Firefox; o != nil {
		fc := firefox.Capabilities{
			Binary: o.Binary,
			Args:   append([]string(nil), o.Args...),
			Prefs:  o.Prefs,
		}
		if o.Headless {
			fc.Args = append(fc.Args, "-headless")
		}
		if o.Profile != "" {
			if err := fc.SetProfile(o.Profile); err != nil {
				return nil, fmt.Errorf("profile '%s': loading Firefox profile %q: %w", p.Name, o.Profile, err)
			}
		}
		if o.LogLevel != "" {
			fc.Log = &firefox.Log{Level: firefox.LogLevel(o.LogLevel)}
		}
		caps.AddFirefox(fc)
	}
	if len(p.Logging) > 0 {
		l := make(slog.Capabilities, len(p.Logging))
		for typ, level := range p.Logging {
			l[slog.Type(typ)] = slog.Level(strings.ToUpper(level))
		}
		caps.AddLogging(l)
	}
	if x := p.Proxy; x != nil {
		typ := selenium.ProxyType(x.Type)
		if typ == "" {
			typ = selenium.Manual
		}
		caps.AddProxy(selenium.Proxy{
			Type:          typ,
			AutoconfigURL: x.AutoconfigURL,
			HTTP:          x.HTTP,
			SSL:           x.SSL,
			SOCKS:         x.SOCKS,
			SOCKSVersion:  x.SOCKSVersion,
			NoProxy:       x.NoProxy,
		})
	}
	if s := p.Sauce; s != nil {
		sc := sauce.Capabilities{
			Browser:         s.Browser,
			Version:         s.Version,
			Platform:        s.Platform,
			SeleniumVersion: p.SeleniumVersion,
			TestName:        s.Name,
			BuildNumber:     s.Build,
			Tags:            s.Tags,
		}
		m, err := sc.ToMap()
		if err != nil {
			return nil, err
		}
		for k, v := range m {
			caps[k] = v
		}
		if s.Connect != nil && s.Connect.Tunnel != "" {
			caps["tunnelIdentifier"] = s.Connect.Tunnel
		}
	}

	for k, v := range p.ExtraCapabilities {
		caps[k] = v
	}
	return caps, nil
}

const hubFormat = "http://%s:4444/wd/hub"

// Hub returns the URL of the Selenium hub a remote profile connects to.
// The environment takes precedence over the profile.
func (p *Profile) Hub(env Env) (string, error) {
	switch {
	case env.Hub != "":
		return env.Hub, nil
	case env.Host != "":
		return fmt.Sprintf(hubFormat, env.Host), nil
	case p.HubURL != "":
		return p.HubURL, nil
	case p.Host != "":
		return fmt.Sprintf(hubFormat, p.Host), nil
	case p.CommandExecutor != "":
		return p.CommandExecutor, nil
	case p.Sauce != nil && env.SauceUser != "" && env.SauceKey != "":
		return sauce.Addr(env.SauceUser, env.SauceKey), nil
	}
	return "", configErrorf("profile '%s': must specify a hub or host to connect to", p.Name)
}
