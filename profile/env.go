package profile

import (
	"github.com/kelseyhightower/envconfig"
)

// Env holds the environment variables overriding a profile file.
type Env struct {
	// Browser names the profile to use.
	Browser string `envconfig:"WEBDRIVER"`
	// Hub is the URL of the Selenium hub for remote profiles.
	Hub string `envconfig:"WEBDRIVER_HUB"`
	// Host is a Selenium hub host, listening on port 4444.
	Host string `envconfig:"WEBDRIVER_HOST"`

	SauceUser string `envconfig:"SAUCE_USERNAME"`
	SauceKey  string `envconfig:"SAUCE_ACCESS_KEY"`

	// Debug logs the WebDriver protocol traffic.
	Debug bool `envconfig:"WEBDRIVER_DEBUG"`
}

// ReadEnv reads Env from the process environment.
func ReadEnv() (Env, error) {
	var e Env
	if err := envconfig.Process("", &e); err != nil {
		return Env{}, err
	}
	return e, nil
}
