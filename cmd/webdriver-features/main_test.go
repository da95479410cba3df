package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wanmail/godog-webdriver/internal/webdrivertest"
	"github.com/wanmail/godog-webdriver/profile"
)

type session struct {
	*webdrivertest.Driver
	quits int
}

func (s *session) Quit() error {
	s.quits++
	return nil
}

const passing = `Feature: navigation
  Scenario: open the home page
    When I visit "/"
    Then I should be at "/"
`

const failing = `Feature: navigation
  Scenario: end up somewhere else
    When I visit "/"
    Then I should be at "/elsewhere"
`

func writeFeature(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "navigation.feature")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, s *session, args ...string) (string, error) {
	t.Helper()
	var opened []string
	deps := featuresDeps{
		open: func(config, browser string) (*profile.Driver, error) {
			opened = append(opened, config, browser)
			return &profile.Driver{
				WebDriver: s,
				Profile:   &profile.Profile{Name: browser, WebDriver: "firefox"},
			}, nil
		},
	}
	cmd := newFeaturesCommand(deps)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", "ci.yaml", "--browser", "chrome", "--no-colors", "--format", "progress"}, args...))
	err := cmd.Execute()
	if diff := cmp.Diff([]string{"ci.yaml", "chrome"}, opened); diff != "" {
		t.Errorf("open() arguments returned diff (-want/+got):\n%s", diff)
	}
	return out.String(), err
}

func TestFeaturesPass(t *testing.T) {
	s := &session{Driver: webdrivertest.NewDriver()}
	out, err := run(t, s, "--base-url", "http://app.test", writeFeature(t, passing))
	if err != nil {
		t.Fatalf("webdriver-features returned error: %v\n%s", err, out)
	}
	if diff := cmp.Diff([]string{"http://app.test/"}, s.Visited); diff != "" {
		t.Errorf("visited URLs returned diff (-want/+got):\n%s", diff)
	}
	if s.quits != 1 {
		t.Errorf("session quit %d times, want 1", s.quits)
	}
}

func TestFeaturesFail(t *testing.T) {
	s := &session{Driver: webdrivertest.NewDriver()}
	s.Shot = []byte("png")
	shots := t.TempDir()
	out, err := run(t, s, "--base-url", "http://app.test", "--screenshots", shots, writeFeature(t, failing))
	if err == nil || !strings.Contains(err.Error(), "chrome") {
		t.Fatalf("webdriver-features returned error %v, want a failure naming the profile\n%s", err, out)
	}
	if _, err := os.Stat(filepath.Join(shots, "end_up_somewhere_else.png")); err != nil {
		t.Errorf("screenshot of the failed scenario: %v", err)
	}
	if s.quits != 1 {
		t.Errorf("session quit %d times, want 1", s.quits)
	}
}

func TestFeaturesOpenError(t *testing.T) {
	refused := errors.New("unknown browser 'lynx'")
	cmd := newFeaturesCommand(featuresDeps{
		open: func(string, string) (*profile.Driver, error) { return nil, refused },
	})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"features"})
	if err := cmd.Execute(); !errors.Is(err, refused) {
		t.Errorf("webdriver-features returned error %v, want %v", err, refused)
	}
}

func TestFeaturesBadBaseURL(t *testing.T) {
	s := &session{Driver: webdrivertest.NewDriver()}
	if _, err := run(t, s, "--base-url", "relative/path", writeFeature(t, passing)); err == nil {
		t.Errorf("webdriver-features with a relative base URL returned nil error")
	}
	if s.quits != 1 {
		t.Errorf("session quit %d times, want 1", s.quits)
	}
}
