package fetch

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/go-github/v27/github"
)

const (
	// ChromeBuild is the known build of Chromium in the
	// chromium-browser-snapshots/Linux_x64 bucket.
	ChromeBuild = "664981" // 76.0.3809.0

	// FirefoxVersion is the known version of Firefox.
	FirefoxVersion = "68.0.1"
)

var (
	// SeleniumFile is the standalone Selenium server.
	SeleniumFile = File{
		URL:  "https://selenium-release.storage.googleapis.com/3.141/selenium-server-standalone-3.141.59.jar",
		Name: "selenium-server.jar",
		Hash: "acf71b77d1b66b55db6fb0bed6d8bae2bbd481311bcbedfeff472c0d15e8f3cb",
	}
	// ChromeDriverFile matches ChromeBuild.
	ChromeDriverFile = File{
		URL:    "https://chromedriver.storage.googleapis.com/76.0.3809.25/chromedriver_linux64.zip",
		Name:   "chromedriver.zip",
		Hash:   "0a264a8b2fa881edf33657ba88709ae3dbaec72d8b41beebf1c89d5e3bc3e594",
		Rename: []string{"chromedriver_linux64/chromedriver", "chromedriver"},
	}
	// GeckoDriverFile is a geckodriver release for Linux.
	GeckoDriverFile = File{
		URL:  "https://github.com/mozilla/geckodriver/releases/download/v0.24.0/geckodriver-v0.24.0-linux64.tar.gz",
		Name: "geckodriver.tar.gz",
		Hash: "03be3d3b16b57e0f3e7e8ba7c1e4bf090620c147e6804f6c6f3203864f5e3784",
	}
	// SauceConnectFile is the Sauce Connect Proxy for Linux. Only the sc
	// binary is kept at the top of the directory.
	SauceConnectFile = File{
		URL:    "https://saucelabs.com/downloads/sc-4.5.4-linux.tar.gz",
		Name:   "sauce-connect.tar.gz",
		Rename: []string{"sc-4.5.4-linux/bin/sc", "sc"},
	}
)

// FirefoxFile returns the Firefox release version for Linux. An empty
// version selects the latest nightly build.
func FirefoxFile(version string) File {
	f := File{
		Name:    "firefox.tar.bz2",
		Browser: true,
	}
	if version == "" {
		f.URL = "https://download.mozilla.org/?product=firefox-nightly-latest-ssl&os=linux64&lang=en-US"
	} else {
		f.URL = fmt.Sprintf("https://download-installer.cdn.mozilla.net/pub/firefox/releases/%[1]s/linux-x86_64/en-US/firefox-%[1]s.tar.bz2", version)
	}
	return f
}

// LatestRelease returns the asset of the latest release of owner/repo on
// GitHub whose name matches the regular expression asset. It is saved as
// name.
func LatestRelease(ctx context.Context, client *github.Client, owner, repo, asset, name string) (File, error) {
	re, err := regexp.Compile(asset)
	if err != nil {
		return File{}, fmt.Errorf("invalid asset name regular expression %q: %w", asset, err)
	}
	rel, _, err := client.Repositories.GetLatestRelease(ctx, owner, repo)
	if err != nil {
		return File{}, err
	}
	for _, a := range rel.Assets {
		if !re.MatchString(a.GetName()) {
			continue
		}
		u := a.GetBrowserDownloadURL()
		if u == "" {
			return File{}, fmt.Errorf("%s does not have a download URL", a.GetName())
		}
		return File{Name: name, URL: u}, nil
	}
	return File{}, fmt.Errorf("release for %s not found at https://github.com/%s/%s/releases", asset, owner, repo)
}

// LatestGeckoDriver returns the latest geckodriver release for Linux.
func LatestGeckoDriver(ctx context.Context, client *github.Client) (File, error) {
	return LatestRelease(ctx, client, "mozilla", "geckodriver", `^geckodriver-.*linux64\.tar\.gz$`, GeckoDriverFile.Name)
}

const (
	chromeBucket      = "chromium-browser-snapshots"
	chromePrefix      = "Linux_x64"
	chromeLastChange  = "Linux_x64/LAST_CHANGE"
	chromeArchive     = "chrome-linux.zip"
	chromeDriverInZip = "chromedriver_linux64.zip"
)

// Chrome returns Chromium and its chromedriver for build from the snapshot
// bucket. An empty build selects the latest snapshot.
func Chrome(ctx context.Context, client *storage.Client, build string) ([]File, error) {
	bkt := client.Bucket(chromeBucket)
	if build == "" {
		r, err := bkt.Object(chromeLastChange).NewReader(ctx)
		if err != nil {
			return nil, fmt.Errorf("cannot read gs://%s/%s: %w", chromeBucket, chromeLastChange, err)
		}
		defer r.Close()
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("cannot read gs://%s/%s: %w", chromeBucket, chromeLastChange, err)
		}
		build = strings.TrimSpace(string(data))
	}

	var files []File
	for _, obj := range []struct {
		name    string
		local   string
		browser bool
		rename  []string
	}{
		{chromeArchive, chromeArchive, true, []string{"chrome-linux", "chrome"}},
		{chromeDriverInZip, ChromeDriverFile.Name, false, ChromeDriverFile.Rename},
	} {
		p := path.Join(chromePrefix, build, obj.name)
		attrs, err := bkt.Object(p).Attrs(ctx)
		if err != nil {
			return nil, fmt.Errorf("cannot get gs://%s/%s attrs: %w", chromeBucket, p, err)
		}
		files = append(files, File{
			Name:     obj.local,
			URL:      attrs.MediaLink,
			Hash:     hex.EncodeToString(attrs.MD5),
			HashType: "md5",
			Browser:  obj.browser,
			Rename:   obj.rename,
		})
	}
	return files, nil
}
