package profile

import (
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/golang/glog"
	"github.com/tebeka/selenium"
)

// service is a driver process started for a local profile.
type service struct {
	svc *selenium.Service
	// addr is the URL prefix of the WebDriver endpoint.
	addr string
	out  io.Closer
}

func (s *service) Stop() error {
	err := s.svc.Stop()
	if s.out != nil {
		if cerr := s.out.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// startService starts chromedriver, geckodriver or a Selenium server for
// profile p.
func startService(p *Profile) (*service, error) {
	d := p.Driver
	port := d.Port
	if port == 0 {
		var err error
		if port, err = pickUnusedPort(); err != nil {
			return nil, err
		}
	}

	var opts []selenium.ServiceOption
	if d.FrameBuffer {
		opts = append(opts, selenium.StartFrameBuffer())
	}
	w, closer, err := output(d.Output)
	if err != nil {
		return nil, err
	}
	if w != nil {
		opts = append(opts, selenium.Output(w))
	}
	fail := func(err error) (*service, error) {
		if closer != nil {
			closer.Close()
		}
		return nil, err
	}

	browser := strings.ToLower(p.WebDriver)
	s := &service{out: closer}
	switch {
	case d.SeleniumJar != "":
		switch browser {
		case "chrome":
			if path, err := driverPath(d, "chromedriver"); err == nil {
				opts = append(opts, selenium.ChromeDriver(path))
			}
		case "firefox":
			if path, err := driverPath(d, "geckodriver"); err == nil {
				opts = append(opts, selenium.GeckoDriver(path))
			}
		}
		if d.JavaPath != "" {
			opts = append(opts, selenium.JavaPath(d.JavaPath))
		}
		glog.Infof("Starting Selenium server %q on port %d", d.SeleniumJar, port)
		s.svc, err = selenium.NewSeleniumService(d.SeleniumJar, port, opts...)
		s.addr = fmt.Sprintf("http://localhost:%d/wd/hub", port)
	case browser == "chrome":
		path, perr := driverPath(d, "chromedriver")
		if perr != nil {
			return fail(perr)
		}
		glog.Infof("Starting %q on port %d", path, port)
		s.svc, err = selenium.NewChromeDriverService(path, port, opts...)
		s.addr = fmt.Sprintf("http://localhost:%d/wd/hub", port)
	case browser == "firefox":
		path, perr := driverPath(d, "geckodriver")
		if perr != nil {
			return fail(perr)
		}
		glog.Infof("Starting %q on port %d", path, port)
		s.svc, err = selenium.NewGeckoDriverService(path, port, opts...)
		s.addr = fmt.Sprintf("http://localhost:%d", port)
	default:
		return fail(configErrorf("profile '%s': %s cannot be started locally; set 'remote' or 'driver.selenium_jar'", p.Name, p.WebDriver))
	}
	if err != nil {
		return fail(err)
	}
	return s, nil
}

// output opens the destination of the driver logs.
func output(dest string) (io.Writer, io.Closer, error) {
	switch dest {
	case "":
		return nil, nil, nil
	case "stdout":
		return os.Stdout, nil, nil
	case "stderr":
		return os.Stderr, nil, nil
	}
	f, err := os.Create(dest)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

// driverPath locates the named driver binary: the configured path, the
// newest match in the driver directory, or the PATH.
func driverPath(d DriverOptions, name string) (string, error) {
	if d.Path != "" {
		return d.Path, nil
	}
	if d.Dir != "" {
		if path := findBestPath(filepath.Join(d.Dir, name+"*"), true); path != "" {
			return path, nil
		}
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("cannot find %s: set driver.path or driver.dir: %w", name, err)
	}
	return path, nil
}

// findBestPath returns the last regular file matching glob in lexical
// order, which for versioned file names is the newest. With binary set,
// only executable files are considered.
func findBestPath(glob string, binary bool) string {
	matches, err := filepath.Glob(glob)
	if err != nil {
		glog.Warningf("Error globbing %q: %s", glob, err)
		return ""
	}
	sort.Strings(matches)
	for i := len(matches) - 1; i >= 0; i-- {
		path := matches[i]
		fi, err := os.Stat(path)
		if err != nil {
			glog.Warningf("Error statting %q: %s", path, err)
			continue
		}
		if !fi.Mode().IsRegular() {
			continue
		}
		if binary && fi.Mode().Perm()&0111 == 0 {
			continue
		}
		return path
	}
	return ""
}

func pickUnusedPort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	port := l.Addr().(*net.TCPAddr).Port
	if err := l.Close(); err != nil {
		return 0, err
	}
	return port, nil
}
