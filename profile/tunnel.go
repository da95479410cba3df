package profile

import (
	"github.com/golang/glog"
	"github.com/tebeka/selenium/sauce"
)

// tunnel is a running Sauce Connect Proxy.
type tunnel interface {
	Start() error
	Stop() error
	Addr() string
}

// newTunnel wraps the proxy process. Tests replace it to avoid starting sc.
var newTunnel = func(c *sauce.Connect) tunnel { return c }

// startTunnel starts the Sauce Connect Proxy configured for p and returns
// once it accepts WebDriver connections.
func (p *Profile) startTunnel(env Env) (tunnel, error) {
	sc := p.Sauce.Connect
	if env.SauceUser == "" || env.SauceKey == "" {
		return nil, configErrorf("profile '%s': sauce connect requires SAUCE_USERNAME and SAUCE_ACCESS_KEY", p.Name)
	}
	path, err := driverPath(DriverOptions{Path: sc.Path, Dir: p.Driver.Dir}, "sc")
	if err != nil {
		return nil, err
	}
	port := sc.Port
	if port == 0 {
		if port, err = pickUnusedPort(); err != nil {
			return nil, err
		}
	}

	args := append([]string{}, sc.Args...)
	if sc.Tunnel != "" {
		args = append(args, "--tunnel-identifier", sc.Tunnel)
	}
	t := newTunnel(&sauce.Connect{
		Path:                path,
		UserName:            env.SauceUser,
		AccessKey:           env.SauceKey,
		SeleniumPort:        port,
		LogFile:             sc.LogFile,
		Args:                args,
		QuitProcessUponExit: true,
	})
	glog.Infof("Starting Sauce Connect Proxy %s on port %d", path, port)
	if err := t.Start(); err != nil {
		return nil, err
	}
	return t, nil
}
