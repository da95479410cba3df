package profile

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/tebeka/selenium"
)

// newRemote opens the session. Tests replace it to avoid a real browser.
var newRemote = selenium.NewRemote

// Driver is an open WebDriver session. Quit ends the session and stops the
// driver process started for it, if any.
type Driver struct {
	selenium.WebDriver

	// Profile is the profile the session was opened from.
	Profile *Profile
	// Addr is the URL of the WebDriver endpoint.
	Addr string

	svc    *service
	tunnel tunnel
}

// Quit ends the session and stops the local driver process or tunnel.
func (d *Driver) Quit() error {
	err := d.WebDriver.Quit()
	if d.svc != nil {
		if serr := d.svc.Stop(); err == nil {
			err = serr
		}
		d.svc = nil
	}
	if d.tunnel != nil {
		if terr := d.tunnel.Stop(); err == nil {
			err = terr
		}
		d.tunnel = nil
	}
	return err
}

// Open loads the profile file at path and opens the profile selected by the
// environment, or def.
func Open(path, def string) (*Driver, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	env, err := ReadEnv()
	if err != nil {
		return nil, err
	}
	return c.Open(env, def)
}

// Open opens the profile selected by env, or def.
func (c Config) Open(env Env, def string) (*Driver, error) {
	p, err := c.Select(env, def)
	if err != nil {
		return nil, err
	}
	return p.Open(env)
}

// Open opens a session for p. Remote profiles connect to their hub; local
// ones start a driver process first.
func (p *Profile) Open(env Env) (*Driver, error) {
	if env.Debug {
		selenium.SetDebug(true)
	}
	caps, err := p.Capabilities()
	if err != nil {
		return nil, err
	}

	d := &Driver{Profile: p}
	switch {
	case p.Remote && p.tunneled(env):
		if d.tunnel, err = p.startTunnel(env); err != nil {
			return nil, fmt.Errorf("profile '%s': starting sauce connect: %w", p.Name, err)
		}
		d.Addr = d.tunnel.Addr()
	case p.Remote:
		if d.Addr, err = p.Hub(env); err != nil {
			return nil, err
		}
	default:
		if d.svc, err = startService(p); err != nil {
			return nil, fmt.Errorf("profile '%s': starting driver: %w", p.Name, err)
		}
		d.Addr = d.svc.addr
	}

	glog.Infof("Opening %s session for profile %q at %s", p.WebDriver, p.Name, d.Addr)
	d.WebDriver, err = newRemote(caps, d.Addr)
	if err != nil {
		d.stopService()
		return nil, fmt.Errorf("profile '%s': opening session: %w", p.Name, err)
	}
	if err := p.Timeouts.apply(d.WebDriver); err != nil {
		if qerr := d.Quit(); qerr != nil {
			glog.Warningf("Error quitting %s session: %v", p.Name, qerr)
		}
		return nil, fmt.Errorf("profile '%s': setting timeouts: %w", p.Name, err)
	}
	return d, nil
}

// tunneled reports whether the session goes through a Sauce Connect tunnel.
// An explicit hub in the environment takes precedence.
func (p *Profile) tunneled(env Env) bool {
	return p.Sauce != nil && p.Sauce.Connect != nil && env.Hub == "" && env.Host == ""
}

// stopService stops the driver process or tunnel of a session that failed
// to open.
func (d *Driver) stopService() {
	if d.svc != nil {
		if err := d.svc.Stop(); err != nil {
			glog.Warningf("Error stopping driver: %v", err)
		}
		d.svc = nil
	}
	if d.tunnel != nil {
		if err := d.tunnel.Stop(); err != nil {
			glog.Warningf("Error stopping sauce connect: %v", err)
		}
		d.tunnel = nil
	}
}

func (t Timeouts) apply(wd selenium.WebDriver) error {
	if t.Implicit > 0 {
		if err := wd.SetImplicitWaitTimeout(t.Implicit); err != nil {
			return err
		}
	}
	if t.PageLoad > 0 {
		if err := wd.SetPageLoadTimeout(t.PageLoad); err != nil {
			return err
		}
	}
	if t.Script > 0 {
		if err := wd.SetAsyncScriptTimeout(t.Script); err != nil {
			return err
		}
	}
	return nil
}
