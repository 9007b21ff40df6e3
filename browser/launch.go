package browser

import (
	"fmt"
	"net"
	"os"

	"github.com/golang/glog"
	"github.com/tebeka/selenium"

	"github.com/wanmail/pageobject"
	"github.com/wanmail/pageobject/actions"
)

// stopper is a running driver service.
type stopper interface {
	Stop() error
}

// Replaced in tests.
var (
	newRemote    = selenium.NewRemote
	startService = func(browser, path string, port int, opts ...selenium.ServiceOption) (stopper, error) {
		if browser == Firefox {
			return selenium.NewGeckoDriverService(path, port, opts...)
		}
		return selenium.NewChromeDriverService(path, port, opts...)
	}
)

// executor returns the WebDriver address of a local service. ChromeDriver
// is started with a /wd/hub URL base; geckodriver serves from the root.
func executor(browser string, port int) string {
	if browser == Firefox {
		return fmt.Sprintf("http://127.0.0.1:%d", port)
	}
	return fmt.Sprintf("http://127.0.0.1:%d/wd/hub", port)
}

// Launch returns a session on the browser cfg describes. Unless cfg names a
// remote server or Sauce Labs, a local driver service is started and the
// session's Quit stops it.
func Launch(cfg Config) (*pageobject.Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	selenium.SetDebug(cfg.Debug)
	caps, err := Capabilities(cfg)
	if err != nil {
		return nil, err
	}

	var (
		addr string
		svc  stopper
	)
	switch {
	case cfg.SauceUser != "":
		addr = sauceURL(cfg.SauceUser, cfg.SauceKey)
	case cfg.RemoteURL != "":
		addr = cfg.RemoteURL
	default:
		addr, svc, err = startLocal(cfg)
		if err != nil {
			return nil, err
		}
	}

	stop := func() error {
		if svc == nil {
			return nil
		}
		glog.Infof("Stopping %s driver service", cfg.Browser)
		return svc.Stop()
	}

	wd, err := newRemote(caps, addr)
	if err != nil {
		if serr := stop(); serr != nil {
			glog.Warningf("Error stopping driver service: %v", serr)
		}
		return nil, fmt.Errorf("connecting to %s: %w", redact(cfg, addr), err)
	}
	glog.Infof("Started %s session %s", cfg.Browser, wd.SessionID())

	opts := append(cfg.sessionOptions(), pageobject.WithCloser(stop))
	if cfg.W3C {
		opts = append(opts, pageobject.WithPerformer(actions.NewW3C(addr, wd.SessionID, nil)))
	}
	return pageobject.NewSession(wd, opts...), nil
}

func startLocal(cfg Config) (string, stopper, error) {
	path, err := FindDriver(cfg.Browser, cfg.DriverPath)
	if err != nil {
		return "", nil, err
	}
	if err := checkVersion(path, cfg.MinDriverVersion); err != nil {
		return "", nil, err
	}

	var opts []selenium.ServiceOption
	if cfg.Debug {
		opts = append(opts, selenium.Output(os.Stderr))
	}
	if !cfg.Headless {
		switch {
		case cfg.StartFrameBuffer:
			opts = append(opts, selenium.StartFrameBuffer())
		case cfg.Display != "":
			w, h, err := ProbeDisplay(cfg.Display)
			if err != nil {
				return "", nil, err
			}
			glog.Infof("Using display :%s (%dx%d)", cfg.Display, w, h)
			opts = append(opts, selenium.Display(cfg.Display, cfg.XAuthPath))
		}
	}

	port := cfg.Port
	if port == 0 {
		if port, err = pickUnusedPort(); err != nil {
			return "", nil, fmt.Errorf("picking a port: %w", err)
		}
	}
	glog.Infof("Starting %s on port %d", path, port)
	svc, err := startService(cfg.Browser, path, port, opts...)
	if err != nil {
		return "", nil, fmt.Errorf("starting %s: %w", path, err)
	}
	return executor(cfg.Browser, port), svc, nil
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

// redact hides Sauce Labs credentials in addr.
func redact(cfg Config, addr string) string {
	if cfg.SauceUser != "" {
		return SauceHost
	}
	return addr
}
