package browser

import (
	"fmt"
	"path/filepath"

	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"
	"github.com/tebeka/selenium/log"
	"github.com/tebeka/selenium/sauce"
)

// SauceHost is the Sauce Labs WebDriver endpoint.
const SauceHost = "ondemand.saucelabs.com/wd/hub"

func sauceURL(user, key string) string {
	return fmt.Sprintf("http://%s:%s@%s", user, key, SauceHost)
}

// Capabilities returns the capabilities that start the browser cfg
// describes.
func Capabilities(cfg Config) (selenium.Capabilities, error) {
	caps := selenium.Capabilities{"browserName": cfg.Browser}
	switch cfg.Browser {
	case Chrome:
		c := chrome.Capabilities{
			Path: cfg.BrowserBinary,
			// Chrome binaries outside the default install need this, as the
			// sandbox requires a setuid binary.
			Args: []string{"--no-sandbox"},
			W3C:  cfg.W3C,
		}
		if cfg.Headless {
			c.Args = append(c.Args, "--headless", "--disable-gpu", "--window-size=1920,1080")
		}
		if cfg.SOCKSProxy != "" {
			// https://crbug.com/899126
			c.Args = append(c.Args, "--proxy-bypass-list=<-loopback>")
		}
		caps.AddChrome(c)
	case Firefox:
		f := firefox.Capabilities{}
		if cfg.BrowserBinary != "" {
			p, err := filepath.Abs(cfg.BrowserBinary)
			if err != nil {
				return nil, fmt.Errorf("browser binary %q: %w", cfg.BrowserBinary, err)
			}
			f.Binary = p
		}
		if cfg.Headless {
			f.Args = append(f.Args, "-headless")
		}
		if cfg.Debug {
			f.Log = &firefox.Log{Level: firefox.Trace}
		}
		if cfg.SOCKSProxy != "" {
			f.Prefs = map[string]interface{}{
				"network.proxy.no_proxies_on":            "",
				"network.proxy.allow_hijacking_localhost": true,
			}
		}
		caps.AddFirefox(f)
	default:
		return nil, fmt.Errorf("unsupported browser %q", cfg.Browser)
	}

	if cfg.SOCKSProxy != "" {
		caps.AddProxy(selenium.Proxy{
			Type:         selenium.Manual,
			SOCKS:        cfg.SOCKSProxy,
			SOCKSVersion: 5,
		})
	}
	if cfg.BrowserLogLevel != "" {
		caps.SetLogLevel(log.Browser, log.Level(cfg.BrowserLogLevel))
	}
	if cfg.SauceUser != "" {
		sc := sauce.Capabilities{
			Browser:  cfg.Browser,
			Platform: "Linux",
			TestName: "pageobject",
		}
		m, err := sc.ToMap()
		if err != nil {
			return nil, fmt.Errorf("sauce capabilities: %w", err)
		}
		for k, v := range m {
			caps[k] = v
		}
	}
	return caps, nil
}
