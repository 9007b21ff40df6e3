// Package browser starts a WebDriver service for a local browser, or
// connects to a remote one, and returns a pageobject.Session for it.
package browser

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mstoykov/envconfig"
	"github.com/tebeka/selenium/log"

	"github.com/wanmail/pageobject"
)

// Supported browsers.
const (
	Chrome  = "chrome"
	Firefox = "firefox"
)

// EnvPrefix prefixes the environment variables read by LoadEnv, e.g.
// PAGEOBJECT_DRIVER_PATH for -driver_path.
const EnvPrefix = "PAGEOBJECT"

// Config describes how to obtain a browser session.
type Config struct {
	// Browser is Chrome or Firefox.
	Browser string `envconfig:"browser"`
	// DriverPath is the chromedriver or geckodriver binary. If empty it is
	// searched for.
	DriverPath string `envconfig:"driver_path"`
	// BrowserBinary is the browser executable. If empty the driver picks
	// its default.
	BrowserBinary string `envconfig:"browser_binary"`
	// Port is the port of the local driver service; 0 picks an unused one.
	Port int `envconfig:"port"`
	// RemoteURL is the address of an already running WebDriver server. When
	// set no local service is started.
	RemoteURL string `envconfig:"remote_url"`

	Headless         bool `envconfig:"headless"`
	StartFrameBuffer bool `envconfig:"start_frame_buffer"`
	// Display is the X display ("x" or "x.y") for a headful browser.
	Display   string `envconfig:"display"`
	XAuthPath string `envconfig:"xauth_path"`

	// W3C selects the W3C protocol dialect and the W3C actions endpoint.
	W3C bool `envconfig:"w3c"`
	// SOCKSProxy is the host:port of a SOCKS5 proxy for browser traffic.
	SOCKSProxy string `envconfig:"socks_proxy"`
	// BrowserLogLevel sets the browser console log level, e.g. "INFO".
	BrowserLogLevel string `envconfig:"browser_log_level"`
	// MinDriverVersion rejects older drivers, e.g. "76.0.0".
	MinDriverVersion string `envconfig:"min_driver_version"`
	// Debug makes the selenium client log every request.
	Debug bool `envconfig:"selenium_debug"`

	// SauceUser and SauceKey run the browser on Sauce Labs instead.
	SauceUser string `envconfig:"sauce_user"`
	SauceKey  string `envconfig:"sauce_key"`

	Timeout      time.Duration `envconfig:"timeout"`
	PollInterval time.Duration `envconfig:"poll_interval"`
	ActionDelay  time.Duration `envconfig:"action_delay"`
}

// DefaultConfig returns a headless Chrome configuration.
func DefaultConfig() Config {
	return Config{
		Browser:      Chrome,
		Headless:     true,
		W3C:          true,
		Timeout:      pageobject.DefaultTimeout,
		PollInterval: pageobject.DefaultPollInterval,
	}
}

// LoadEnv overrides the fields of c from PAGEOBJECT_* environment variables.
// Call it before RegisterFlags so that flags take precedence.
func (c *Config) LoadEnv() error {
	// Without a lookup function envconfig falls back to the unprefixed
	// names, which would pick up variables like DISPLAY and PORT.
	prefixed := func(key string) (string, bool) {
		if !strings.HasPrefix(key, EnvPrefix+"_") {
			return "", false
		}
		return os.LookupEnv(key)
	}
	if err := envconfig.Process(EnvPrefix, c, prefixed); err != nil {
		return fmt.Errorf("reading %s_* environment: %w", EnvPrefix, err)
	}
	return nil
}

// RegisterFlags binds the fields of c to flags in fs. The current values of
// c become the flag defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Browser, "browser", c.Browser, "The browser to drive: chrome or firefox.")
	fs.StringVar(&c.DriverPath, "driver_path", c.DriverPath, "The path to the chromedriver or geckodriver binary. If empty, the PATH and common install locations are searched.")
	fs.StringVar(&c.BrowserBinary, "browser_binary", c.BrowserBinary, "The path to the browser binary. If empty, the driver's default is used.")
	fs.IntVar(&c.Port, "port", c.Port, "The port of the local driver service. If 0, an unused port is picked.")
	fs.StringVar(&c.RemoteURL, "remote_url", c.RemoteURL, "The URL of a running WebDriver server. If set, no local driver service is started.")
	fs.BoolVar(&c.Headless, "headless", c.Headless, "If true, run the browser without a window.")
	fs.BoolVar(&c.StartFrameBuffer, "start_frame_buffer", c.StartFrameBuffer, "If true, start an Xvfb subprocess and run the browser in that X server.")
	fs.StringVar(&c.Display, "display", c.Display, "The X display to run a headful browser in, of the form 'x' or 'x.y'.")
	fs.StringVar(&c.XAuthPath, "xauth_path", c.XAuthPath, "The Xauthority file for -display.")
	fs.BoolVar(&c.W3C, "w3c", c.W3C, "If true, speak the W3C dialect and send gestures to the W3C actions endpoint.")
	fs.StringVar(&c.SOCKSProxy, "socks_proxy", c.SOCKSProxy, "The host:port of a SOCKS5 proxy for browser traffic.")
	fs.StringVar(&c.BrowserLogLevel, "browser_log_level", c.BrowserLogLevel, "The browser console log level to record, e.g. INFO.")
	fs.StringVar(&c.MinDriverVersion, "min_driver_version", c.MinDriverVersion, "The oldest acceptable driver version.")
	fs.BoolVar(&c.Debug, "selenium_debug", c.Debug, "If true, log every WebDriver request and reply.")
	fs.StringVar(&c.SauceUser, "sauce_user", c.SauceUser, "The Sauce Labs user name. If set with -sauce_key, the browser runs on Sauce Labs.")
	fs.StringVar(&c.SauceKey, "sauce_key", c.SauceKey, "The Sauce Labs access key.")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "The timeout of explicit waits.")
	fs.DurationVar(&c.PollInterval, "poll_interval", c.PollInterval, "How often explicit waits poll.")
	fs.DurationVar(&c.ActionDelay, "action_delay", c.ActionDelay, "The pause taken before page object actions.")
}

// Validate reports configuration errors.
func (c *Config) Validate() error {
	switch c.Browser {
	case Chrome, Firefox:
	default:
		return fmt.Errorf("unsupported browser %q", c.Browser)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if (c.SauceUser == "") != (c.SauceKey == "") {
		return fmt.Errorf("-sauce_user and -sauce_key must be set together")
	}
	if c.SauceUser != "" && c.RemoteURL != "" {
		return fmt.Errorf("-remote_url cannot be combined with Sauce Labs")
	}
	if c.Display != "" && !isDisplay(c.Display) {
		return fmt.Errorf("display %q must be of the format 'x' or 'x.y' where x and y are integers", c.Display)
	}
	if c.Display != "" && c.StartFrameBuffer {
		return fmt.Errorf("-display cannot be combined with -start_frame_buffer")
	}
	if c.BrowserLogLevel != "" {
		switch log.Level(c.BrowserLogLevel) {
		case log.Off, log.Severe, log.Warning, log.Info, log.Debug, log.All:
		default:
			return fmt.Errorf("invalid browser log level %q", c.BrowserLogLevel)
		}
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	return nil
}

func (c *Config) sessionOptions() []pageobject.Option {
	opts := []pageobject.Option{
		pageobject.WithTimeout(c.Timeout),
		pageobject.WithActionDelay(c.ActionDelay),
	}
	if c.PollInterval > 0 {
		opts = append(opts, pageobject.WithPollInterval(c.PollInterval))
	}
	return opts
}
