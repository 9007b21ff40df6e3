package browser

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	socks5 "github.com/armon/go-socks5"
)

var (
	chromeDriverPath = flag.String("chrome_driver_path", "", "The path to a ChromeDriver binary. If empty, the integration tests are skipped.")
	chromeBinary     = flag.String("chrome_binary", "", "The Chrome binary to drive.")
)

const proxyPageContents = "You are viewing a proxied page"

// addrRewriter sends every proxied connection to u.
type addrRewriter struct{ u *url.URL }

func (a *addrRewriter) Rewrite(ctx context.Context, _ *socks5.Request) (context.Context, *socks5.AddrSpec) {
	port, err := strconv.Atoi(a.u.Port())
	if err != nil {
		panic(err)
	}
	return ctx, &socks5.AddrSpec{
		FQDN: a.u.Hostname(),
		Port: port,
	}
}

func TestLaunchChromeThroughSOCKSProxy(t *testing.T) {
	if *chromeDriverPath == "" {
		t.Skip("Skipping: -chrome_driver_path not set")
	}

	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, proxyPageContents)
	}))
	defer s.Close()
	u, err := url.Parse(s.URL)
	if err != nil {
		t.Fatalf("url.Parse(%q) returned error: %v", s.URL, err)
	}

	socks, err := socks5.New(&socks5.Config{Rewriter: &addrRewriter{u}})
	if err != nil {
		t.Fatalf("socks5.New(_) returned error: %v", err)
	}
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen(_, _) returned error: %v", err)
	}
	go socks.Serve(l)
	defer l.Close()

	cfg := DefaultConfig()
	cfg.DriverPath = *chromeDriverPath
	cfg.BrowserBinary = *chromeBinary
	cfg.SOCKSProxy = l.Addr().String()
	sess, err := Launch(cfg)
	if err != nil {
		t.Fatalf("Launch() returned error: %v", err)
	}
	defer func() {
		if err := sess.Quit(); err != nil {
			t.Errorf("sess.Quit() returned error: %v", err)
		}
	}()

	if err := sess.Open("http://example.invalid/"); err != nil {
		t.Fatalf("sess.Open() returned error: %v", err)
	}
	source, err := sess.Driver().PageSource()
	if err != nil {
		t.Fatalf("PageSource() returned error: %v", err)
	}
	if !strings.Contains(source, proxyPageContents) {
		t.Fatalf("PageSource() = %q, want it to contain %q", source, proxyPageContents)
	}
}
