package browser

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/blang/semver"
	"github.com/golang/glog"
)

// execCommand is replaced in tests.
var execCommand = exec.Command

// VendorDir is where cmd/fetchdrivers puts drivers by default.
var VendorDir = "vendor"

func driverName(browser string) string {
	if browser == Firefox {
		return "geckodriver"
	}
	return "chromedriver"
}

func commonPaths(name string) []string {
	return []string{
		filepath.Join("/usr/local/bin", name),
		filepath.Join("/usr/bin", name),
		filepath.Join("/opt/homebrew/bin", name),
		filepath.Join(os.Getenv("HOME"), "bin", name),
	}
}

// FindDriver returns the driver binary for browser. An explicit path must
// exist. Otherwise $PATH is searched, then the usual install locations, then
// VendorDir.
func FindDriver(browser, explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("driver %q: %w", explicit, err)
		}
		return explicit, nil
	}
	name := driverName(browser)
	if p, err := exec.LookPath(name); err == nil {
		return p, nil
	}
	for _, p := range commonPaths(name) {
		if isRegular(p) {
			return p, nil
		}
	}
	if p := findBestPath(filepath.Join(VendorDir, name+"*")); p != "" {
		return p, nil
	}
	return "", fmt.Errorf("%s not found: install it, pass -driver_path or run fetchdrivers", name)
}

// findBestPath returns the last regular file matching glob in lexical order,
// which is the newest for versioned names.
func findBestPath(glob string) string {
	matches, err := filepath.Glob(glob)
	if err != nil {
		glog.Warningf("Error globbing %q: %s", glob, err)
		return ""
	}
	sort.Strings(matches)
	for i := len(matches) - 1; i >= 0; i-- {
		if isRegular(matches[i]) {
			return matches[i]
		}
	}
	return ""
}

func isRegular(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

var versionRE = regexp.MustCompile(`\d+(\.\d+)+`)

// DriverVersion runs "<path> --version" and parses the first version number
// it prints. Components past the third, as in Chrome's four part versions,
// are dropped.
func DriverVersion(path string) (semver.Version, error) {
	out, err := execCommand(path, "--version").Output()
	if err != nil {
		return semver.Version{}, fmt.Errorf("%s --version: %w", path, err)
	}
	return parseVersion(string(out))
}

func parseVersion(s string) (semver.Version, error) {
	m := versionRE.FindString(s)
	if m == "" {
		return semver.Version{}, fmt.Errorf("no version number in %q", strings.TrimSpace(s))
	}
	parts := strings.Split(m, ".")
	if len(parts) > 3 {
		parts = parts[:3]
	}
	return semver.ParseTolerant(strings.Join(parts, "."))
}

// checkVersion fails if the driver at path is older than minVersion. An empty one
// accepts anything.
func checkVersion(path, minVersion string) error {
	if minVersion == "" {
		return nil
	}
	want, err := semver.ParseTolerant(minVersion)
	if err != nil {
		return fmt.Errorf("invalid minimum driver version %q: %w", minVersion, err)
	}
	got, err := DriverVersion(path)
	if err != nil {
		return err
	}
	if got.LT(want) {
		return fmt.Errorf("%s is version %v, want at least %v", path, got, want)
	}
	glog.Infof("Driver %s is version %v", path, got)
	return nil
}
