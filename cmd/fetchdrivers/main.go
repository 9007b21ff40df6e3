// Binary fetchdrivers downloads ChromeDriver, geckodriver and, optionally,
// the browsers they drive, for running page objects locally.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/golang/glog"
	"github.com/google/go-github/v27/github"

	"github.com/wanmail/pageobject/internal/download"
)

var (
	dir              = flag.String("dir", "vendor", "The directory to download into.")
	downloadBrowsers = flag.Bool("download_browsers", true, "If true, download the Firefox and Chrome browsers.")
	downloadLatest   = flag.Bool("download_latest", false, "If true, download the latest versions.")
)

func main() {
	flag.Parse()
	defer glog.Flush()
	ctx := context.Background()

	if err := os.MkdirAll(*dir, 0755); err != nil {
		glog.Exitf("Cannot create %q: %v", *dir, err)
	}

	chromeBuild, firefoxVersion := download.ChromeBuild, download.FirefoxVersion
	if *downloadLatest {
		chromeBuild, firefoxVersion = "", ""
	}

	var files []download.File
	chrome, err := download.ChromeSnapshot(ctx, chromeBuild)
	if err != nil {
		glog.Errorf("Unable to find the Chromium snapshot: %v", err)
	}
	files = append(files, chrome...)
	files = append(files, download.FirefoxFile(firefoxVersion))

	gecko, err := download.LatestGitHubRelease(ctx, github.NewClient(nil), "mozilla", "geckodriver", "geckodriver-.*linux64.tar.gz", "geckodriver.tar.gz")
	if err != nil {
		glog.Errorf("Unable to find the latest geckodriver: %v", err)
	} else {
		files = append(files, gecko)
	}

	var selected []download.File
	for _, f := range files {
		if f.Browser && !*downloadBrowsers {
			glog.Infof("Skipping %q because --download_browsers is not set.", f.Name)
			continue
		}
		selected = append(selected, f)
	}
	if err := download.DownloadAll(ctx, *dir, selected...); err != nil {
		glog.Exit(err)
	}
}
