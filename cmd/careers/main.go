// Binary careers runs the "check more button" scenario against the live
// site: it opens the home page, follows More and Careers, and checks that
// the careers page loaded.
//
// Flag defaults can be set with PAGEOBJECT_* environment variables, which
// are also read from a .env file in the working directory.
package main

import (
	"flag"
	"os"

	"github.com/golang/glog"
	"github.com/joho/godotenv"

	"github.com/wanmail/pageobject/browser"
	"github.com/wanmail/pageobject/pages"
)

func main() {
	// The .env file is optional; variables already set take precedence.
	envErr := godotenv.Load()

	cfg := browser.DefaultConfig()
	cfgErr := cfg.LoadEnv()
	cfg.RegisterFlags(flag.CommandLine)
	baseURL := flag.String("base_url", pages.DefaultBaseURL, "The site to run the scenario against.")
	flag.Parse()
	defer glog.Flush()

	if envErr != nil && !os.IsNotExist(envErr) {
		glog.Warningf("Error loading .env: %v", envErr)
	}
	if cfgErr != nil {
		glog.Exitf("Invalid configuration: %v", cfgErr)
	}

	if err := run(cfg, *baseURL); err != nil {
		glog.Flush()
		glog.Exitf("Scenario failed: %v", err)
	}
	glog.Info("Scenario passed")
}

func run(cfg browser.Config, baseURL string) (err error) {
	s, err := browser.Launch(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if qerr := s.Quit(); qerr != nil {
			if err == nil {
				err = qerr
			} else {
				glog.Warningf("Error quitting the browser: %v", qerr)
			}
		}
	}()
	_, err = pages.CheckMoreButton(s, baseURL)
	return err
}
