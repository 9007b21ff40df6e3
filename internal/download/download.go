// Package download fetches WebDriver binaries and browsers for local runs.
package download

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/golang/glog"
	"github.com/google/go-github/v27/github"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
)

// File describes how to download a file from the Web.
type File struct {
	URL  string
	Name string
	// Hash is the hex digest of the file. If empty the download is not
	// verified and never skipped.
	Hash string
	// HashType is "md5", "sha1" or "sha256" (the default).
	HashType string
	// Rename, if it has two entries, moves Rename[0] to Rename[1] after
	// unpacking.
	Rename []string
	// Browser marks browser packages, which are large and optional.
	Browser bool
}

// Path returns where the file is stored in dir.
func (f File) Path(dir string) string {
	return filepath.Join(dir, f.Name)
}

func (f File) newHash() hash.Hash {
	switch strings.ToLower(f.HashType) {
	case "md5":
		return md5.New()
	case "sha1":
		return sha1.New()
	default:
		return sha256.New()
	}
}

// Known good versions.
const (
	// ChromeBuild is a build in the chromium-browser-snapshots/Linux_x64
	// bucket. It corresponds to version 76.0.3809.0.
	ChromeBuild = "664981"
	// FirefoxVersion is a Firefox release.
	FirefoxVersion = "68.0.1"
)

// FirefoxFile returns the Firefox release version, or the latest nightly if
// version is empty.
func FirefoxFile(version string) File {
	if version == "" {
		return File{
			URL:     "https://download.mozilla.org/?product=firefox-nightly-latest-ssl&os=linux64&lang=en-US",
			Name:    "firefox-nightly.tar.bz2",
			Browser: true,
		}
	}
	v := url.PathEscape(version)
	return File{
		URL:     "https://download-installer.cdn.mozilla.net/pub/firefox/releases/" + v + "/linux-x86_64/en-US/firefox-" + v + ".tar.bz2",
		Name:    "firefox.tar.bz2",
		Browser: true,
	}
}

// ChromeSnapshot returns the Chromium browser and the matching ChromeDriver
// for build from the public snapshot bucket. An empty build means the
// latest one. opts are passed to the storage client.
func ChromeSnapshot(ctx context.Context, build string, opts ...option.ClientOption) ([]File, error) {
	const (
		bucketName     = "chromium-browser-snapshots"
		prefix         = "Linux_x64"
		lastChangeFile = "Linux_x64/LAST_CHANGE"
		chromeFile     = "chrome-linux.zip"
		driverFile     = "chromedriver_linux64.zip"
	)
	gcsPath := fmt.Sprintf("gs://%s/", bucketName)
	if len(opts) == 0 {
		opts = []option.ClientOption{option.WithHTTPClient(http.DefaultClient)}
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create a storage client for downloading the chrome browser: %w", err)
	}
	defer client.Close()

	bkt := client.Bucket(bucketName)
	if build == "" {
		r, err := bkt.Object(lastChangeFile).NewReader(ctx)
		if err != nil {
			return nil, fmt.Errorf("cannot create a reader for %s%s: %w", gcsPath, lastChangeFile, err)
		}
		data, err := ioutil.ReadAll(r)
		r.Close()
		if err != nil {
			return nil, fmt.Errorf("cannot read from %s%s: %w", gcsPath, lastChangeFile, err)
		}
		build = strings.TrimSpace(string(data))
	}
	glog.Infof("Using Chromium snapshot build %s", build)

	attrs := func(name string) (*storage.ObjectAttrs, error) {
		obj := path.Join(prefix, build, name)
		a, err := bkt.Object(obj).Attrs(ctx)
		if err != nil {
			return nil, fmt.Errorf("cannot get the attributes of %s%s: %w", gcsPath, obj, err)
		}
		return a, nil
	}
	chrome, err := attrs(chromeFile)
	if err != nil {
		return nil, err
	}
	driver, err := attrs(driverFile)
	if err != nil {
		return nil, err
	}
	return []File{
		{
			URL:      chrome.MediaLink,
			Name:     chromeFile,
			Hash:     hex.EncodeToString(chrome.MD5),
			HashType: "md5",
			Browser:  true,
		},
		{
			URL:      driver.MediaLink,
			Name:     "chromedriver.zip",
			Hash:     hex.EncodeToString(driver.MD5),
			HashType: "md5",
			Rename:   []string{"chromedriver_linux64/chromedriver", "chromedriver"},
		},
	}, nil
}

// LatestGitHubRelease returns the first asset of the latest release of
// owner/repo whose name matches assetRE, to be stored as name.
func LatestGitHubRelease(ctx context.Context, client *github.Client, owner, repo, assetRE, name string) (File, error) {
	re, err := regexp.Compile(assetRE)
	if err != nil {
		return File{}, fmt.Errorf("invalid asset name regular expression %q: %w", assetRE, err)
	}
	rel, _, err := client.Repositories.GetLatestRelease(ctx, owner, repo)
	if err != nil {
		return File{}, fmt.Errorf("latest release of %s/%s: %w", owner, repo, err)
	}
	for _, a := range rel.Assets {
		if !re.MatchString(a.GetName()) {
			continue
		}
		u := a.GetBrowserDownloadURL()
		if u == "" {
			return File{}, fmt.Errorf("%s does not have a download URL", a.GetName())
		}
		glog.Infof("Found %s in %s/%s release %s", a.GetName(), owner, repo, rel.GetTagName())
		return File{URL: u, Name: name}, nil
	}
	return File{}, fmt.Errorf("no asset matching %s in the latest release of https://github.com/%s/%s", assetRE, owner, repo)
}

// Download fetches file into dir unless a copy with the expected hash is
// already there, then unpacks and renames it.
func Download(ctx context.Context, file File, dir string) error {
	if file.Hash != "" && sameHash(file, dir) {
		glog.Infof("Skipping file %q which has already been downloaded.", file.Name)
	} else {
		glog.Infof("Downloading %q from %q", file.Name, file.URL)
		if err := fetch(ctx, file, dir); err != nil {
			return err
		}
	}

	if err := unpack(file, dir); err != nil {
		return err
	}

	if rename := file.Rename; len(rename) == 2 {
		from := filepath.Join(dir, rename[0])
		to := filepath.Join(dir, rename[1])
		glog.Infof("Renaming %q to %q", from, to)
		os.RemoveAll(to) // Ignore error.
		if err := os.Rename(from, to); err != nil {
			return fmt.Errorf("renaming %q to %q: %w", from, to, err)
		}
	}
	return nil
}

// DownloadAll downloads files into dir in parallel. The first failure
// cancels the other downloads.
func DownloadAll(ctx context.Context, dir string, files ...File) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, file := range files {
		file := file
		g.Go(func() error {
			if err := Download(ctx, file, dir); err != nil {
				return fmt.Errorf("error handling %s: %w", file.Name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func fetch(ctx context.Context, file File, dir string) (err error) {
	p := file.Path(dir)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.URL, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", file.Name, err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: error downloading %q: %w", file.Name, file.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: error downloading %q: %s", file.Name, file.URL, resp.Status)
	}

	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("error creating %q: %w", p, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("error closing %q: %w", p, closeErr)
		}
	}()

	h := file.newHash()
	if _, err := io.Copy(io.MultiWriter(f, h), resp.Body); err != nil {
		return fmt.Errorf("%s: error downloading %q: %w", file.Name, file.URL, err)
	}
	if file.Hash == "" {
		return nil
	}
	if sum := hex.EncodeToString(h.Sum(nil)); sum != file.Hash {
		return fmt.Errorf("%s: got %s hash %q, want %q", file.Name, hashName(file), sum, file.Hash)
	}
	return nil
}

func hashName(file File) string {
	if file.HashType == "" {
		return "sha256"
	}
	return file.HashType
}

func sameHash(file File, dir string) bool {
	f, err := os.Open(file.Path(dir))
	if err != nil {
		return false
	}
	defer f.Close()

	h := file.newHash()
	if _, err := io.Copy(h, f); err != nil {
		return false
	}
	sum := hex.EncodeToString(h.Sum(nil))
	if sum != file.Hash {
		glog.Warningf("File %q: got hash %q, expect hash %q", file.Name, sum, file.Hash)
		return false
	}
	return true
}

// execCommand is replaced in tests.
var execCommand = exec.Command

func unpack(file File, dir string) error {
	var args []string
	switch path.Ext(file.Name) {
	case ".zip":
		args = []string{"unzip", "-d", dir, "-o", file.Path(dir)}
	case ".gz":
		args = []string{"tar", "-xzf", file.Path(dir), "-C", dir}
	case ".bz2":
		args = []string{"tar", "-xjf", file.Path(dir), "-C", dir}
	default:
		return nil
	}
	glog.Infof("Unpacking %q", file.Path(dir))
	if out, err := execCommand(args[0], args[1:]...).CombinedOutput(); err != nil {
		return fmt.Errorf("error unpacking %q: %w: %s", file.Name, err, out)
	}
	return nil
}
