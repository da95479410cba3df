// Package fetch downloads the browsers and WebDriver binaries needed to run
// feature files against a local browser.
package fetch

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"
)

// File describes a file to download.
type File struct {
	URL  string
	Name string
	// Hash is the hex digest of the file, checked when set.
	Hash string
	// HashType is md5, sha1 or sha256 (the default).
	HashType string
	// Rename moves Rename[0] to Rename[1] once the archive is unpacked.
	Rename []string
	// Browser marks the file as a browser rather than a driver.
	Browser bool
}

// Fetcher downloads files into a directory.
type Fetcher struct {
	// Dir receives the files. The current directory is used when empty.
	Dir string
	// Client performs the downloads; http.DefaultClient when nil.
	Client *http.Client
	// SkipBrowsers leaves out files marked as browsers.
	SkipBrowsers bool
}

func (f *Fetcher) path(name string) string {
	if f.Dir == "" {
		return name
	}
	return filepath.Join(f.Dir, name)
}

func (f *Fetcher) client() *http.Client {
	if f.Client == nil {
		return http.DefaultClient
	}
	return f.Client
}

// FetchAll downloads files in parallel. It stops at the first failure.
func (f *Fetcher) FetchAll(ctx context.Context, files []File) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, file := range files {
		file := file
		g.Go(func() error {
			if err := f.Fetch(ctx, file); err != nil {
				return fmt.Errorf("error handling %s: %w", file.Name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Fetch downloads file unless a copy with the expected hash is present,
// then unpacks it.
func (f *Fetcher) Fetch(ctx context.Context, file File) error {
	if file.Browser && f.SkipBrowsers {
		glog.Infof("Skipping browser %q", file.Name)
		return nil
	}
	if file.Hash != "" && f.sameHash(file) {
		glog.Infof("Skipping file %q which has already been downloaded.", file.Name)
	} else {
		glog.Infof("Downloading %q from %q", file.Name, file.URL)
		if err := f.download(ctx, file); err != nil {
			return err
		}
	}

	if err := f.unpack(file); err != nil {
		return err
	}

	if rename := file.Rename; len(rename) == 2 {
		from, to := f.path(rename[0]), f.path(rename[1])
		glog.Infof("Renaming %q to %q", from, to)
		os.RemoveAll(to) // Ignore error.
		if err := os.Rename(from, to); err != nil {
			glog.Warningf("Error renaming %q to %q: %v", from, to, err)
		}
	}
	return nil
}

func newHash(hashType string) hash.Hash {
	switch strings.ToLower(hashType) {
	case "md5":
		return md5.New()
	case "sha1":
		return sha1.New()
	default:
		return sha256.New()
	}
}

func (f *Fetcher) download(ctx context.Context, file File) (err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.URL, nil)
	if err != nil {
		return err
	}
	resp, err := f.client().Do(req)
	if err != nil {
		return fmt.Errorf("%s: error downloading %q: %w", file.Name, file.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: error downloading %q: %s", file.Name, file.URL, resp.Status)
	}

	out, err := os.Create(f.path(file.Name))
	if err != nil {
		return fmt.Errorf("error creating %q: %w", f.path(file.Name), err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("error closing %q: %w", f.path(file.Name), closeErr)
		}
	}()

	h := newHash(file.HashType)
	if _, err := io.Copy(io.MultiWriter(out, h), resp.Body); err != nil {
		return fmt.Errorf("%s: error downloading %q: %w", file.Name, file.URL, err)
	}
	if file.Hash != "" {
		if sum := hex.EncodeToString(h.Sum(nil)); sum != file.Hash {
			return fmt.Errorf("%s: got hash %q, want %q", file.Name, sum, file.Hash)
		}
	}
	return nil
}

func (f *Fetcher) sameHash(file File) bool {
	in, err := os.Open(f.path(file.Name))
	if err != nil {
		return false
	}
	defer in.Close()

	h := newHash(file.HashType)
	if _, err := io.Copy(h, in); err != nil {
		return false
	}
	sum := hex.EncodeToString(h.Sum(nil))
	if sum != file.Hash {
		glog.Warningf("File %q: got hash %q, expect hash %q", file.Name, sum, file.Hash)
		return false
	}
	return true
}

// unpackCommand returns the command extracting the archive name into dir,
// or nil if name is not an archive.
func unpackCommand(name, dir string) []string {
	switch path.Ext(name) {
	case ".zip":
		return []string{"unzip", "-d", dir, "-o", filepath.Join(dir, name)}
	case ".gz", ".tgz":
		return []string{"tar", "-xzf", filepath.Join(dir, name), "-C", dir}
	case ".bz2":
		return []string{"tar", "-xjf", filepath.Join(dir, name), "-C", dir}
	}
	return nil
}

func (f *Fetcher) unpack(file File) error {
	dir := f.Dir
	if dir == "" {
		dir = "."
	}
	cmd := unpackCommand(file.Name, dir)
	if cmd == nil {
		return nil
	}
	glog.Infof("Unpacking %q", f.path(file.Name))
	if out, err := exec.Command(cmd[0], cmd[1:]...).CombinedOutput(); err != nil {
		return fmt.Errorf("error unpacking %q: %v: %s", file.Name, err, out)
	}
	return nil
}
