package graph

import (
	"archive/tar"
	"bufio"
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depscope/pkg/errors"
)

// DefaultDBPath is the pacman database directory.
const DefaultDBPath = "/var/lib/pacman"

// LoadSystem reads the local database and every sync database under
// dbPath into one catalog. Sync databases that cannot be read are skipped
// with a warning on logger; a missing or unreadable local database is an
// error.
func LoadSystem(dbPath string, logger *log.Logger) (*Catalog, error) {
	c, err := ReadLocalDB(filepath.Join(dbPath, "local"))
	if err != nil {
		return nil, err
	}

	syncs, _ := filepath.Glob(filepath.Join(dbPath, "sync", "*.db"))
	slices.Sort(syncs)
	for _, path := range syncs {
		repo := strings.TrimSuffix(filepath.Base(path), ".db")
		if err := readSyncDBInto(c, path, repo); err != nil {
			if logger != nil {
				logger.Warn("skipping sync database", "repo", repo, "err", err)
			}
			continue
		}
	}
	return c, nil
}

// ReadLocalDB reads every <pkg>/desc file of a local package database.
// All packages read are installed.
func ReadLocalDB(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read local database")
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read local database")
	}

	c := NewCatalog()
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		f, err := os.Open(filepath.Join(dir, e.Name(), "desc"))
		if err != nil {
			continue
		}
		p, err := parseDesc(f)
		f.Close()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", e.Name())
		}
		p.Installed = true
		if p.Reason == "" {
			p.Reason = ReasonExplicit
		}
		c.Add(p)
	}
	return c, nil
}

// ReadSyncDB reads a gzip-compressed sync database. Packages are marked not
// installed and tagged with repo.
func ReadSyncDB(path, repo string) (*Catalog, error) {
	c := NewCatalog()
	if err := readSyncDBInto(c, path, repo); err != nil {
		return nil, err
	}
	return c, nil
}

func readSyncDBInto(c *Catalog, path, repo string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	magic, err := br.Peek(2)
	if err != nil || !bytes.Equal(magic, []byte{0x1f, 0x8b}) {
		return errors.New(errors.ErrCodeUnsupported, "%s is not gzip-compressed", filepath.Base(path))
	}
	zr, err := gzip.NewReader(br)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "gunzip %s", path)
	}
	defer zr.Close()

	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "read %s", path)
		}
		if filepath.Base(hdr.Name) != "desc" {
			continue
		}
		p, err := parseDesc(tr)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", hdr.Name)
		}
		p.Repository = repo
		p.Reason = ""
		c.Add(p)
	}
}

// parseDesc reads a desc file: "%SECTION%" headers followed by one value
// per line, sections separated by blank lines.
func parseDesc(r io.Reader) (Package, error) {
	var (
		p       Package
		section string
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
			section = ""
			continue
		case len(line) > 2 && line[0] == '%' && line[len(line)-1] == '%':
			section = line
			continue
		}

		switch section {
		case "%NAME%":
			p.Name = line
		case "%VERSION%":
			p.Version = line
		case "%REASON%":
			if line == "1" {
				p.Reason = ReasonDependency
			} else {
				p.Reason = ReasonExplicit
			}
		case "%DEPENDS%":
			p.Depends = append(p.Depends, line)
		case "%OPTDEPENDS%":
			p.OptDepends = append(p.OptDepends, line)
		case "%PROVIDES%":
			p.Provides = append(p.Provides, line)
		}
	}
	if err := sc.Err(); err != nil {
		return p, err
	}
	if err := errors.ValidatePackageName(p.Name); err != nil {
		return p, err
	}
	if p.Version != "" {
		if err := errors.ValidateVersion(p.Version); err != nil {
			return p, err
		}
	}
	return p, nil
}
