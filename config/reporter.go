package config

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"text/tabwriter"
	"time"

	"go.uber.org/multierr"
	yaml "gopkg.in/yaml.v3"

	"flexclass/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare creates empty report. When destination cannot be created report
// goes to temporary directory.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	f, err := os.Create(conf.Destination)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err != nil {
			return nil, fmt.Errorf("unable to create report: %w", err)
		}
	}
	return &Report{file: f, entries: make(map[string]entry)}, nil
}

// entry is either a file to be copied on Close or data captured right away.
type entry struct {
	path  string
	data  []byte
	stamp time.Time
}

// Report collects troubleshooting material: configuration, logs, progress
// database and session snapshot. Everything is packed into zip archive on
// Close. All methods are no-op on nil Report, so callers never check
// whether report was requested. Not safe for concurrent use.
type Report struct {
	file    *os.File
	entries map[string]entry
}

// Name returns absolute name of the archive.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if n, err := filepath.Abs(r.file.Name()); err == nil {
		return n
	}
	return r.file.Name()
}

// Store remembers file to be copied into archive under name. File is read
// on Close, so it may still be written to until then.
func (r *Report) Store(name, path string) {
	if r == nil {
		return
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if old, exists := r.entries[name]; exists && old.path != path {
		panic(fmt.Sprintf("report entry [%s] already taken by %s, refusing %s", name, old.path, path))
	}
	r.entries[name] = entry{path: path}
}

// StoreData puts data into archive under name.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	if _, exists := r.entries[name]; exists {
		panic(fmt.Sprintf("report entry [%s] already taken", name))
	}
	r.entries[name] = entry{data: data, stamp: time.Now()}
}

// StoreYAML puts value marshaled to YAML into archive under name.
func (r *Report) StoreYAML(name string, v any) error {
	if r == nil {
		return nil
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("unable to marshal %s for report: %w", name, err)
	}
	r.StoreData(name, data)
	return nil
}

// Close writes archive. Stored files which do not exist at this point are
// listed in MANIFEST only.
func (r *Report) Close() (err error) {
	if r == nil || r.file == nil {
		return nil
	}
	defer func() {
		err = multierr.Append(err, r.file.Close())
	}()

	arc := zip.NewWriter(r.file)
	defer func() {
		err = multierr.Append(err, arc.Close())
	}()

	names := slices.Sorted(maps.Keys(r.entries))
	now := time.Now()

	var manifest bytes.Buffer
	tw := tabwriter.NewWriter(&manifest, 0, 8, 2, ' ', 0)
	for _, name := range names {
		e := r.entries[name]
		switch {
		case len(e.path) == 0:
			fmt.Fprintf(tw, "%s\t%d bytes\tcaptured %s\n", name, len(e.data), e.stamp.UTC().Format(time.RFC3339))
		default:
			if fi, er := os.Stat(e.path); er == nil {
				fmt.Fprintf(tw, "%s\t%s\tmodified %s\n", name, e.path, fi.ModTime().UTC().Format(time.RFC3339))
			} else {
				fmt.Fprintf(tw, "%s\t%s\tabsent\n", name, e.path)
			}
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if err := addToArchive(arc, "MANIFEST", now, &manifest); err != nil {
		return err
	}

	for _, name := range names {
		e := r.entries[name]
		if len(e.path) == 0 {
			if err := addToArchive(arc, name, e.stamp, bytes.NewReader(e.data)); err != nil {
				return err
			}
			continue
		}
		if err := addFileToArchive(arc, name, e.path); err != nil {
			return err
		}
	}
	return nil
}

func addFileToArchive(arc *zip.Writer, name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("unable to add %s to report: %w", name, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return fmt.Errorf("unable to add %s to report: %w", name, err)
	}
	if !fi.Mode().IsRegular() {
		return nil
	}
	return addToArchive(arc, name, fi.ModTime(), f)
}

func addToArchive(arc *zip.Writer, name string, stamp time.Time, src io.Reader) error {
	w, err := arc.CreateHeader(&zip.FileHeader{Name: filepath.ToSlash(name), Method: zip.Deflate, Modified: stamp})
	if err != nil {
		return fmt.Errorf("unable to add %s to report: %w", name, err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("unable to add %s to report: %w", name, err)
	}
	return nil
}
