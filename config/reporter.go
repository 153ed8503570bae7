package config

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"domx/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare creates empty debug report. When destination could not be created
// report goes to temporary directory.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	f, err := os.Create(conf.Destination)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err != nil {
			return nil, fmt.Errorf("unable to create report: %w", err)
		}
	}
	return &Report{file: f, entries: make(map[string]entry)}, nil
}

// entry is either in-memory data or path to file or directory read when
// report is closed.
type entry struct {
	source string
	path   string
	stamp  time.Time
	data   []byte
}

// Report collects files, directories and data for debug archive. All methods
// are no-ops on nil report so callers do not have to check whether report was
// requested. Not safe for concurrent use.
type Report struct {
	entries map[string]entry
	file    *os.File
	// snapshots made by StoreCopy, removed on Close
	snapshots []string
}

// Close writes archive and releases everything report holds.
func (r *Report) Close() error {
	if r == nil {
		return nil
	}
	defer func() {
		for _, dir := range r.snapshots {
			_ = os.RemoveAll(dir)
		}
		r.snapshots = nil
	}()
	if r.file == nil {
		return nil
	}

	err := r.write(r.file)
	if cerr := r.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// Name returns absolute name of archive file.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if n, err := filepath.Abs(r.file.Name()); err == nil {
		return n
	}
	return r.file.Name()
}

// Store remembers path of file or directory to be archived under name when
// report is closed, so archive gets its final state. Registering different
// path under the same name is a programming error.
func (r *Report) Store(name, path string) {
	if r == nil {
		return
	}
	if old, ok := r.entries[name]; ok && old.source != path {
		panic(fmt.Sprintf("report entry %q already points to %s, not %s", name, old.source, path))
	}
	e := entry{source: path, path: path}
	if abs, err := filepath.Abs(path); err == nil {
		e.path = abs
	}
	r.entries[name] = e
}

// StoreData puts data into archive under name. Repeated names get timestamp
// suffix.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	now := time.Now()
	r.entries[r.uniqueName(name, now)] = entry{data: data, stamp: now}
}

func (r *Report) uniqueName(name string, now time.Time) string {
	if _, ok := r.entries[name]; ok {
		return fmt.Sprintf("%s-%d", name, now.UnixNano())
	}
	return name
}

// StoreCopy snapshots file or directory as it is now. Repeated names get
// timestamp suffix.
func (r *Report) StoreCopy(name, path string) error {
	if r == nil {
		return nil
	}
	src, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	fi, err := os.Stat(src)
	if err != nil {
		return err
	}

	now := time.Now()
	name = r.uniqueName(name, now)
	dir, err := os.MkdirTemp("", misc.GetAppName()+"-r-")
	if err != nil {
		return err
	}
	r.snapshots = append(r.snapshots, dir)

	dst := dir
	if fi.Mode().IsRegular() {
		dst = filepath.Join(dir, filepath.Base(src))
		err = copyFile(src, dst, fi.ModTime())
	} else {
		err = filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
			if err != nil || !d.Type().IsRegular() {
				return err
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(src, p)
			if err != nil {
				return err
			}
			return copyFile(p, filepath.Join(dir, rel), info.ModTime())
		})
	}
	if err != nil {
		return fmt.Errorf("unable to snapshot %s: %w", path, err)
	}
	r.entries[name] = entry{source: path, path: dst, stamp: now}
	return nil
}

func copyFile(src, dst string, modTime time.Time) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0700); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, modTime, modTime)
}

// write produces archive: MANIFEST first, then entries in name order.
// Entries whose files disappeared are skipped.
func (r *Report) write(out io.Writer) error {
	arc := zip.NewWriter(out)
	now := time.Now()

	names := slices.Sorted(maps.Keys(r.entries))
	var manifest bytes.Buffer
	for _, name := range names {
		e := r.entries[name]
		stamp := e.stamp
		if stamp.IsZero() {
			stamp = now
		}
		fmt.Fprintf(&manifest, "%s\t%s\t%s : %s\n", stamp.UTC().Format(time.UnixDate), name, e.source, e.path)
	}
	if err := addFile(arc, "MANIFEST", now, &manifest); err != nil {
		return err
	}

	for _, name := range names {
		e := r.entries[name]
		if e.data != nil {
			if err := addFile(arc, name, e.stamp, bytes.NewReader(e.data)); err != nil {
				return err
			}
			continue
		}
		fi, err := os.Stat(e.path)
		if err != nil {
			continue
		}
		if fi.IsDir() {
			err = addDir(arc, name, e.path)
		} else if fi.Mode().IsRegular() {
			err = addPath(arc, name, e.path, fi.ModTime())
		}
		if err != nil {
			return err
		}
	}
	return arc.Close()
}

func addFile(arc *zip.Writer, name string, modTime time.Time, src io.Reader) error {
	w, err := arc.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: modTime})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}

func addPath(arc *zip.Writer, name, path string, modTime time.Time) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return addFile(arc, name, modTime, f)
}

func addDir(arc *zip.Writer, name, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.Type().IsRegular() {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		return addPath(arc, filepath.ToSlash(filepath.Join(name, rel)), p, info.ModTime())
	})
}
