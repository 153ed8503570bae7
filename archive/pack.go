package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	fixzip "github.com/hidez8891/zip"
)

// Pack stores all regular files under dir into zip archive to, names are
// relative to dir and use forward slashes. Resulting archive has no data
// descriptors so streaming readers could process it.
func Pack(dir, to string) (int, error) {
	tmp, err := os.CreateTemp(filepath.Dir(to), "."+filepath.Base(to)+".*")
	if err != nil {
		return 0, fmt.Errorf("unable to create temporary archive: %w", err)
	}
	defer os.Remove(tmp.Name())

	count, err := writeTree(tmp, dir)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, err
	}
	if err := copyWithoutDataDescriptors(tmp.Name(), to); err != nil {
		return 0, err
	}
	return count, nil
}

func writeTree(out io.Writer, dir string) (int, error) {
	w := zip.NewWriter(out)
	count := 0
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.Type().IsRegular() {
			return err
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		h, err := zip.FileInfoHeader(fi)
		if err != nil {
			return err
		}
		h.Name, h.Method = filepath.ToSlash(rel), zip.Deflate

		fw, err := w.CreateHeader(h)
		if err != nil {
			return err
		}
		src, err := os.Open(p)
		if err != nil {
			return err
		}
		defer src.Close()
		if _, err := io.Copy(fw, src); err != nil {
			return fmt.Errorf("unable to pack %s: %w", rel, err)
		}
		count++
		return nil
	})
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	return count, err
}

func copyWithoutDataDescriptors(from, to string) error {
	out, err := os.Create(to)
	if err != nil {
		return fmt.Errorf("unable to create target file (%s): %w", to, err)
	}
	defer out.Close()

	r, err := fixzip.OpenReader(from)
	if err != nil {
		return fmt.Errorf("unable to read archive file (%s): %w", from, err)
	}
	defer r.Close()

	w := fixzip.NewWriter(out)
	for _, file := range r.File {
		file.Flags &= ^fixzip.FlagDataDescriptor
		if err := w.CopyFile(file); err != nil {
			return fmt.Errorf("unable to write target file (%s): %w", to, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("unable to finish target file (%s): %w", to, err)
	}
	return out.Close()
}
