// package fileutil copies part files and directory trees.
package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// CopyFile streams src to dst, replacing dst if it exists, and returns the bytes written.
func CopyFile(src, dst string) (int64, error) {
	return CopyFileMode(src, dst, 0o644)
}

// CopyFileMode is [CopyFile] with an explicit mode for a newly created dst.
func CopyFileMode(src, dst string, mode os.FileMode) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, err
	}
	if !info.Mode().IsRegular() {
		return 0, fmt.Errorf("%s: not a regular file", src)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	n, err := io.Copy(out, in)
	if err != nil {
		return n, err
	}
	return n, out.Close()
}

// CopyFileVerified copies src to dst, then reads dst back and checks its size and SHA-256 against src.
// dst is removed when they differ.
func CopyFileVerified(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	want := sha256.New()
	written, err := io.Copy(out, io.TeeReader(in, want))
	if err != nil {
		return written, err
	}
	if err := out.Close(); err != nil {
		return written, err
	}

	size, got, err := hashFile(dst)
	if err != nil {
		return written, fmt.Errorf("read back %s: %w", dst, err)
	}

	switch {
	case size != written:
		_ = os.Remove(dst)
		return written, fmt.Errorf("%w: %s holds %d bytes, wrote %d", ErrVerify, dst, size, written)
	case !bytes.Equal(got, want.Sum(nil)):
		_ = os.Remove(dst)
		return written, fmt.Errorf("%w: %s content differs from %s", ErrVerify, dst, src)
	}
	return written, nil
}

// ErrVerify reports a copy whose destination does not match its source.
var ErrVerify = errors.New("copy verification failed")

func hashFile(path string) (int64, []byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, nil, err
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return n, nil, err
	}
	return n, h.Sum(nil), nil
}

// CopyDir copies the tree rooted at src into dst, creating dst.
// Existing files in dst are overwritten; symlinks and other special files are skipped.
func CopyDir(src, dst string) (files int, err error) {
	info, err := os.Stat(src)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("%s: not a directory", src)
	}

	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.IsDir():
			return os.MkdirAll(target, 0o755)
		case d.Type().IsRegular():
			if _, err := CopyFile(path, target); err != nil {
				return fmt.Errorf("copy %s: %w", rel, err)
			}
			files++
		}
		return nil
	})

	return files, err
}

// Exists reports whether path exists. Errors other than not-exist count as existing.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

// IsDir reports whether path is an existing directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ListFiles returns the paths of the files directly inside dir, sorted by name.
// Symlinks are followed; subdirectories and dangling links are left out.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if e.Type()&fs.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
		} else if !e.Type().IsRegular() {
			continue
		}
		files = append(files, path)
	}
	return files, nil
}

// ErrInvalidName reports a name that cannot be used as a single path element.
var ErrInvalidName = errors.New("not a usable file name")

// CheckName rejects names that are blank, "." or "..", or that contain a path separator.
func CheckName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: name is blank", ErrInvalidName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, filepath.Separator):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	}
	return nil
}

// Within reports whether path is root or lies below it. Both are compared lexically.
func Within(root, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
