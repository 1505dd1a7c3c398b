// SPDX-License-Identifier: MPL-2.0

package output

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/zeebo/xxh3"
)

// hashLen is the number of hex digits of the content hash kept in file names.
const hashLen = 12

// ErrMinify is returned when minification reports syntax errors.
var ErrMinify = errors.New("minify failed")

// FileSink writes bundles below Dir and addresses them under URL.
type FileSink struct {
	// Dir is the directory bundles are written to. Created on demand.
	Dir string
	// URL is the public prefix bundles are served under.
	URL string
	// Minify runs bundles through esbuild before writing.
	Minify bool
	// DryRun computes names and URLs without touching the filesystem.
	DryRun bool
	// Logger receives write events. Defaults to slog.Default().
	Logger *slog.Logger
}

// WriteBundle stores content as <stem>.<hash>.js and returns its URL.
func (s *FileSink) WriteBundle(ctx context.Context, content, basename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.Minify {
		minified, err := Minify(content)
		if err != nil {
			return "", fmt.Errorf("bundle %s: %w", basename, err)
		}
		content = minified
	}

	name := HashedName(basename, content)
	url := JoinURL(s.URL, name)
	if s.DryRun {
		s.logger().Debug("dry run: bundle not written", "file", name, "url", url)
		return url, nil
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	if err := WriteFileAtomic(filepath.Join(s.Dir, name), []byte(content)); err != nil {
		return "", err
	}

	s.logger().Debug("wrote bundle", "file", name, "url", url, "bytes", len(content))
	return url, nil
}

func (s *FileSink) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Minify strips whitespace and simplifies syntax. Identifiers are kept, so
// module factories still see the parameter names they declare.
func Minify(content string) (string, error) {
	result := api.Transform(content, api.TransformOptions{
		Loader:           api.LoaderJS,
		MinifyWhitespace: true,
		MinifySyntax:     true,
		LegalComments:    api.LegalCommentsEndOfFile,
		LogLevel:         api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		msgs := make([]string, 0, len(result.Errors))
		for _, m := range result.Errors {
			if m.Location != nil {
				msgs = append(msgs, fmt.Sprintf("%d:%d: %s", m.Location.Line, m.Location.Column, m.Text))
				continue
			}
			msgs = append(msgs, m.Text)
		}
		return "", fmt.Errorf("%w: %s", ErrMinify, strings.Join(msgs, "; "))
	}
	return string(result.Code), nil
}

// HashedName inserts a content hash before the extension of basename:
// "main.js" becomes "main.<hash>.js".
func HashedName(basename, content string) string {
	ext := path.Ext(basename)
	stem := strings.TrimSuffix(basename, ext)
	sum := fmt.Sprintf("%016x", xxh3.HashString(content))
	return stem + "." + sum[:hashLen] + ext
}

// JoinURL appends name to the URL prefix with exactly one slash between them.
func JoinURL(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return strings.TrimSuffix(prefix, "/") + "/" + name
}

// WriteFileAtomic writes data to a temp file next to dst and renames it into
// place, so readers never observe a partial file.
func WriteFileAtomic(dst string, data []byte) (err error) {
	dir := filepath.Dir(dst)
	tmp, err := os.CreateTemp(dir, ".amdpack-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", dst, err)
	}
	if err = os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", dst, err)
	}
	if err = os.Rename(tmpPath, dst); err != nil {
		return fmt.Errorf("replacing %s: %w", dst, err)
	}
	renamed = true
	return nil
}
