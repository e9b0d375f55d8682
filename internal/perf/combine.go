// Package perf combines per-worker performance CSV reports and prepares them
// for the interactive dashboard.
package perf

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var logger = log.WithField("package", "perf")

var reportSuffix = regexp.MustCompile(`\.(?:gw\d+|master)(?:\.post)?\.csv$`)

const (
	markerColumn     = "marker"
	tileLoopMarker   = "TILE_LOOP"
	loopFactorColumn = "loop_factor"
	tileCountColumn  = "tile_cnt"
)

// BaseNames returns the sorted unique report names in dir, so that
// perf_unpack.gw0.csv and perf_unpack.master.post.csv both yield perf_unpack.
func BaseNames(dir string) ([]string, error) {
	files, err := reportFiles(dir, "*")
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	for _, f := range files {
		seen[reportSuffix.ReplaceAllString(filepath.Base(f), "")] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func reportFiles(dir, base string) ([]string, error) {
	var files []string
	for _, pattern := range []string{base + ".gw*.csv", base + ".master*.csv"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, errors.Wrapf(err, "globbing %s", pattern)
		}
		for _, m := range matches {
			// base "*" may match a longer name that only contains ".gw"; the suffix decides.
			if reportSuffix.MatchString(filepath.Base(m)) && (base == "*" || reportSuffix.ReplaceAllString(filepath.Base(m), "") == base) {
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// Combine merges the worker reports of every base name in inDir into
// outDir/<base>/<base>.csv and outDir/<base>/<base>.post.csv, then removes
// the merged inputs. It returns the written files.
func Combine(inDir, outDir string) ([]string, error) {
	bases, err := BaseNames(inDir)
	if err != nil {
		return nil, err
	}
	if len(bases) == 0 {
		logger.Infof("no performance reports in %s", inDir)
		return nil, nil
	}

	var written []string
	for _, base := range bases {
		files, err := reportFiles(inDir, base)
		if err != nil {
			return written, err
		}

		var regular, post []string
		for _, f := range files {
			if strings.HasSuffix(f, ".post.csv") {
				post = append(post, f)
			} else {
				regular = append(regular, f)
			}
		}

		dir := filepath.Join(outDir, base)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return written, errors.Wrapf(err, "creating %s", dir)
		}

		for _, group := range []struct {
			files []string
			name  string
		}{
			{regular, base + ".csv"},
			{post, base + ".post.csv"},
		} {
			if len(group.files) == 0 {
				continue
			}
			out := filepath.Join(dir, group.name)
			if err := combineFiles(group.files, out); err != nil {
				return written, err
			}
			written = append(written, out)
			logger.WithField("files", len(group.files)).Infof("📊 combined %s", out)
		}

		for _, f := range files {
			if err := os.Remove(f); err != nil {
				return written, errors.Wrapf(err, "removing %s", f)
			}
		}
	}
	return written, nil
}

func combineFiles(files []string, out string) error {
	tables := make([]*Table, 0, len(files))
	for _, f := range files {
		t, err := ReadTable(f)
		if err != nil {
			return err
		}
		tables = append(tables, t)
	}
	combined := Concat(tables...)
	combined.SortRows()
	return combined.WriteFile(out)
}

// PostProcessTileLoop normalises TILE_LOOP rows to per-tile figures by
// dividing their mean(...) and std(...) columns by loop_factor * tile_cnt.
// Missing factors count as 1.
func PostProcessTileLoop(t *Table) error {
	marker := t.Column(markerColumn)
	if marker < 0 {
		return nil
	}
	var mask []int
	for i, row := range t.Rows {
		if row[marker] == tileLoopMarker {
			mask = append(mask, i)
		}
	}
	if len(mask) == 0 {
		return nil
	}

	for _, col := range []string{loopFactorColumn, tileCountColumn} {
		idx := t.Column(col)
		if idx < 0 {
			t.insertColumn(t.Column(markerColumn), col, "1")
			continue
		}
		for _, row := range t.Rows {
			if row[idx] == "" {
				row[idx] = "1"
			}
		}
	}

	loopIdx, tileIdx := t.Column(loopFactorColumn), t.Column(tileCountColumn)
	for _, i := range mask {
		row := t.Rows[i]
		loop, err := strconv.ParseFloat(row[loopIdx], 64)
		if err != nil {
			return errors.Wrapf(err, "row %d: %s", i, loopFactorColumn)
		}
		tiles, err := strconv.ParseFloat(row[tileIdx], 64)
		if err != nil {
			return errors.Wrapf(err, "row %d: %s", i, tileCountColumn)
		}
		divisor := loop * tiles
		for c, h := range t.Header {
			if !isStatColumn(h) || row[c] == "" {
				continue
			}
			v, err := strconv.ParseFloat(row[c], 64)
			if err != nil {
				return errors.Wrapf(err, "row %d: %s", i, h)
			}
			row[c] = formatFloat(v / divisor)
		}
	}
	return nil
}

func (t *Table) insertColumn(at int, name, fill string) {
	t.Header = append(t.Header[:at], append([]string{name}, t.Header[at:]...)...)
	for i, row := range t.Rows {
		t.Rows[i] = append(row[:at], append([]string{fill}, row[at:]...)...)
	}
}

func isMetricColumn(name string) bool { return strings.HasPrefix(name, "mean(") }

func isStatColumn(name string) bool {
	return isMetricColumn(name) || strings.HasPrefix(name, "std(")
}
