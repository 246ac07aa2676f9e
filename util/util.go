package util

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/exp/constraints"
)

var scoreExtensions = []string{".mid", ".midi", ".json"}

func IsScorePath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range scoreExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// GatherScorePaths expands files and directories into the score files
// they contain, in walk order. maxNum of 0 means no limit.
func GatherScorePaths(paths []string, maxNum int) ([]string, error) {
	var res []string
	walk := func(s string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if maxNum > 0 && len(res) >= maxNum {
			return filepath.SkipAll
		}
		if !d.IsDir() && IsScorePath(s) {
			res = append(res, s)
		}
		return nil
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if maxNum == 0 || len(res) < maxNum {
				res = append(res, path)
			}
			continue
		}
		if err := filepath.WalkDir(path, walk); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func SortedKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

func Sum[A constraints.Integer](nums []A) uint64 {
	var total uint64
	for _, v := range nums {
		total += uint64(v)
	}
	return total
}
