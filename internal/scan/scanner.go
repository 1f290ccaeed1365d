package scan

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type FileInfo struct {
	Path  string
	Key   string // chat key, see ChatKey
	Mtime int64
	Size  int64
}

// ScanChats lists every chat export (*.txt) below root. A missing root is
// not an error.
func ScanChats(root string) ([]FileInfo, error) {
	if root == "" {
		return nil, nil
	}
	var files []FileInfo
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable dirs
		}
		if info.IsDir() {
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsChatFile(path) {
			return nil
		}
		files = append(files, FileInfo{
			Path:  path,
			Key:   ChatKey(root, path),
			Mtime: info.ModTime().Unix(),
			Size:  info.Size(),
		})
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Key < files[j].Key })
	return files, nil
}

// Stat describes a single chat file outside of a scan.
func Stat(root, path string) (FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}
	return FileInfo{
		Path:  path,
		Key:   ChatKey(root, path),
		Mtime: info.ModTime().Unix(),
		Size:  info.Size(),
	}, nil
}

func IsChatFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".txt") && !strings.HasPrefix(filepath.Base(path), ".")
}

// ChatKey is the slash separated path of a chat file relative to root,
// without extension. Files outside root are keyed by base name.
func ChatKey(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Base(path)
	}
	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, filepath.Ext(rel))
}
