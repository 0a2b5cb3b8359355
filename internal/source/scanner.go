package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Stat returns the current Identity of the file at path.
func Stat(path string) (Identity, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Identity{}, err
	}
	return Identity{
		Path:      path,
		MtimeNs:   info.ModTime().UnixNano(),
		SizeBytes: info.Size(),
	}, nil
}

func identify(f *os.File, path string) (Identity, error) {
	info, err := f.Stat()
	if err != nil {
		return Identity{}, err
	}
	return Identity{
		Path:      path,
		MtimeNs:   info.ModTime().UnixNano(),
		SizeBytes: info.Size(),
	}, nil
}

// ScanDir finds the key,value CSV files directly inside dir. Files that do
// not parse as a baseline are skipped. A missing dir yields no files.
func ScanDir(dir string) ([]DiscoveredFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []DiscoveredFile
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		rec, err := ParseFile(path)
		if err != nil {
			continue
		}
		files = append(files, DiscoveredFile{
			Path: path,
			Name: strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())),
			Rows: len(rec.Fields),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}
