// Command catalogcheck validates assessment definition files before they
// are dropped into the server's catalog directory.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"mindcheck/internal/catalog"
	"mindcheck/internal/model"

	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewDevelopment()
	defer log.Sync()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: catalogcheck <file.yaml|dir>...")
		os.Exit(2)
	}

	failed := 0
	for _, arg := range os.Args[1:] {
		files, err := expand(arg)
		if err != nil {
			log.Error("Cannot read path", zap.String("path", arg), zap.Error(err))
			failed++
			continue
		}
		for _, f := range files {
			a, err := catalog.LoadFile(f)
			if err != nil {
				log.Error("Invalid assessment", zap.String("file", f), zap.Error(err))
				failed++
				continue
			}
			log.Info("OK",
				zap.String("file", f),
				zap.String("type", a.Type),
				zap.String("kind", string(a.Kind)),
				zap.Int("questions", a.QuestionCount()),
				zap.Int("dimensions", len(a.Dimensions)),
				zap.Ints("unassigned", unassigned(a)),
			)
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func expand(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		m, err := filepath.Glob(filepath.Join(path, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, m...)
	}
	return files, nil
}

// unassigned lists 1-based items of a symptom inventory that belong to no
// dimension
func unassigned(a *model.Assessment) []int {
	if a.Kind != model.KindSymptom {
		return nil
	}
	var out []int
	for i := range a.Questions {
		found := false
		for _, d := range a.Dimensions {
			if d.Contains(i) {
				found = true
				break
			}
		}
		if !found {
			out = append(out, i+1)
		}
	}
	return out
}
