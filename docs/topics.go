// Package docs serves the embedded documentation topics shown by the
// 'ntx docs' command.
package docs

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed *.md
var topics embed.FS

// Topic returns the markdown content of one documentation topic.
func Topic(name string) (string, error) {
	content, err := topics.ReadFile(name + ".md")
	if err != nil {
		return "", fmt.Errorf("topic %q not found: %w", name, err)
	}
	return string(content), nil
}

// Topics concatenates the content of the named topics. The name "*" expands
// to every available topic.
func Topics(names ...string) (string, error) {
	var b strings.Builder
	for _, name := range names {
		if name == "*" {
			all, err := All()
			if err != nil {
				return "", err
			}
			expanded, err := Topics(all...)
			if err != nil {
				return "", err
			}
			b.WriteString(expanded)
			continue
		}
		content, err := Topic(name)
		if err != nil {
			return "", err
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// All lists every available topic name in sorted order. The readme index is
// not itself a topic.
func All() ([]string, error) {
	files, err := fs.Glob(topics, "*.md")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(files))
	for _, file := range files {
		if name := strings.TrimSuffix(file, ".md"); name != "readme" {
			names = append(names, name)
		}
	}
	return names, nil
}
