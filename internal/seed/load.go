package seed

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"jobmate/alignment-service/internal/alignment"
)

// File is a parsed seed document.
type File struct {
	// Titles still need categorizing.
	Titles []string
	// ByTrack lists titles whose track is given explicitly.
	ByTrack map[alignment.Track][]string
}

// titleKeys are the object keys recognized as the job title in list entries.
var titleKeys = []string{"Job Title", "job_title", "jobTitle", "title"}

// LoadFile reads a seed document from path; see Parse.
func LoadFile(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("seed: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a YAML or JSON seed document. Accepted shapes:
//
//	["Web Developer", ...]                       titles to categorize
//	[{"Job Title": "Web Developer"}, ...]        same, as exported job lists
//	{"BSIT": ["Web Developer"], "BSIS": [...]}   titles per track
func Parse(r io.Reader) (File, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return File{}, nil
		}
		return File{}, fmt.Errorf("seed: parse: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return File{}, nil
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		titles, err := parseList(root)
		return File{Titles: titles}, err
	case yaml.MappingNode:
		byTrack := make(map[alignment.Track][]string)
		for i := 0; i+1 < len(root.Content); i += 2 {
			track := alignment.Track(strings.ToUpper(strings.TrimSpace(root.Content[i].Value)))
			var titles []string
			if err := root.Content[i+1].Decode(&titles); err != nil {
				return File{}, fmt.Errorf("seed: track %s: %w", track, err)
			}
			byTrack[track] = append(byTrack[track], titles...)
		}
		return File{ByTrack: byTrack}, nil
	default:
		return File{}, fmt.Errorf("seed: line %d: expected a list or a mapping", root.Line)
	}
}

func parseList(seq *yaml.Node) ([]string, error) {
	titles := make([]string, 0, len(seq.Content))
	for _, item := range seq.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			titles = append(titles, item.Value)
		case yaml.MappingNode:
			var entry map[string]any
			if err := item.Decode(&entry); err != nil {
				return nil, fmt.Errorf("seed: line %d: %w", item.Line, err)
			}
			for _, k := range titleKeys {
				if s, ok := entry[k].(string); ok {
					titles = append(titles, s)
					break
				}
			}
		default:
			return nil, fmt.Errorf("seed: line %d: unsupported list entry", item.Line)
		}
	}
	return titles, nil
}
