package querydoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// schema constrains CUE documents. #Node stays open; node shapes are
// checked by BuildNode so YAML and CUE report the same errors.
const schema = `
#Node: {...}

#Document: {
	name:         string & !=""
	description?: string
	clauses?: [...string]
	where?:  string
	select?: string
	top?:    int & >=0
	filter?: #Node
	search?: #Node
	orderby?: [...{
		asc?:  #Node
		desc?: #Node
	}]
	levels?: "max" | int & >=0
}
`

// LoadFile reads a .yaml, .yml or .cue query document.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read query document: %w", err)
	}

	var doc *Document
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		doc, err = parseYAML(data)
	case ".cue":
		doc, err = parseCUE(data, path)
	default:
		return nil, fmt.Errorf("unsupported document extension %q", ext)
	}
	if err != nil {
		return nil, err
	}

	doc.Path = path
	return doc, nil
}

// LoadDir loads every query document directly under dir, sorted by file
// name. Loading stops at the first invalid document.
func LoadDir(dir string) ([]*Document, error) {
	files, err := FindDocuments(dir)
	if err != nil {
		return nil, err
	}

	docs := make([]*Document, 0, len(files))
	for _, f := range files {
		doc, err := LoadFile(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(f), err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// FindDocuments returns the query document files directly under dir.
func FindDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml", ".cue":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func parseYAML(data []byte) (*Document, error) {
	var doc Document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fieldError("name", "document is empty")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if doc.Name == "" {
		return nil, fieldError("name", "name is required")
	}
	if doc.Top < 0 {
		return nil, fieldError("top", "top must not be negative")
	}
	return &doc, nil
}

func parseCUE(data []byte, path string) (*Document, error) {
	ctx := cuecontext.New()

	def := ctx.CompileString(schema).LookupPath(cue.ParsePath("#Document"))
	if err := def.Err(); err != nil {
		return nil, fmt.Errorf("compiling document schema: %w", err)
	}

	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	value = def.Unify(value)
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var doc Document
	if err := value.Decode(&doc); err != nil {
		return nil, formatCUEError(err)
	}
	return &doc, nil
}
