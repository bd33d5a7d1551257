package content

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Entry is one page of a collection. Body is the raw markdown.
type Entry struct {
	Collection  string `json:"collection"`
	Slug        string `json:"slug"`
	Path        string `json:"path"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
	Body        string `json:"body,omitempty"`
}

// ValidationError lists the schema issues of one file.
type ValidationError struct {
	File   string
	Issues []Issue
}

func (e ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return e.File + ": " + strings.Join(parts, ", ")
}

// ValidationErrors collects every invalid file of a load.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	lines := make([]string, len(v))
	for i, e := range v {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}

// Library is the loaded content of every collection.
type Library struct {
	Entries  []Entry
	Problems ValidationErrors
}

// Collection returns the entries of one collection, newest first.
func (l *Library) Collection(name string) []Entry {
	var out []Entry
	for _, e := range l.Entries {
		if e.Collection == name {
			out = append(out, e)
		}
	}
	return out
}

// Find returns the entry with the given collection and slug.
func (l *Library) Find(collection, slug string) (Entry, bool) {
	for _, e := range l.Entries {
		if e.Collection == collection && e.Slug == slug {
			return e, true
		}
	}
	return Entry{}, false
}

// Load reads every collection under dir. Files that violate their schema
// are left out and reported in Problems; only I/O failures are errors. A
// missing directory loads as empty.
func Load(dir string) (*Library, error) {
	lib := &Library{}
	for _, c := range Collections {
		entries, problems, err := LoadCollection(dir, c)
		if err != nil {
			return nil, err
		}
		lib.Entries = append(lib.Entries, entries...)
		lib.Problems = append(lib.Problems, problems...)
	}
	return lib, nil
}

// LoadCollection reads the files matching c.Source under dir.
func LoadCollection(dir string, c Collection) ([]Entry, ValidationErrors, error) {
	files, err := filepath.Glob(filepath.Join(dir, filepath.FromSlash(c.Source)))
	if err != nil {
		return nil, nil, fmt.Errorf("content: glob %s: %w", c.Source, err)
	}
	sort.Strings(files)

	var entries []Entry
	var problems ValidationErrors
	for _, file := range files {
		rel, err := filepath.Rel(dir, file)
		if err != nil {
			rel = file
		}
		rel = filepath.ToSlash(rel)

		src, err := os.ReadFile(file)
		if err != nil {
			return nil, nil, fmt.Errorf("content: read %s: %w", rel, err)
		}
		fm, body, err := ParseFrontMatter(src)
		if err != nil {
			problems = append(problems, ValidationError{File: rel, Issues: []Issue{{Message: err.Error()}}})
			continue
		}
		if issues := c.Validate(fm); len(issues) > 0 {
			problems = append(problems, ValidationError{File: rel, Issues: issues})
			continue
		}

		slug := slugFromFile(file)
		date, _ := fm.String("date")
		title, ok := fm.String("title")
		if !ok || title == "" {
			title = firstHeading(body)
		}
		if title == "" {
			title = slug
		}
		description, _ := fm.String("description")

		entries = append(entries, Entry{
			Collection:  c.Name,
			Slug:        slug,
			Path:        "/" + c.Name + "/" + slug,
			Title:       title,
			Description: description,
			Date:        date,
			Body:        string(body),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return newestFirst(entries[i], entries[j])
	})
	return entries, problems, nil
}

var reOrderPrefix = regexp.MustCompile(`^\d+\.`)

// slugFromFile drops the extension and any numeric ordering prefix
// ("1.intro.md" -> "intro").
func slugFromFile(file string) string {
	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	return reOrderPrefix.ReplaceAllString(base, "")
}

func firstHeading(body []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(body))
	inCode := false
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.HasPrefix(line, "```") {
			inCode = !inCode
			continue
		}
		if !inCode && strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
	}
	return ""
}
