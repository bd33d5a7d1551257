// Package content loads the site's markdown collections and checks each
// file's front matter against its collection schema.
package content

import "fmt"

// Field is one string-valued front matter key of a collection schema.
type Field struct {
	Name     string
	Required bool
}

// Collection describes a group of pages sourced from one directory.
type Collection struct {
	Name   string
	Type   string // "page": every file becomes a routable page
	Source string // glob relative to the content directory
	Schema []Field
}

// Collections are the site's content collections.
var Collections = []Collection{
	{Name: "blog", Type: "page", Source: "blog/*.md", Schema: []Field{{Name: "date", Required: true}}},
	{Name: "work", Type: "page", Source: "work/*.md", Schema: []Field{{Name: "date", Required: true}}},
	{Name: "project", Type: "page", Source: "project/*.md", Schema: []Field{{Name: "date", Required: true}}},
}

// Lookup finds a collection by name.
func Lookup(name string) (Collection, bool) {
	for _, c := range Collections {
		if c.Name == name {
			return c, true
		}
	}
	return Collection{}, false
}

// Issue is a schema violation on one front matter key.
type Issue struct {
	Field   string
	Message string
}

func (i Issue) String() string {
	if i.Field == "" {
		return i.Message
	}
	return fmt.Sprintf("%s: %s", i.Field, i.Message)
}

// Validate checks fm against the collection schema.
func (c Collection) Validate(fm FrontMatter) []Issue {
	var issues []Issue
	for _, f := range c.Schema {
		v := fm.lookup(f.Name)
		if v == nil {
			if f.Required {
				issues = append(issues, Issue{Field: f.Name, Message: "Required"})
			}
			continue
		}
		if kind := kindOf(v); kind != "string" {
			issues = append(issues, Issue{Field: f.Name, Message: "Expected string, received " + kind})
		}
	}
	return issues
}
