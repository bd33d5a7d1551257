package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestParseFrontMatter(t *testing.T) {
	fm, body, err := ParseFrontMatter([]byte("---\ndate: 2024-01-02\ntitle: Hello\n---\n# Heading\n\ntext\n"))
	require.NoError(t, err)
	assert.Equal(t, "# Heading\n\ntext\n", string(body))

	date, ok := fm.String("date")
	assert.True(t, ok)
	assert.Equal(t, "2024-01-02", date)
	title, _ := fm.String("title")
	assert.Equal(t, "Hello", title)
}

func TestParseFrontMatterAbsent(t *testing.T) {
	src := []byte("# Just markdown\n")
	fm, body, err := ParseFrontMatter(src)
	require.NoError(t, err)
	assert.Equal(t, src, body)
	_, ok := fm.String("date")
	assert.False(t, ok)
}

func TestParseFrontMatterErrors(t *testing.T) {
	_, _, err := ParseFrontMatter([]byte("---\ndate: 2024-01-02\n"))
	assert.EqualError(t, err, "unterminated front matter")

	_, _, err = ParseFrontMatter([]byte("---\n- a\n- b\n---\n"))
	assert.EqualError(t, err, "front matter must be a mapping")

	_, _, err = ParseFrontMatter([]byte("---\ndate: [unclosed\n---\n"))
	assert.Error(t, err)
}

func TestCollectionValidate(t *testing.T) {
	blog, ok := Lookup("blog")
	require.True(t, ok)

	tests := []struct {
		name string
		src  string
		want []Issue
	}{
		{"string date", "---\ndate: \"March 2024\"\n---\n", nil},
		{"timestamp date", "---\ndate: 2024-03-01\n---\n", nil},
		{"missing", "---\ntitle: x\n---\n", []Issue{{Field: "date", Message: "Required"}}},
		{"no front matter", "body only\n", []Issue{{Field: "date", Message: "Required"}}},
		{"number", "---\ndate: 2024\n---\n", []Issue{{Field: "date", Message: "Expected string, received number"}}},
		{"null", "---\ndate:\n---\n", []Issue{{Field: "date", Message: "Expected string, received null"}}},
		{"list", "---\ndate: [a]\n---\n", []Issue{{Field: "date", Message: "Expected string, received array"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, _, err := ParseFrontMatter([]byte(tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.want, blog.Validate(fm))
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	_, ok := Lookup("drafts")
	assert.False(t, ok)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "blog/older.md", "---\ndate: 2023-05-01\ntitle: Older post\n---\nbody\n")
	writeFile(t, dir, "blog/2.newer.md", "---\ndate: 2024-05-01\ndescription: fresh\n---\n# Newer post\n")
	writeFile(t, dir, "blog/broken.md", "---\ntitle: no date\n---\n")
	writeFile(t, dir, "blog/notes.txt", "ignored")
	writeFile(t, dir, "work/acme.md", "---\ndate: \"2022\"\n---\nno heading\n")

	lib, err := Load(dir)
	require.NoError(t, err)

	blog := lib.Collection("blog")
	require.Len(t, blog, 2)
	assert.Equal(t, "newer", blog[0].Slug)
	assert.Equal(t, "/blog/newer", blog[0].Path)
	assert.Equal(t, "Newer post", blog[0].Title)
	assert.Equal(t, "fresh", blog[0].Description)
	assert.Equal(t, "older", blog[1].Slug)
	assert.Equal(t, "Older post", blog[1].Title)

	work := lib.Collection("work")
	require.Len(t, work, 1)
	assert.Equal(t, "acme", work[0].Title)
	assert.Equal(t, "2022", work[0].Date)

	assert.Empty(t, lib.Collection("project"))

	require.Len(t, lib.Problems, 1)
	assert.Equal(t, "blog/broken.md", lib.Problems[0].File)
	assert.Equal(t, "blog/broken.md: date: Required", lib.Problems[0].Error())

	e, ok := lib.Find("blog", "older")
	require.True(t, ok)
	assert.Equal(t, "body\n", e.Body)
	_, ok = lib.Find("work", "older")
	assert.False(t, ok)
}

func TestLoadMissingDir(t *testing.T) {
	lib, err := Load(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, lib.Entries)
	assert.Empty(t, lib.Problems)
}

func TestLoadSameDateOrdersBySlug(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "project/b.md", "---\ndate: \"2024\"\n---\n")
	writeFile(t, dir, "project/a.md", "---\ndate: \"2024\"\n---\n")

	lib, err := Load(dir)
	require.NoError(t, err)
	got := lib.Collection("project")
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Slug)
	assert.Equal(t, "b", got[1].Slug)
}

func TestFirstHeadingSkipsCode(t *testing.T) {
	body := []byte("```\n# not a title\n```\n# Real title\n")
	assert.Equal(t, "Real title", firstHeading(body))
}

func TestLoadOrdersMixedDateFormats(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "blog/old.md", "---\ndate: March 2020\n---\n")
	writeFile(t, dir, "blog/new.md", "---\ndate: \"2025-06-01\"\n---\n")
	writeFile(t, dir, "blog/mid.md", "---\ndate: 2023-11-05\n---\n")
	writeFile(t, dir, "blog/someday.md", "---\ndate: someday\n---\n")
	writeFile(t, dir, "blog/later.md", "---\ndate: eventually\n---\n")

	lib, err := Load(dir)
	require.NoError(t, err)

	var slugs []string
	for _, e := range lib.Collection("blog") {
		slugs = append(slugs, e.Slug)
	}
	assert.Equal(t, []string{"new", "mid", "old", "later", "someday"}, slugs)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-03-01", "2024-03-01", true},
		{"2024-03-01T10:00:00Z", "2024-03-01", true},
		{"March 2024", "2024-03-01", true},
		{"Mar 2024", "2024-03-01", true},
		{"March 5, 2024", "2024-03-05", true},
		{" 2021 ", "2021-01-01", true},
		{"someday", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseDate(tt.in)
		require.Equal(t, tt.ok, ok, tt.in)
		if ok {
			assert.Equal(t, tt.want, got.Format("2006-01-02"), tt.in)
		}
	}
}
