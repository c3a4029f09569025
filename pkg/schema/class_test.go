package schema_test

import (
	"testing"

	// Packages
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mutablelogic/go-dfs/pkg/schema"
)

func TestExt(t *testing.T) {
	tests := []struct {
		name string
		ext  string
	}{
		{"photo.jpg", "jpg"},
		{"PHOTO.JPG", "jpg"},
		{"archive.tar.gz", "gz"},
		{"docs/readme.md", "md"},
		{"docs\\readme.md", "md"},
		{"noext", ""},
		{"trailing.", ""},
		{".hidden", "hidden"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ext, schema.Ext(tt.name), tt.name)
	}
}

func TestClassOf(t *testing.T) {
	tests := []struct {
		name  string
		class schema.Class
		ok    bool
	}{
		{"a.jpg", schema.ClassImage, true},
		{"a.PNG", schema.ClassImage, true},
		{"b.mp4", schema.ClassVideo, true},
		{"b.mkv", schema.ClassVideo, true},
		{"c.txt", schema.ClassText, true},
		{"c.pdf", schema.ClassText, true},
		{"d.mp3", schema.ClassSound, true},
		{"d.flac", schema.ClassSound, true},
		{"e.zip", schema.ClassCompressed, true},
		{"e.7z", schema.ClassCompressed, true},
		{"f.xyz", "", false},
		{"noext", "", false},
	}
	for _, tt := range tests {
		class, ok := schema.ClassOf(tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
		if tt.ok {
			assert.Equal(t, tt.class, class, tt.name)
		}
	}
}

func TestClasses(t *testing.T) {
	classes := schema.Classes()
	require.Len(t, classes, 5)
	for _, class := range classes {
		assert.True(t, class.Valid())
		assert.NotEmpty(t, class.Extensions())
	}
	assert.False(t, schema.Class("document").Valid())
	assert.False(t, schema.Class("").Valid())
}

func TestMatchesFilter(t *testing.T) {
	tests := []struct {
		name    string
		filters []string
		match   bool
	}{
		{"a.jpg", []string{"all"}, true},
		{"a.jpg", []string{"image"}, true},
		{"a.jpg", []string{"video"}, false},
		{"a.jpg", []string{"jpg"}, true},
		{"a.jpg", []string{"png"}, false},
		{"a.jpg", []string{"video", "jpg"}, true},
		{"a.jpg", []string{"folder"}, false},
		{"a.jpg", []string{"folder", "all"}, true},
		{"a.jpg", []string{"IMAGE"}, true},
		{"noext", []string{"all"}, true},
		{"noext", []string{"image"}, false},
		{"noext", []string{""}, false},
		{"a.jpg", nil, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.match, schema.MatchesFilter(tt.name, tt.filters), "%s %v", tt.name, tt.filters)
	}
}

func TestHasFolderFilter(t *testing.T) {
	assert.True(t, schema.HasFolderFilter([]string{"folder"}))
	assert.True(t, schema.HasFolderFilter([]string{"all", "Folder"}))
	assert.False(t, schema.HasFolderFilter([]string{"all"}))
	assert.False(t, schema.HasFolderFilter(nil))
}
