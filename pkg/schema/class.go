package schema

import (
	"path"
	"strings"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Class partitions files by content type. Each backend process serves exactly
// one class; the coordinator routes by it.
type Class string

const (
	ClassImage      Class = "image"
	ClassVideo      Class = "video"
	ClassText       Class = "text"
	ClassSound      Class = "sound"
	ClassCompressed Class = "compressed"
)

// Filter tokens with meaning beyond class names and literal extensions
const (
	FilterAll    = "all"
	FilterFolder = "folder"
)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

// extclass maps a lowercase file extension (without dot) to its content class.
var extclass = map[string]Class{
	"jpg": ClassImage, "jpeg": ClassImage, "png": ClassImage, "bmp": ClassImage, "gif": ClassImage,
	"mp4": ClassVideo, "mkv": ClassVideo, "webm": ClassVideo, "flv": ClassVideo, "avi": ClassVideo,
	"txt": ClassText, "md": ClassText, "doc": ClassText, "docx": ClassText, "pdf": ClassText,
	"mp3": ClassSound, "m4a": ClassSound, "m4p": ClassSound, "flac": ClassSound, "ogg": ClassSound,
	"zip": ClassCompressed, "rar": ClassCompressed, "7z": ClassCompressed,
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Classes returns all content classes, in routing order.
func Classes() []Class {
	return []Class{ClassImage, ClassVideo, ClassText, ClassSound, ClassCompressed}
}

// Valid returns true for a known content class.
func (c Class) Valid() bool {
	switch c {
	case ClassImage, ClassVideo, ClassText, ClassSound, ClassCompressed:
		return true
	}
	return false
}

// Extensions returns the extensions claimed by the class, without dots.
func (c Class) Extensions() []string {
	var result []string
	for ext, class := range extclass {
		if class == c {
			result = append(result, ext)
		}
	}
	return result
}

// Ext returns the extension of a file name: the lowercase token after the
// last dot of the basename, or an empty string when there is none.
func Ext(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	i := strings.LastIndexByte(base, '.')
	if i < 0 || i == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[i+1:])
}

// ClassOf classifies a file name by its extension. The second return value is
// false when the extension is unknown.
func ClassOf(name string) (Class, bool) {
	class, ok := extclass[Ext(name)]
	return class, ok
}

// MatchesFilter reports whether the file name matches at least one filter
// token. A token may be "all", a class name, or a literal extension. The
// "folder" token never matches a file.
func MatchesFilter(name string, filters []string) bool {
	ext := Ext(name)
	for _, filter := range filters {
		filter = strings.ToLower(filter)
		switch filter {
		case FilterAll:
			return true
		case FilterFolder:
			continue
		}
		if Class(filter).Valid() {
			if extclass[ext] == Class(filter) {
				return true
			}
			continue
		}
		if ext != "" && ext == filter {
			return true
		}
	}
	return false
}

// HasFolderFilter reports whether the filter set suppresses subdirectories.
func HasFolderFilter(filters []string) bool {
	for _, filter := range filters {
		if strings.EqualFold(filter, FilterFolder) {
			return true
		}
	}
	return false
}
