package blobid

import (
	"strings"
	"unicode/utf8"
)

// TryParse parses a serialized identifier. It reports false instead of
// returning an error and is the cheap way to check whether a string is an
// identifier at all.
//
// The bucket ends at the first delimiter after the prefix token, which is
// unambiguous because bucket names cannot contain the delimiter. Everything
// after it is the object key. The name prefix ends at the last path
// separator of the key and the extension starts at the last dot of the
// remaining file part, so "a.b.c" has suffix "a.b" and extension "c".
// A key starting with the path separator has no prefix to hold and is
// rejected. Lengths are counted in characters, not bytes.
func TryParse(s string) (ID, bool) {
	if utf8.RuneCountInString(s) > MaxLength || !strings.HasPrefix(s, prefixWithDelimiter) {
		return ID{}, false
	}

	rest := s[len(prefixWithDelimiter):]
	end := strings.Index(rest, Delimiter)
	if end < 0 {
		return ID{}, false
	}

	bucket, key := rest[:end], rest[end+len(Delimiter):]
	if key == "" || !ValidBucket(bucket) {
		return ID{}, false
	}

	prefix, file := "", key
	if i := strings.LastIndex(key, PathSeparator); i == 0 {
		return ID{}, false
	} else if i > 0 {
		prefix, file = key[:i], key[i+len(PathSeparator):]
	}

	suffix, extension := file, ""
	if i := strings.LastIndex(file, ExtensionSeparator); i > 0 && i < len(file)-1 {
		suffix, extension = file[:i], file[i+len(ExtensionSeparator):]
	}
	if suffix == "" {
		return ID{}, false
	}

	return ID{
		bucket:    bucket,
		prefix:    prefix,
		suffix:    suffix,
		extension: extension,
		key:       key,
	}, true
}

// Parse parses a serialized identifier, returning a *FormatError when s
// does not follow the grammar described on TryParse.
func Parse(s string) (ID, error) {
	id, ok := TryParse(s)
	if !ok {
		return ID{}, &FormatError{Input: s}
	}
	return id, nil
}

// MustParse is like Parse but panics on malformed input. It is meant for
// constants and test fixtures.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}
