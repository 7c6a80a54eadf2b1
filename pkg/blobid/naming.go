package blobid

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// Delimiter joins the prefix token, the bucket and the object key.
	Delimiter = "_"

	// PathSeparator separates name prefix segments inside the object key.
	PathSeparator = "/"

	// ExtensionSeparator separates the unique suffix from the extension.
	ExtensionSeparator = "."

	// MinBucketLength and MaxBucketLength follow the S3 bucket naming rules.
	MinBucketLength = 3
	MaxBucketLength = 63

	// MaxNamePrefixLength is what remains of MaxLength once the token, the
	// longest bucket, both delimiters, the separators, the suffix and the
	// longest extension are accounted for: 255-4-63-1-1-22-1-10.
	MaxNamePrefixLength = 153

	// MaxExtensionLength is the longest extension, without its dot.
	MaxExtensionLength = 10
)

// https://docs.aws.amazon.com/AmazonS3/latest/userguide/bucketnamingrules.html
var bucketPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9.\-]*[a-z0-9]$`)

// ValidBucket reports whether name can be used as the bucket segment.
// Bucket names are taken verbatim, so uppercase input is rejected rather
// than lowercased.
func ValidBucket(name string) bool {
	if len(name) < MinBucketLength || len(name) > MaxBucketLength {
		return false
	}
	if strings.Contains(name, Delimiter) {
		return false
	}
	return bucketPattern.MatchString(name)
}

// ValidNamePrefix reports whether prefix can be used as a name prefix.
// A blank prefix is valid and means "no prefix".
func ValidNamePrefix(prefix string) bool {
	if isBlank(prefix) {
		return true
	}
	if utf8.RuneCountInString(prefix) > MaxNamePrefixLength {
		return false
	}
	return !strings.Contains(prefix, Delimiter)
}

// NormalizeNamePrefix trims whitespace and then leading and trailing path
// separators. A blank result means "no prefix".
func NormalizeNamePrefix(prefix string) string {
	if isBlank(prefix) {
		return ""
	}
	return strings.Trim(strings.TrimSpace(prefix), PathSeparator)
}

// ValidExtension reports whether ext can be used as a file extension.
// A leading dot is allowed; a blank extension is valid and means "none".
// Inner dots are rejected: only the final dot of an object key separates
// the extension, so "tar.gz" could not be parsed back as one extension.
func ValidExtension(ext string) bool {
	if isBlank(ext) {
		return true
	}
	ext = strings.TrimLeft(ext, ExtensionSeparator)
	if utf8.RuneCountInString(ext) > MaxExtensionLength {
		return false
	}
	return !strings.ContainsAny(ext, Delimiter+PathSeparator+ExtensionSeparator)
}

// NormalizeExtension strips leading dots and lowercases ext.
func NormalizeExtension(ext string) string {
	if isBlank(ext) {
		return ""
	}
	return strings.ToLower(strings.TrimLeft(ext, ExtensionSeparator))
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
