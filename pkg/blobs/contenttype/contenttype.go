// Package contenttype maps file names and extensions to MIME types.
package contenttype

import (
	"path"
	"strings"
)

// Application types.
const (
	JSON           = "application/json"
	XML            = "application/xml"
	PDF            = "application/pdf"
	Zip            = "application/zip"
	OctetStream    = "application/octet-stream"
	FormURLEncoded = "application/x-www-form-urlencoded"
	Gzip           = "application/gzip"
	SevenZip       = "application/x-7z-compressed"
	Rar            = "application/vnd.rar"
	Tar            = "application/x-tar"

	MSWord       = "application/msword"
	MSExcel      = "application/vnd.ms-excel"
	MSPowerPoint = "application/vnd.ms-powerpoint"
	MSFontObject = "application/vnd.ms-fontobject"

	WordDocument           = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ExcelSpreadsheet       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	PowerPointPresentation = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

	OpenDocumentText         = "application/vnd.oasis.opendocument.text"
	OpenDocumentSpreadsheet  = "application/vnd.oasis.opendocument.spreadsheet"
	OpenDocumentPresentation = "application/vnd.oasis.opendocument.presentation"
)

// Text types.
const (
	TextPlain = "text/plain"
	TextHTML  = "text/html"
	TextCSS   = "text/css"
	TextCSV   = "text/csv"
)

// Image types.
const (
	ImageJPEG = "image/jpeg"
	ImagePNG  = "image/png"
	ImageGIF  = "image/gif"
	ImageWebP = "image/webp"
	ImageSVG  = "image/svg+xml"
	ImageBMP  = "image/bmp"
	ImageIcon = "image/x-icon"
	ImageTIFF = "image/tiff"
)

// Audio types.
const (
	AudioMP3  = "audio/mpeg"
	AudioWAV  = "audio/wav"
	AudioOgg  = "audio/ogg"
	AudioMP4  = "audio/mp4"
	AudioFLAC = "audio/flac"
	AudioAAC  = "audio/aac"
)

// Video types.
const (
	VideoMP4          = "video/mp4"
	VideoWebM         = "video/webm"
	VideoAVI          = "video/x-msvideo"
	VideoQuickTime    = "video/quicktime"
	VideoWindowsMedia = "video/x-ms-wmv"
	VideoFlash        = "video/x-flv"
	VideoMatroska     = "video/x-matroska"
	VideoM4V          = "video/x-m4v"
)

// Font types.
const (
	FontWOFF     = "font/woff"
	FontWOFF2    = "font/woff2"
	FontTrueType = "font/ttf"
	FontOpenType = "font/otf"
)

// byExtension is keyed by lowercase extension without the dot. It is never
// written after initialization.
var byExtension = map[string]string{
	"pdf":  PDF,
	"json": JSON,
	"xml":  XML,
	"txt":  TextPlain,
	"html": TextHTML,
	"htm":  TextHTML,
	"css":  TextCSS,
	"csv":  TextCSV,

	"zip": Zip,
	"7z":  SevenZip,
	"rar": Rar,
	"tar": Tar,
	"gz":  Gzip,

	"jpg":  ImageJPEG,
	"jpeg": ImageJPEG,
	"png":  ImagePNG,
	"gif":  ImageGIF,
	"webp": ImageWebP,
	"svg":  ImageSVG,
	"bmp":  ImageBMP,
	"ico":  ImageIcon,
	"tiff": ImageTIFF,
	"tif":  ImageTIFF,

	"mp3":  AudioMP3,
	"wav":  AudioWAV,
	"ogg":  AudioOgg,
	"m4a":  AudioMP4,
	"flac": AudioFLAC,
	"aac":  AudioAAC,

	"mp4":  VideoMP4,
	"webm": VideoWebM,
	"avi":  VideoAVI,
	"mov":  VideoQuickTime,
	"wmv":  VideoWindowsMedia,
	"flv":  VideoFlash,
	"mkv":  VideoMatroska,
	"m4v":  VideoM4V,

	"doc": MSWord,
	"xls": MSExcel,
	"ppt": MSPowerPoint,

	"docx": WordDocument,
	"xlsx": ExcelSpreadsheet,
	"pptx": PowerPointPresentation,

	"odt": OpenDocumentText,
	"ods": OpenDocumentSpreadsheet,
	"odp": OpenDocumentPresentation,

	"woff":  FontWOFF,
	"woff2": FontWOFF2,
	"ttf":   FontTrueType,
	"otf":   FontOpenType,
	"eot":   MSFontObject,
}

// FromFileName resolves the MIME type from the extension after the last dot
// of name's final path element. Unknown or missing extensions resolve to
// OctetStream.
func FromFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return OctetStream
	}
	return FromExtension(path.Ext(path.Base(name)))
}

// FromExtension resolves the MIME type of ext, with or without its leading
// dot, ignoring case.
func FromExtension(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	if ct, ok := byExtension[ext]; ok {
		return ct
	}
	return OctetStream
}

// Known reports whether ext has a registered MIME type.
func Known(ext string) bool {
	_, ok := byExtension[strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))]
	return ok
}
