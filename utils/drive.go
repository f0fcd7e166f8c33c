package utils

import (
	"regexp"
	"strings"
)

var (
	driveFilePath = regexp.MustCompile(`/file/d/([a-zA-Z0-9_-]+)`)
	driveIDParam  = regexp.MustCompile(`[?&]id=([a-zA-Z0-9_-]+)`)
)

// DriveFileID extracts the file id from a Google Drive share link, either the
// /file/d/ID/view form or the open?id=ID form.
func DriveFileID(url string) (string, bool) {
	if m := driveFilePath.FindStringSubmatch(url); m != nil {
		return m[1], true
	}
	if m := driveIDParam.FindStringSubmatch(url); m != nil {
		return m[1], true
	}
	return "", false
}

// DriveEmbedURL returns the preview URL used by the in-browser PDF reader.
// A URL that is already a preview link is returned unchanged; anything else
// that is not a Drive link reports false.
func DriveEmbedURL(url string) (string, bool) {
	if url == "" {
		return "", false
	}
	if id, ok := DriveFileID(url); ok {
		return "https://drive.google.com/file/d/" + id + "/preview", true
	}
	if strings.Contains(url, "/preview") {
		return url, true
	}
	return "", false
}

// DriveDownloadURL is the link a download redirects to. Downloads go to the
// stored Drive page as-is.
func DriveDownloadURL(url string) string {
	return url
}

// DriveDirectImageURL turns a Drive share link into a direct image URL that
// can be used as a cover src. Non-Drive URLs pass through.
func DriveDirectImageURL(url string) string {
	if id, ok := DriveFileID(url); ok {
		return "https://lh3.googleusercontent.com/d/" + id
	}
	return url
}
