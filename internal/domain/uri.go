package domain

import (
	"net/url"
	"path/filepath"
	"strings"
)

// PathToURI converts an absolute filesystem path to its canonical file://
// URI form, the representation used when talking to the host editor's
// document space.
func PathToURI(path string) string {
	path = filepath.ToSlash(filepath.Clean(path))
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := url.URL{Scheme: "file", Path: path}
	return u.String()
}

// URIToPath converts a file:// URI back to a filesystem path. Non-file
// URIs are returned unchanged so callers can pass them through.
func URIToPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return uri
	}
	return filepath.FromSlash(u.Path)
}
