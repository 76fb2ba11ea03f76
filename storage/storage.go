package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"tweetClone/errs"
)

// validName makes sure that a filename can not escape the store's directory or bucket prefix.
func validName(filename string) error {
	if filename == "" || filename == "." || filename == ".." ||
		strings.ContainsAny(filename, `/\`) || filepath.Base(filename) != filename {
		return errs.Errorf(errs.EINVALID, "Invalid media filename %q.", filename)
	}
	return nil
}

// joinURL appends an escaped filename to a base url.
func joinURL(base, filename string) string {
	return fmt.Sprintf("%s/%s", strings.TrimSuffix(base, "/"), filename)
}
