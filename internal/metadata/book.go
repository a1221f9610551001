// Package metadata defines the normalized book shape shared by all
// bibliographic catalog adapters, and the external reference scheme that
// addresses a book before it has a local row.
package metadata

import (
	"strings"

	"github.com/google/uuid"
)

// Book is a normalized bibliographic record as returned by a catalog
// adapter. It is produced fresh per lookup and never mutated; callers
// that need different field values rebuild it.
type Book struct {
	ExternalRef   string  `json:"external_ref"`
	Title         string  `json:"title"`
	Author        *string `json:"author,omitempty"` // comma-joined when the source lists several
	ISBN          *string `json:"isbn,omitempty"`   // 10 or 13 digits, hyphens stripped
	CoverImageURL *string `json:"cover_image_url,omitempty"`
	Publisher     *string `json:"publisher,omitempty"`
	PublishedDate *string `json:"published_date,omitempty"` // as reported by the source, may be partial
	Description   *string `json:"description,omitempty"`
}

// NDL external references are synthesized because the library catalog has
// no usable record identifier of its own. A record with an ISBN gets a
// ref derived from it, which stays stable across searches. Records
// without an ISBN get a random one-shot ref: it keeps the search result
// addressable within a result list but cannot be resolved again later,
// and detail lookups on it report not found.
const (
	ndlRefPrefix         = "ndl-"
	ndlFallbackRefPrefix = "ndl-x-"
)

// NDLRef builds the external reference for a library-catalog record with
// the given ISBN. Hyphens are stripped first.
func NDLRef(isbn string) string {
	return ndlRefPrefix + NormalizeISBN(isbn)
}

// NDLFallbackRef builds a one-shot external reference for a
// library-catalog record without an ISBN.
func NDLFallbackRef() string {
	return ndlFallbackRefPrefix + uuid.NewString()
}

// IsNDLRef reports whether ref was synthesized from a library-catalog
// record.
func IsNDLRef(ref string) bool {
	return strings.HasPrefix(ref, ndlRefPrefix)
}

// ISBNFromNDLRef extracts the ISBN an NDL reference was synthesized from.
// Returns false for fallback refs and non-NDL refs.
func ISBNFromNDLRef(ref string) (string, bool) {
	if strings.HasPrefix(ref, ndlFallbackRefPrefix) {
		return "", false
	}
	isbn, ok := strings.CutPrefix(ref, ndlRefPrefix)
	if !ok || isbn == "" {
		return "", false
	}
	return isbn, true
}

// NormalizeISBN strips hyphens from an ISBN.
func NormalizeISBN(isbn string) string {
	return strings.ReplaceAll(isbn, "-", "")
}
