package ndl

import (
	"encoding/xml"
	"regexp"
	"strings"

	"github.com/hondana-app/hondana-server/internal/metadata"
)

// sruEnvelope is the outer searchRetrieve response. With
// recordPacking=string each recordData element holds the dcndl record as an
// entity-encoded string, which the XML decoder hands us already unescaped.
type sruEnvelope struct {
	NumberOfRecords int         `xml:"numberOfRecords"`
	Records         []sruRecord `xml:"records>record"`
}

type sruRecord struct {
	Data string `xml:"recordData"`
}

// dcndlRecord is the inner RDF document carried by one recordData string.
type dcndlRecord struct {
	Resources []bibResource `xml:"BibResource"`
}

type bibResource struct {
	Title       string       `xml:"http://purl.org/dc/terms/ title"`
	Creators    []agentRef   `xml:"http://purl.org/dc/terms/ creator"`
	Publishers  []agentRef   `xml:"http://purl.org/dc/terms/ publisher"`
	Identifiers []identifier `xml:"http://purl.org/dc/terms/ identifier"`
	Issued      string       `xml:"http://purl.org/dc/terms/ issued"`
}

type agentRef struct {
	Name string `xml:"Agent>name"`
}

type identifier struct {
	Datatype string `xml:"datatype,attr"`
	Value    string `xml:",chardata"`
}

// birthYearSuffix matches the trailing lifespan annotation NDL appends to
// personal names, e.g. "村田, 沙耶香, 1979-".
var birthYearSuffix = regexp.MustCompile(`,\s*\d{4}-?.*$`)

var commaSpace = regexp.MustCompile(`,\s*`)

func parseSearchResponse(body []byte) ([]metadata.Book, error) {
	var envelope sruEnvelope
	if err := xml.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}

	books := make([]metadata.Book, 0, len(envelope.Records))
	for _, record := range envelope.Records {
		if strings.TrimSpace(record.Data) == "" {
			continue
		}

		var inner dcndlRecord
		// Malformed individual records are skipped, not fatal.
		if err := xml.Unmarshal([]byte(record.Data), &inner); err != nil {
			continue
		}

		for _, resource := range inner.Resources {
			book, ok := normalizeResource(resource)
			if !ok {
				continue
			}
			books = append(books, book)
		}
	}

	return books, nil
}

func normalizeResource(resource bibResource) (metadata.Book, bool) {
	title := strings.TrimSpace(resource.Title)
	if title == "" {
		return metadata.Book{}, false
	}

	book := metadata.Book{Title: title}

	if len(resource.Creators) > 0 {
		if name := normalizeAuthor(resource.Creators[0].Name); name != "" {
			book.Author = &name
		}
	}

	if len(resource.Publishers) > 0 {
		if name := strings.TrimSpace(resource.Publishers[0].Name); name != "" {
			book.Publisher = &name
		}
	}

	for _, id := range resource.Identifiers {
		if !strings.Contains(id.Datatype, "ISBN") {
			continue
		}
		if isbn := metadata.NormalizeISBN(strings.TrimSpace(id.Value)); isbn != "" {
			book.ISBN = &isbn
			break
		}
	}

	if issued := strings.TrimSpace(resource.Issued); issued != "" {
		book.PublishedDate = &issued
	}

	if book.ISBN != nil {
		book.ExternalRef = metadata.NDLRef(*book.ISBN)
	} else {
		book.ExternalRef = metadata.NDLFallbackRef()
	}

	// Cover URLs are filled in later from openBD.
	return book, true
}

// normalizeAuthor strips NDL's inverted-name formatting:
// "村田, 沙耶香, 1979-" becomes "村田沙耶香".
func normalizeAuthor(raw string) string {
	name := birthYearSuffix.ReplaceAllString(raw, "")
	name = commaSpace.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}
