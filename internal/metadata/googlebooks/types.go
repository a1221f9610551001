package googlebooks

// Raw API response types (internal)

type rawSearchResponse struct {
	TotalItems int         `json:"totalItems"`
	Items      []rawVolume `json:"items"`
}

type rawVolume struct {
	ID         string        `json:"id"`
	VolumeInfo rawVolumeInfo `json:"volumeInfo"`
}

type rawVolumeInfo struct {
	Title               string          `json:"title"`
	Subtitle            string          `json:"subtitle"`
	Authors             []string        `json:"authors"`
	Publisher           string          `json:"publisher"`
	PublishedDate       string          `json:"publishedDate"`
	Description         string          `json:"description"`
	IndustryIdentifiers []rawIdentifier `json:"industryIdentifiers"`
	ImageLinks          rawImageLinks   `json:"imageLinks"`
}

type rawIdentifier struct {
	Type       string `json:"type"` // ISBN_10, ISBN_13, ISSN, OTHER
	Identifier string `json:"identifier"`
}

type rawImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
}
