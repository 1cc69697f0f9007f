package entity

// Record is one catalog entry. It has no identity of its own: a record is
// addressed by its position in the catalog.
type Record struct {
	Title  string `json:"title" yaml:"title"`
	Author string `json:"author" yaml:"author"`
}

func NewRecord(title, author string) Record {
	return Record{Title: title, Author: author}
}

// Display renders the row text shown by the list views.
func (r Record) Display() string {
	return "📘  " + r.Title + "   |   ✍ " + r.Author
}
