package books

import "fmt"

// Book is one catalogue entry.
type Book struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// BargainThreshold is the exclusive upper price bound of the bargain list.
const BargainThreshold = 20

// MaxPrice is the largest price books.price NUMERIC(10,2) can hold.
const MaxPrice = 99999999.99

// SearchResult echoes the keyword with its matches.
type SearchResult struct {
	Keyword string `json:"keyword"`
	Results []Book `json:"results"`
}

// AddedMessage is the confirmation returned after a book is stored.
func AddedMessage(b Book) string {
	return fmt.Sprintf("This book is added to database, name: %s price %s", b.Name, formatPrice(b.Price))
}

func formatPrice(p float64) string {
	return fmt.Sprintf("%g", p)
}
