package domain

// Book is a catalog entry. Quantity is server-authoritative: borrows and
// returns change it on the backend only, and the client sees the new value
// on the next fetch.
type Book struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// Available reports whether at least one copy is on the shelf.
func (b Book) Available() bool {
	return b.Quantity > 0
}
