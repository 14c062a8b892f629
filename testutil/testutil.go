package testutil

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// IntRange returns a pseudo-random number in [lo,hi].
func (r *RNG) IntRange(lo, hi int) int {
	return lo + r.Intn(hi-lo+1)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Read fills p with pseudo-random bytes. It never fails.
func (r *RNG) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Read(p)
}

// UUID returns a version 4 UUID drawn from the RNG.
func (r *RNG) UUID() uuid.UUID {
	id, err := uuid.NewRandomFromReader(r)
	if err != nil {
		panic(err) // unreachable: Read never fails
	}
	return id
}

// Pick returns a pseudo-random element of items.
func Pick[T any](r *RNG, items []T) T {
	return items[r.Intn(len(items))]
}

// Book is a catalog entry keyed by an int.
type Book struct {
	BookID   int
	Title    string
	Quantity int
}

func (b Book) ID() int { return b.BookID }

// Order is a purchase of one book, keyed by a UUID.
type Order struct {
	OrderID  uuid.UUID
	BookID   int
	Quantity int
}

func (o Order) ID() uuid.UUID { return o.OrderID }

// Gender of a synthetic user.
type Gender int

const (
	Male Gender = iota
	Female
)

// LineItem is a nested order record carried by a User.
type LineItem struct {
	OrderID   uuid.UUID
	Item      string
	Quantity  int
	LotNumber *int
}

// User is a customer profile keyed by a UUID.
type User struct {
	UserID    uuid.UUID
	FirstName string
	LastName  string
	Email     string
	Avatar    string
	CartID    uuid.UUID
	SSN       string
	Gender    Gender
	Orders    []LineItem
}

func (u User) ID() uuid.UUID { return u.UserID }

var (
	fruit      = []string{"apple", "banana", "orange", "strawberry", "kiwi"}
	firstNames = []string{"Ada", "Alan", "Barbara", "Donald", "Edsger", "Frances", "Grace", "Ken", "Leslie", "Margaret"}
	lastNames  = []string{"Hopper", "Knuth", "Lamport", "Liskov", "Lovelace", "Ritchie", "Thompson", "Turing", "Allen", "Hamilton"}
)

// Books returns n books with ids 0..n-1 and quantities in [1,10].
func (r *RNG) Books(n int) []Book {
	books := make([]Book, n)
	for i := range books {
		books[i] = Book{
			BookID:   i,
			Title:    fmt.Sprintf("book_%d", i),
			Quantity: r.IntRange(1, 10),
		}
	}
	return books
}

// Orders returns n orders, each for a book picked from books.
func (r *RNG) Orders(n int, books []Book) []Order {
	orders := make([]Order, n)
	for i := range orders {
		orders[i] = Order{
			OrderID:  r.UUID(),
			BookID:   Pick(r, books).BookID,
			Quantity: r.IntRange(1, 5),
		}
	}
	return orders
}

// Users returns n users with five line items each.
func (r *RNG) Users(n int) []User {
	users := make([]User, n)
	for i := range users {
		first, last := Pick(r, firstNames), Pick(r, lastNames)
		u := User{
			UserID:    r.UUID(),
			FirstName: first,
			LastName:  last,
			Email:     fmt.Sprintf("%s.%s%d@example.com", first, last, r.Intn(1000)),
			CartID:    r.UUID(),
			SSN:       fmt.Sprintf("%03d-%02d-%04d", r.Intn(1000), r.Intn(100), r.Intn(10000)),
			Gender:    Gender(r.Intn(2)),
			Orders:    make([]LineItem, 5),
		}
		u.Avatar = "https://avatars.example.com/" + u.UserID.String()
		for j := range u.Orders {
			item := LineItem{
				OrderID:  r.UUID(),
				Item:     Pick(r, fruit),
				Quantity: r.IntRange(1, 10),
			}
			if r.Float64() >= 0.8 {
				lot := r.IntRange(0, 100)
				item.LotNumber = &lot
			}
			u.Orders[j] = item
		}
		users[i] = u
	}
	return users
}
