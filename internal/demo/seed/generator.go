package seed

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"
)

type Customer struct {
	ID        int64
	Name      string
	Email     string
	Country   string
	CreatedAt time.Time
}

type Order struct {
	ID          int64
	CustomerID  int64
	Status      string
	TotalAmount float64
	Currency    string
	CreatedAt   time.Time
}

// Generator emits deterministic synthetic customers and orders for a
// given seed so repeated runs produce identical demo data.
type Generator struct {
	rnd         *rand.Rand
	customerSeq int64
	orderSeq    int64
	now         func() time.Time
}

func NewGenerator(seed int64) *Generator {
	return &Generator{
		rnd: rand.New(rand.NewSource(seed)),
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (g *Generator) NextCustomer() Customer {
	g.customerSeq++
	first := pickOne(g.rnd, firstNames)
	last := pickOne(g.rnd, lastNames)

	return Customer{
		ID:        g.customerSeq,
		Name:      first + " " + last,
		Email:     fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), g.customerSeq),
		Country:   pickOne(g.rnd, []string{"US", "DE", "GB", "IN", "JP", "BR"}),
		CreatedAt: g.pastTimestamp(),
	}
}

// NextOrder assigns the order to one of the first customerCount customer IDs.
func (g *Generator) NextOrder(customerCount int) Order {
	g.orderSeq++
	status := g.pickStatus()

	return Order{
		ID:          g.orderSeq,
		CustomerID:  g.rnd.Int63n(int64(customerCount)) + 1,
		Status:      status,
		TotalAmount: round2(5 + g.rnd.Float64()*495),
		Currency:    "USD",
		CreatedAt:   g.pastTimestamp(),
	}
}

func (g *Generator) pickStatus() string {
	p := g.rnd.Intn(100)
	switch {
	case p < 20:
		return "pending"
	case p < 45:
		return "paid"
	case p < 70:
		return "shipped"
	case p < 92:
		return "delivered"
	default:
		return "cancelled"
	}
}

// pastTimestamp spreads rows over the trailing 90 days.
func (g *Generator) pastTimestamp() time.Time {
	return g.now().Add(-time.Duration(g.rnd.Intn(90*24)) * time.Hour)
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func pickOne(r *rand.Rand, values []string) string {
	return values[r.Intn(len(values))]
}

var firstNames = []string{
	"Ada", "Bruno", "Clara", "Daniel", "Elena", "Felix", "Grace", "Hugo",
	"Ines", "Jonas", "Kira", "Leo", "Mara", "Nils", "Olga", "Paul",
}

var lastNames = []string{
	"Adler", "Berger", "Curie", "Dietrich", "Engel", "Fischer", "Graf",
	"Hoffmann", "Ibers", "Jung", "Keller", "Lang", "Meier", "Neumann",
}
