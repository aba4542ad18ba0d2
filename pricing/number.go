package pricing

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const (
	OrderNumberPrefix        = "WS"
	QuoteRequestNumberPrefix = "QR"
)

// Rand is the slice of math/rand/v2 the number generators need.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// GenerateOrderNumber formats WS-YYYYMMDD-NNNN using the UTC date of now and a
// suffix drawn uniformly from [1000, 9999]. Uniqueness is not checked here.
func GenerateOrderNumber(now time.Time, r Rand) string {
	return referenceNumber(OrderNumberPrefix, now, r)
}

// GenerateQuoteRequestNumber formats QR-YYYYMMDD-NNNN.
func GenerateQuoteRequestNumber(now time.Time, r Rand) string {
	return referenceNumber(QuoteRequestNumberPrefix, now, r)
}

// NewOrderNumber generates an order number for the current time.
func NewOrderNumber() string {
	return GenerateOrderNumber(time.Now(), globalRand{})
}

// NewQuoteRequestNumber generates a quote request number for the current time.
func NewQuoteRequestNumber() string {
	return GenerateQuoteRequestNumber(time.Now(), globalRand{})
}

func referenceNumber(prefix string, now time.Time, r Rand) string {
	return fmt.Sprintf("%s-%s-%d", prefix, now.UTC().Format("20060102"), 1000+r.IntN(9000))
}
