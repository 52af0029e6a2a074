package colfmt

import (
	"fmt"
	"iter"
	"math"

	"github.com/brianvoe/gofakeit/v6"
)

// KindEmail names the generate-only email kind. Addresses have no fixed shape,
// so the registry holds no FormatSpec for it and Reformat cannot serve it.
const KindEmail = "email"

// IsGenerateOnly reports whether kind is served by a dedicated generator
// instead of a registry pattern.
func IsGenerateOnly(kind string) bool {
	return NormalizeKind(kind) == KindEmail
}

// GenerateEmails returns a lazy sequence of exactly count synthetic addresses.
// The engine source seeds the addresses, so seeded engines repeat them.
func (e *Engine) GenerateEmails(count int) (iter.Seq[string], error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}

	var source Source
	if e != nil {
		source = e.source
	}

	var faker *gofakeit.Faker
	switch s := source.(type) {
	case *fakerSource:
		faker = s.faker
	case nil:
		faker = gofakeit.New(0)
	default:
		faker = gofakeit.New(int64(s.Intn(math.MaxInt32)) + 1)
	}

	return func(yield func(string) bool) {
		for range count {
			if !yield(faker.Email()) {
				return
			}
		}
	}, nil
}
