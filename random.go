package colfmt

import "github.com/brianvoe/gofakeit/v6"

// Source supplies the randomness for Generate. *math/rand.Rand satisfies it.
type Source interface {
	// Intn returns a value in [0, n).
	Intn(n int) int
}

type fakerSource struct {
	faker *gofakeit.Faker
}

// NewSource returns a gofakeit backed Source. A zero seed draws the initial seed
// from crypto/rand, any other seed makes the sequence reproducible.
func NewSource(seed int64) Source {
	return &fakerSource{faker: gofakeit.New(seed)}
}

func (s *fakerSource) Intn(n int) int {
	if n <= 1 {
		return 0
	}
	return s.faker.Number(0, n-1)
}
