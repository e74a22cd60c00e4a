package shortener

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

const (
	Alphabet   = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	CodeLength = 6
)

// Bytes at or above this value are rejected so every alphabet symbol is
// equally likely (248 = 4 * 62).
const maxUnbiased = 256 - 256%len(Alphabet)

var ErrCodeSpaceExhausted = errors.New("no unused short code found")

// Generator produces random fixed-length codes. It is safe for concurrent use.
type Generator struct {
	random io.Reader
	length int
}

func New() *Generator {
	return &Generator{random: rand.Reader, length: CodeLength}
}

// NewWithReader is used by tests to make the output deterministic.
func NewWithReader(r io.Reader) *Generator {
	return &Generator{random: r, length: CodeLength}
}

func (g *Generator) Generate() (string, error) {
	code := make([]byte, 0, g.length)
	buf := make([]byte, g.length*2)

	for len(code) < g.length {
		if _, err := io.ReadFull(g.random, buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= maxUnbiased {
				continue
			}
			code = append(code, Alphabet[int(b)%len(Alphabet)])
			if len(code) == g.length {
				break
			}
		}
	}

	return string(code), nil
}

type Source interface {
	Generate() (string, error)
}

// CodeChecker reports whether a code is already taken in the store.
type CodeChecker interface {
	CodeExists(ctx context.Context, code string) (bool, error)
}

// Unique draws candidates from a Source until one is not taken.
type Unique struct {
	source      Source
	checker     CodeChecker
	maxAttempts int
}

func NewUnique(source Source, checker CodeChecker, maxAttempts int) *Unique {
	return &Unique{
		source:      source,
		checker:     checker,
		maxAttempts: max(1, maxAttempts),
	}
}

func (u *Unique) Code(ctx context.Context) (string, error) {
	for range u.maxAttempts {
		code, err := u.source.Generate()
		if err != nil {
			return "", err
		}

		taken, err := u.checker.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check short code: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", ErrCodeSpaceExhausted, u.maxAttempts)
}
