package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
)

var errInvalidInput = errors.New("invalid input")

type token struct {
	text string
	err  error
}

// reader splits input on whitespace, the way the menu expects numbers to be
// typed one after another. Scanning runs in its own goroutine so a pending
// read can be abandoned when the context is canceled.
type reader struct {
	scanner *bufio.Scanner
	tokens  chan token
	done    chan struct{}
	start   sync.Once
	stop    sync.Once
}

func newReader(in io.Reader) *reader {
	scanner := bufio.NewScanner(in)
	scanner.Split(bufio.ScanWords)
	return &reader{
		scanner: scanner,
		tokens:  make(chan token),
		done:    make(chan struct{}),
	}
}

func (r *reader) scan() {
	defer close(r.tokens)
	for r.scanner.Scan() {
		select {
		case r.tokens <- token{text: r.scanner.Text()}:
		case <-r.done:
			return
		}
	}
	if err := r.scanner.Err(); err != nil {
		select {
		case r.tokens <- token{err: err}:
		case <-r.done:
		}
	}
}

// Close releases the scanning goroutine once it is back from the underlying
// reader.
func (r *reader) Close() {
	r.stop.Do(func() { close(r.done) })
}

func (r *reader) token(ctx context.Context) (string, error) {
	r.start.Do(func() { go r.scan() })
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case t, ok := <-r.tokens:
		if !ok {
			return "", io.EOF
		}
		return t.text, t.err
	}
}

func (r *reader) Int(ctx context.Context) (int, error) {
	token, err := r.token(ctx)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", errInvalidInput, token)
	}
	return v, nil
}

func (r *reader) Float(ctx context.Context) (float64, error) {
	token, err := r.token(ctx)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", errInvalidInput, token)
	}
	return v, nil
}

func (r *reader) Point(ctx context.Context, k int) ([]float64, error) {
	point := make([]float64, k)
	for i := range point {
		v, err := r.Float(ctx)
		if err != nil {
			return nil, err
		}
		point[i] = v
	}
	return point, nil
}
