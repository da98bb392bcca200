// Package fanout runs independent fallible operations concurrently and joins
// every outcome. A failing or panicking operation never cancels its siblings.
package fanout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
)

var ErrPanic = errors.New("fanout: operation panicked")

// Task is one named unit of work for Settle.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Outcome is the settled state of a Task.
type Outcome struct {
	Name    string
	Err     error
	Elapsed time.Duration
}

func (o Outcome) OK() bool { return o.Err == nil }

// Result pairs a value with the error that produced it.
type Result[T any] struct {
	Value T
	Err   error
}

// Settle runs every task and waits for all of them. Outcomes keep the order of tasks.
func Settle(ctx context.Context, tasks ...Task) []Outcome {
	outcomes := make([]Outcome, len(tasks))

	var wg conc.WaitGroup
	for i, task := range tasks {
		wg.Go(func() {
			start := time.Now()
			err := run(func() error { return task.Run(ctx) })
			outcomes[i] = Outcome{Name: task.Name, Err: err, Elapsed: time.Since(start)}
		})
	}
	wg.Wait()

	return outcomes
}

// Each applies fn to every item concurrently. Results keep the order of items.
func Each[In, Out any](ctx context.Context, items []In, fn func(ctx context.Context, item In) (Out, error)) []Result[Out] {
	results := make([]Result[Out], len(items))

	var wg conc.WaitGroup
	for i, item := range items {
		wg.Go(func() {
			var value Out
			err := run(func() error {
				var err error
				value, err = fn(ctx, item)
				return err
			})
			results[i] = Result[Out]{Value: value, Err: err}
		})
	}
	wg.Wait()

	return results
}

func run(f func() error) (err error) {
	recovered := panics.Try(func() { err = f() })
	if recovered != nil {
		return fmt.Errorf("%w: %v", ErrPanic, recovered.Value)
	}
	return err
}
