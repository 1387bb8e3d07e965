package orchestrator

import (
	"context"
	"fmt"
	"log"
	"time"
)

type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

type Chain struct {
	Steps []Step
	log   *log.Logger
}

func NewChain(l *log.Logger) *Chain {
	return &Chain{log: l}
}

func (c *Chain) Add(name string, fn func(ctx context.Context) error) {
	c.Steps = append(c.Steps, Step{
		Name: name,
		Run:  fn,
	})
}

// Run executes the steps in order and stops at the first failure.
func (c *Chain) Run(ctx context.Context) error {
	for i, step := range c.Steps {
		c.logSection(step.Name)

		start := time.Now()
		if err := step.Run(ctx); err != nil {
			c.log.Printf("Step %d (%s) failed after %s\n", i+1, step.Name, time.Since(start))
			return fmt.Errorf("%s: %w", step.Name, err)
		}

		c.log.Printf("Step %d completed in %s\n", i+1, time.Since(start))
	}
	return nil
}

func (c *Chain) logSection(title string) {
	c.log.Println("=====================================================")
	c.log.Println(title)
	c.log.Println("=====================================================")
}
