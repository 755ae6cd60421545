package main

import (
	"fmt"

	qbankhttp "github.com/fwojciec/qbank/http"
)

// Run executes the serve command. It blocks until the context is
// cancelled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	addr := c.Addr
	if addr == "" {
		addr = deps.Config.HTTPAddr
	}

	server := qbankhttp.NewServer()
	server.Addr = addr
	server.QuestionService = deps.Questions
	server.InteractionService = deps.Interactions
	server.Limiter = qbankhttp.NewUserLimiter(deps.Config.RateLimit.RPS, deps.Config.RateLimit.Burst)
	server.Logger = deps.Logger

	if err := server.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	defer server.Close()

	fmt.Fprintf(deps.Stdout, "listening on %s\n", server.URL())

	<-deps.Ctx.Done()
	return nil
}
