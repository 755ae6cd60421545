package main

import (
	"fmt"

	"github.com/fwojciec/qbank"
)

// Run executes the publish command.
func (c *PublishCmd) Run(deps *Dependencies) error {
	category, err := deps.Categories.FindCategoryByName(deps.Ctx, c.Category)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", qbank.ErrorMessage(err))
		return err
	}

	question, err := deps.Questions.FindQuestionByNumber(deps.Ctx, category.ID, c.Number)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", qbank.ErrorMessage(err))
		return err
	}

	published := !c.Unpublish
	if err := deps.Questions.SetPublished(deps.Ctx, question.ID, published); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", qbank.ErrorMessage(err))
		return err
	}

	verb := "published"
	if !published {
		verb = "unpublished"
	}
	fmt.Fprintf(deps.Stdout, "%s %q (%s #%d)\n", verb, question.Title, category.Name, c.Number)
	return nil
}
