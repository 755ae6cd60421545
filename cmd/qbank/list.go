package main

import (
	"fmt"

	"github.com/fwojciec/qbank"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	categories, err := deps.Categories.FindCategories(deps.Ctx, qbank.CategoryFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", qbank.ErrorMessage(err))
		return err
	}

	if len(categories) == 0 {
		fmt.Fprintln(deps.Stdout, "No categories found. Use 'qbank ingest' to create some.")
		return nil
	}

	for _, category := range categories {
		questions, err := deps.Questions.FindQuestions(deps.Ctx, qbank.QuestionFilter{
			CategoryID: &category.ID,
		})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", qbank.ErrorMessage(err))
			return err
		}

		fmt.Fprintf(deps.Stdout, "%s  %d-%d  %d questions\n",
			category.Name, category.RangeStart, category.RangeEnd, len(questions))

		if !c.Questions {
			continue
		}
		for _, q := range questions {
			state := ""
			if !q.Published {
				state = "  (unpublished)"
			}
			fmt.Fprintf(deps.Stdout, "  %3d  %s%s\n", q.Number, q.Title, state)
		}
	}

	return nil
}
