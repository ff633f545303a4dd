package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campusconnect/campusai-go/internal/knowledge"
)

// NewRefineCmd constructs the `campusai refine` command, which runs the
// offline cleanup pass over the knowledge store.
func NewRefineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refine",
		Short: "Clean up the knowledge base: drop empty entries, dedup, reclassify, sort",
		Long: `Run the offline refinement pass over the FAQ knowledge store.

Entries with an empty question or answer are dropped, duplicate questions
are removed (first occurrence wins), every entry is reclassified from its
current text, and the store is rewritten sorted by category.

Example:
  campusai refine`,
		RunE: func(cmd *cobra.Command, args []string) error {
			kb, err := openKnowledge()
			if err != nil {
				return fmt.Errorf("refine: %w", err)
			}

			before := kb.Len()
			refined := knowledge.Refine(kb.List())
			if err := kb.Replace(refined); err != nil {
				return fmt.Errorf("refine: failed to save knowledge store: %w", err)
			}

			fmt.Printf("refined knowledge base: %d entries in, %d entries out\n", before, len(refined))
			return nil
		},
	}
}
