package commands

import (
	"github.com/spf13/cobra"

	"github.com/spherical/homellm/cmd/homellm/ui"
	"github.com/spherical/homellm/internal/dataset"
	"github.com/spherical/homellm/internal/domain"
)

var datasetID string

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "List the bundled training examples",
	Args:  cobra.NoArgs,
	RunE:  runDataset,
}

func init() {
	datasetCmd.Flags().StringVar(&datasetID, "id", "", "show the full prompt and completion for one example")
	rootCmd.AddCommand(datasetCmd)
}

func runDataset(cmd *cobra.Command, args []string) error {
	examples, err := dataset.Load()
	if err != nil {
		return err
	}

	if datasetID == "" {
		rows := make([][]string, 0, len(examples))
		for _, e := range examples {
			rows = append(rows, []string{e.ID, e.Subject()})
		}
		ui.Table([]string{"ID", "SUBJECT"}, rows)
		return nil
	}

	for _, e := range examples {
		if e.ID == datasetID {
			ui.Section(e.ID)
			ui.Box("Prompt", e.Prompt)
			ui.Newline()
			ui.Box("Completion", e.Completion)
			return nil
		}
	}
	return domain.NotFoundError("no training example with id "+datasetID, nil)
}
