package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/spherical/homellm/cmd/homellm/ui"
	"github.com/spherical/homellm/internal/composer"
	"github.com/spherical/homellm/internal/domain"
)

var (
	composeFormPath string
	composeAttach   []string
	composeOut      string
	composeDownload bool
)

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Compose an escalation email from a form file",
	Long: `Compose an escalation email from a YAML form. Keys match the form field
names (issueType, recipient, location, city, state, measurements, ...).
Fields missing from the file keep their defaults.`,
	Args: cobra.NoArgs,
	RunE: runCompose,
}

func init() {
	composeCmd.Flags().StringVarP(&composeFormPath, "form", "f", "", "YAML form file (required)")
	composeCmd.Flags().StringSliceVarP(&composeAttach, "attach", "a", nil, "attachment file name (repeatable)")
	composeCmd.Flags().StringVarP(&composeOut, "out", "o", "", "write the email text to this file")
	composeCmd.Flags().BoolVar(&composeDownload, "download", false, "write the email to "+composer.DownloadFilename)
	composeCmd.MarkFlagRequired("form")
	rootCmd.AddCommand(composeCmd)
}

func runCompose(cmd *cobra.Command, args []string) error {
	form, err := loadForm(composeFormPath)
	if err != nil {
		return err
	}

	email := composer.BuildEmail(form, attachmentsFor(composeAttach))

	out := composeOut
	if out == "" && composeDownload {
		out = composer.DownloadFilename
	}
	if out == "" {
		fmt.Fprintln(cmd.OutOrStdout(), email.Text())
		return nil
	}

	if err := os.WriteFile(out, []byte(email.Text()), 0644); err != nil {
		return domain.IOError("failed to write "+out, err)
	}
	ui.Success("Email written to %s", out)
	return nil
}

// loadForm decodes a YAML form over the default form state.
func loadForm(path string) (domain.FormState, error) {
	form := domain.DefaultFormState()

	data, err := os.ReadFile(path)
	if err != nil {
		return form, domain.IOError("failed to read form "+path, err)
	}
	if err := yaml.Unmarshal(data, &form); err != nil {
		return form, domain.ValidationError("invalid form file", err)
	}
	return form, nil
}

// attachmentsFor names each attachment, recording its size when the file exists.
func attachmentsFor(paths []string) []domain.Attachment {
	attachments := make([]domain.Attachment, 0, len(paths))
	for _, p := range paths {
		a := domain.Attachment{Name: filepath.Base(p)}
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			a.Size = info.Size()
		}
		attachments = append(attachments, a)
	}
	return attachments
}
