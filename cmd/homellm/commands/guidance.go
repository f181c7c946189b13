package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spherical/homellm/internal/domain"
	"github.com/spherical/homellm/internal/guidance"
)

var (
	guidanceIssue      string
	guidanceRecipient  string
	guidanceEscalation string
	guidanceUrgency    string
	guidanceState      string
	guidanceList       bool
)

var guidanceCmd = &cobra.Command{
	Use:   "guidance",
	Short: "Show regulatory guidance for a case",
	Args:  cobra.NoArgs,
	RunE:  runGuidance,
}

func init() {
	defaults := domain.DefaultFormState()
	guidanceCmd.Flags().StringVar(&guidanceIssue, "issue", defaults.IssueType, "issue type code")
	guidanceCmd.Flags().StringVar(&guidanceRecipient, "recipient", defaults.Recipient, "recipient code")
	guidanceCmd.Flags().StringVar(&guidanceEscalation, "escalation", defaults.EscalationLevel, "escalation style code")
	guidanceCmd.Flags().StringVar(&guidanceUrgency, "urgency", defaults.UrgencyLevel, "urgency level")
	guidanceCmd.Flags().StringVar(&guidanceState, "state", "", "state name")
	guidanceCmd.Flags().BoolVar(&guidanceList, "list", false, "list the available codes")
	rootCmd.AddCommand(guidanceCmd)
}

func runGuidance(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if guidanceList {
		writeOptions(out, guidance.SelectorOptions())
		return nil
	}

	snap := guidance.BuildSnapshot(guidance.Selection{
		Issue:      guidanceIssue,
		Recipient:  guidanceRecipient,
		Escalation: guidanceEscalation,
		Urgency:    guidanceUrgency,
		State:      guidanceState,
	})
	writeSnapshot(out, snap)
	return nil
}

// writeSnapshot renders a guidance snapshot as plain text.
func writeSnapshot(w io.Writer, snap guidance.Snapshot) {
	if !snap.Ready {
		fmt.Fprintln(w, snap.Message)
		return
	}

	fmt.Fprintf(w, "Issue: %s\n%s\n", snap.Issue.Label, snap.Issue.Summary)
	writeBullets(w, "Evidence to gather", snap.Issue.EvidencePoints)
	if len(snap.Issue.Regulations) > 0 {
		fmt.Fprintln(w, "\nTechnical guidance:")
		for _, r := range snap.Issue.Regulations {
			fmt.Fprintf(w, "  • %s (%s)\n", r.Title, r.URL)
		}
	}

	fmt.Fprintf(w, "\nRecipient: %s\nTone: %s\n", snap.Recipient.Label, snap.Recipient.Tone)
	writeBullets(w, "Obligations", snap.Recipient.Obligations)
	writeBullets(w, "Requested actions", snap.Recipient.RequestedActions)

	fmt.Fprintf(w, "\nEscalation: %s\n%s\n", snap.Escalation.Label, snap.Escalation.Guidance)
	if snap.Urgency != "" {
		fmt.Fprintf(w, "\nUrgency: %s\n", snap.Urgency)
	}

	if snap.StateNote != "" {
		fmt.Fprintf(w, "\n%s\n", snap.StateNote)
		return
	}
	fmt.Fprintf(w, "\n%s references:\n", snap.State)
	for _, c := range snap.StateRefs {
		fmt.Fprintf(w, "  • %s – %s\n", c.Citation, c.Summary)
	}
}

func writeBullets(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "  • %s\n", item)
	}
}

func writeOptions(w io.Writer, opts guidance.Options) {
	section := func(title string, options []guidance.Option) {
		fmt.Fprintf(w, "%s:\n", title)
		for _, o := range options {
			fmt.Fprintf(w, "  %-22s %s\n", o.Code, o.Label)
		}
		fmt.Fprintln(w)
	}
	section("Issues", opts.Issues)
	section("Recipients", opts.Recipients)
	section("Escalation styles", opts.Escalations)
	section("Urgency levels", opts.Urgencies)
	fmt.Fprintf(w, "States:\n  %s\n", strings.Join(opts.States, ", "))
}
