package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question about the prospectus",
	Long: `Answers one question and exits. Frequently asked questions are
answered directly; everything else goes through passage retrieval and
generation.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	if answer, ok := faqMatcher.Match(question); ok {
		cmd.Println(answer)
		return nil
	}

	svc, cleanup, err := newAnswerer()
	if err != nil {
		return err
	}
	defer cleanup()

	cmd.Println(svc.Answer(context.Background(), question))
	return nil
}
