package cli

import (
	"bufio"
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/admitkit/prospecta-cli/internal/logger"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive question-answering session",
	Long: `Starts a conversational session on standard input. The model keeps
a bounded window of recent turns, so follow-up questions can refer to
earlier answers. Type 'exit' or 'quit' to leave.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	// One pipeline per session: the generation client is stateful and
	// owns this conversation's history.
	svc, cleanup, err := newAnswerer()
	if err != nil {
		return err
	}
	defer cleanup()

	sessionID := uuid.NewString()
	logger.Info("chat: session %s started", sessionID)

	cmd.Println("Ask me anything about the M.Tech prospectus. Type 'exit' to leave.")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(question) {
		case "exit", "quit":
			cmd.Println("Goodbye!")
			logger.Info("chat: session %s ended", sessionID)
			return nil
		}

		if answer, ok := faqMatcher.Match(question); ok {
			cmd.Println(answer)
			continue
		}

		cmd.Println(svc.Answer(context.Background(), question))
	}

	logger.Info("chat: session %s ended", sessionID)
	return scanner.Err()
}
