package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/careeriq/internal/chat"
	"github.com/jonathan/careeriq/internal/guard"
	"github.com/jonathan/careeriq/internal/observability"
	"github.com/jonathan/careeriq/internal/workflow"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask the AI career advisor",
	Long: "Ask the AI career advisor a single question with --message, or start an interactive\n" +
		"conversation reading one message per line from stdin. Type 'exit' to leave.",
	RunE: runChat,
}

var chatMessage string

func init() {
	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "Send one message and print the reply")

	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	session := chat.NewSession(current.api, chat.Options{Logger: current.log, Metrics: current.metrics})

	err := current.show(cmd, guard.PathChatbot, func(ctx context.Context, w io.Writer) error {
		p := observability.NewPrinter(w)

		if chatMessage != "" {
			if session.Send(ctx, chatMessage) {
				p.PrintReply("Advisor", session.Log().Last().Content)
			}
			return sessionEnded()
		}

		p.PrintReply("Advisor", chat.Greeting)
		fmt.Fprintln(w, "Try asking:")
		for _, prompt := range chat.QuickPrompts {
			fmt.Fprintf(w, "  • %s\n", prompt)
		}

		return chatLoop(ctx, cmd.InOrStdin(), w, session, p)
	})
	return current.finish(cmd, err)
}

// sessionEnded reports a 401 that moved the router back to login.
func sessionEnded() error {
	if current.router.Current() == guard.PathLogin {
		return errors.New(workflow.SessionExpiredMessage)
	}
	return nil
}

// chatLoop sends each non-blank input line until EOF or "exit".
func chatLoop(ctx context.Context, in io.Reader, w io.Writer, session *chat.Session, p *observability.Printer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(w, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(w)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			return nil
		}

		session.SetInput(line)
		if !session.SendInput(ctx) {
			continue
		}
		p.PrintReply("Advisor", session.Log().Last().Content)

		if err := sessionEnded(); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
