package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roomchat/roomchat-server/internal/client"
)

var chatServerURL string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Connect to a chat server from the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		c := client.New(chatServerURL, os.Stdin, os.Stdout)
		return c.Run(ctx)
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatServerURL, "server", "http://localhost:8080", "chat server base URL")
}
