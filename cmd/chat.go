package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/difyops/difybridge/dify"
)

var (
	chatAppKey         string
	chatUser           string
	chatConversationID string
)

// chatCmd sends a message through the public API
var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Send a chat message to an app",
	Long: `Send a chat message to an app through the Dify public API.

This authenticates with the app's own API key (from the app settings page),
not the console session, so no login is required.`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatAppKey, "app-key", "", "app API key (required)")
	chatCmd.Flags().StringVar(&chatUser, "user", "cli", "user identifier")
	chatCmd.Flags().StringVar(&chatConversationID, "conversation", "", "conversation ID for context")
	_ = chatCmd.MarkFlagRequired("app-key")

	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	resp, err := difyClient.ChatCompletion(context.Background(), chatAppKey, dify.ChatRequest{
		Query:          args[0],
		User:           chatUser,
		ConversationID: chatConversationID,
	})
	if err != nil {
		return err
	}

	fmt.Println(resp.Answer)
	if resp.ConversationID != "" {
		logger.Debug().Str("conversation_id", resp.ConversationID).Msg("Conversation")
	}
	return nil
}
