package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mauv0809/pitchboard/internal/pitchclient"
	"github.com/spf13/cobra"
)

var (
	host     string
	playerID string
	password string
)

var rootCmd = &cobra.Command{
	Use:   "pitchboard-cli",
	Short: "A CLI to interact with the pitchboard server",
	Long: `A command-line interface for the pitchboard server: check its health,
look at players and stats, and manage the shared pitch.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "The host address of the server")
	rootCmd.PersistentFlags().StringVar(&playerID, "player", "", "Player id to log in as")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "Password for --player")
}

// newClient returns a client, logged in when --player is given.
func newClient(ctx context.Context) (*pitchclient.Client, error) {
	client := pitchclient.NewClient(host)
	if playerID == "" {
		return client, nil
	}
	viewer, err := client.Login(ctx, playerID, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Logged in as %s\n", viewer.Name)
	return client, nil
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your command '%s'\n", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
