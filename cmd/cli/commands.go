package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/mauv0809/pitchboard/internal/auth"
	"github.com/mauv0809/pitchboard/internal/pitch"
	"github.com/mauv0809/pitchboard/internal/pitchclient"
	"github.com/mauv0809/pitchboard/internal/roster"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(pitchCmd)

	pitchCmd.AddCommand(pitchShowCmd)
	pitchCmd.AddCommand(pitchClearCmd)
	pitchCmd.AddCommand(pitchWatchCmd)
	pitchCmd.AddCommand(pitchJoinCmd)
	pitchCmd.AddCommand(pitchAssignCmd)
	pitchCmd.AddCommand(pitchTypeCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := pitchclient.NewClient(host).Health(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("OK")
		return nil
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the registered players",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd.Context())
		if err != nil {
			return err
		}
		players, err := client.ListPlayers(cmd.Context())
		if err != nil {
			return err
		}
		for _, p := range players {
			admin := ""
			if p.IsAdmin {
				admin = " (admin)"
			}
			fmt.Printf("%-38s %-20s %s%s\n", p.ID, p.Name, p.PositionPreference, admin)
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the stats report as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd.Context())
		if err != nil {
			return err
		}
		report, err := client.Stats(cmd.Context())
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

var pitchCmd = &cobra.Command{
	Use:   "pitch",
	Short: "Inspect and edit the shared pitch",
}

var pitchShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current pitch",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, _, err := loadController(cmd.Context())
		if err != nil {
			return err
		}
		printPitch(ctrl.Snapshot())
		return nil
	},
}

var pitchClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove everyone from the pitch",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, _, err := loadController(cmd.Context())
		if err != nil {
			return err
		}
		if err := ctrl.ClearPitch(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Pitch cleared")
		return nil
	},
}

var pitchWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the pitch every time it changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		ctrl, _, err := loadController(ctx)
		if err != nil {
			return err
		}
		printPitch(ctrl.Snapshot())

		go ctrl.Run(ctx)
		last := ctrl.Snapshot().Cursor
		ticker := time.NewTicker(pitchclient.PollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				snap := ctrl.Snapshot()
				if last.Before(snap.Cursor) {
					last = snap.Cursor
					printPitch(snap)
				}
			}
		}
	},
}

var pitchJoinCmd = &cobra.Command{
	Use:   "join <slot>",
	Short: "Take a slot as the logged-in player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if playerID == "" {
			return fmt.Errorf("--player is required to join")
		}
		ctrl, viewer, err := loadController(cmd.Context())
		if err != nil {
			return err
		}
		if err := ctrl.Join(args[0], *viewer); err != nil {
			return err
		}
		return ctrl.Flush(cmd.Context())
	},
}

var pitchAssignCmd = &cobra.Command{
	Use:   "assign <slot> [player-id]",
	Short: "Place a player in a slot, or empty the slot when no player is given",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, _, err := loadController(cmd.Context())
		if err != nil {
			return err
		}
		if len(args) == 1 {
			ctrl.RemovePlayerFromSlot(args[0])
			return ctrl.Flush(cmd.Context())
		}
		snap := ctrl.Snapshot()
		i := slices.IndexFunc(snap.Pool, func(p roster.Player) bool { return p.ID == args[1] })
		if i < 0 {
			return fmt.Errorf("unknown player %q", args[1])
		}
		if err := ctrl.AddPlayerToSlot(args[0], snap.Pool[i]); err != nil {
			return err
		}
		return ctrl.Flush(cmd.Context())
	},
}

var pitchTypeCmd = &cobra.Command{
	Use:   "type <match-type>",
	Short: "Switch the match type; this clears the pitch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, _, err := loadController(cmd.Context())
		if err != nil {
			return err
		}
		if err := ctrl.SetMatchType(cmd.Context(), pitch.MatchType(args[0])); err != nil {
			return err
		}
		return ctrl.Flush(cmd.Context())
	},
}

// loadController logs in when asked and loads the pitch.
func loadController(ctx context.Context) (*pitchclient.Controller, *auth.Viewer, error) {
	client := pitchclient.NewClient(host)
	var viewer *auth.Viewer
	if playerID != "" {
		v, err := client.Login(ctx, playerID, password)
		if err != nil {
			return nil, nil, fmt.Errorf("login: %w", err)
		}
		viewer = v
	}
	ctrl := pitchclient.New(client, clock.New())
	if err := ctrl.LoadInitial(ctx); err != nil {
		return nil, nil, err
	}
	return ctrl, viewer, nil
}

func printPitch(snap pitchclient.Snapshot) {
	layout, err := pitch.LayoutFor(snap.MatchType)
	if err != nil {
		fmt.Println(err)
		return
	}

	status := "closed"
	switch {
	case snap.ScheduledAt != nil:
		status = "opens " + snap.ScheduledAt.Local().Format("Mon 02 Jan 15:04")
	case snap.IsActive:
		status = "open"
	}
	fmt.Printf("%s pitch, %s (version %d)\n", snap.MatchType, status, snap.Cursor.Version)

	for _, team := range []pitch.Team{pitch.TeamA, pitch.TeamB} {
		formation := snap.TeamAFormation
		if team == pitch.TeamB {
			formation = snap.TeamBFormation
		}
		header := "Team " + string(team)
		if formation != nil {
			header += " (" + *formation + ")"
		}
		fmt.Println(header)
		for _, id := range append(layout.StartingSlots(team), layout.BenchSlotIDs(team)...) {
			name := "-"
			if p, ok := snap.Slots[id]; ok {
				name = p.Name
			}
			fmt.Printf("  %-10s %s\n", id, name)
		}
	}
	fmt.Println(strings.Repeat("-", 30))
}
