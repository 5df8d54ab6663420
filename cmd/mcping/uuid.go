package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gstoney/mcproto/mojang"
)

func uuidCmd(g *globalFlags) *cobra.Command {
	var apiURL, sessionURL string

	cmd := &cobra.Command{
		Use:   "uuid NAME|UUID",
		Short: "Look up a player's UUID, or the name for a UUID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}

			c := mojang.NewClient(cfg.Mojang.CacheTTL)
			if apiURL != "" {
				c.APIURL = apiURL
			}
			if sessionURL != "" {
				c.SessionURL = sessionURL
			}

			var p mojang.Profile
			if id, perr := uuid.Parse(args[0]); perr == nil {
				p, err = c.ProfileByUUID(cmd.Context(), id)
			} else {
				p, err = c.ProfileByName(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", p.ID, p.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&apiURL, "api-url", "", "profile API base URL")
	cmd.Flags().StringVar(&sessionURL, "session-url", "", "session server base URL")
	cmd.Flags().Lookup("api-url").Hidden = true
	cmd.Flags().Lookup("session-url").Hidden = true

	return cmd
}
