package main

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/aretw0/delta/pkg/domain"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize the library with the remote catalog",
	Long:  `Checks every algorithm that has a remote copy for updates, downloading newer remote versions and uploading newer local ones.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStack()
		if err != nil {
			return err
		}
		defer s.Close()

		outcomes, err := s.Engine.SyncAll(cmd.Context())
		if err != nil {
			return err
		}
		ids := make([]int64, 0, len(outcomes))
		for id := range outcomes {
			ids = append(ids, id)
		}
		slices.Sort(ids)

		out := cmd.OutOrStdout()
		if len(ids) == 0 {
			fmt.Fprintln(out, "Nothing to synchronize.")
		}
		for _, id := range ids {
			fmt.Fprintf(out, "%d: %s\n", id, outcomes[id])
		}
		return nil
	},
}

var syncPublishCmd = &cobra.Command{
	Use:   "publish <id>",
	Short: "Upload an owned algorithm to the remote catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		s, err := openStack()
		if err != nil {
			return err
		}
		defer s.Close()

		alg, err := s.Engine.Publish(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Published '%s' as remote %d.\n", alg.Name, alg.RemoteID)
		return nil
	},
}

var syncDownloadCmd = &cobra.Command{
	Use:   "download <remote-id>",
	Short: "Store a copy of a remote algorithm",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		remoteID, err := parseID(args[0])
		if err != nil {
			return err
		}
		s, err := openStack()
		if err != nil {
			return err
		}
		defer s.Close()

		alg, err := s.Engine.Download(cmd.Context(), remoteID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Downloaded '%s' as %d.\n", alg.Name, alg.LocalID)
		return nil
	},
}

var syncCatalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the algorithms published on the remote",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStack()
		if err != nil {
			return err
		}
		defer s.Close()
		if s.Remote == nil {
			return domain.ErrNoRemote
		}

		recs, err := s.Remote.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, rec := range recs {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", rec.RemoteID, rec.Name, rec.LastUpdate.Format("2006-01-02"))
		}
		return nil
	},
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: %w", s, domain.ErrInvalidID)
	}
	return id, nil
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.AddCommand(syncPublishCmd, syncDownloadCmd, syncCatalogCmd)
}
