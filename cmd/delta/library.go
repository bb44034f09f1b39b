package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/aretw0/delta/internal/cli"
	"github.com/aretw0/delta/pkg/algorithm"
	"github.com/spf13/cobra"
)

var libraryCmd = &cobra.Command{
	Use:     "library",
	Aliases: []string{"lib"},
	Short:   "Manage the stored algorithms",
	Long:    `List, create, import, duplicate and remove the algorithms of the configured store.`,
}

var libraryLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored algorithms",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStack()
		if err != nil {
			return err
		}
		defer s.Close()

		lib, err := s.Engine.List(cmd.Context())
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tREMOTE\tUPDATED\tGROUP")
		write := func(group string, algs []*algorithm.Algorithm) {
			for _, a := range algs {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n", a.LocalID, a.Name, a.Status, a.RemoteID, a.LastUpdate.Format("2006-01-02"), group)
			}
		}
		write("owned", lib.Owned)
		write("downloaded", lib.Downloaded)
		return tw.Flush()
	},
}

var libraryNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create an empty algorithm",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStack()
		if err != nil {
			return err
		}
		defer s.Close()

		alg, err := s.Engine.Create(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created '%s' as %d.\n", alg.Name, alg.LocalID)
		return nil
	},
}

var libraryImportCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Store program files as owned algorithms",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStack()
		if err != nil {
			return err
		}
		defer s.Close()

		for _, path := range args {
			alg, err := cli.LoadFile(path)
			if err != nil {
				return err
			}
			stored, err := s.Engine.Import(cmd.Context(), alg.Record())
			if err != nil {
				return fmt.Errorf("failed to import %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported '%s' as %d.\n", stored.Name, stored.LocalID)
		}
		return nil
	},
}

var libraryDupCmd = &cobra.Command{
	Use:   "dup <id>",
	Short: "Store an owned copy of an algorithm",
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

		alg, err := s.Engine.Duplicate(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Stored '%s' as %d.\n", alg.Name, alg.LocalID)
		return nil
	},
}

var libraryRmCmd = &cobra.Command{
	Use:   "rm <id>...",
	Short: "Remove one or more algorithms",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStack()
		if err != nil {
			return err
		}
		defer s.Close()

		failed := 0
		for _, arg := range args {
			id, err := parseID(arg)
			if err == nil {
				err = s.Engine.Delete(cmd.Context(), id)
			}
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error removing '%s': %v\n", arg, err)
				failed++
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d.\n", id)
		}
		if failed > 0 {
			return fmt.Errorf("failed to remove %d algorithms", failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(libraryCmd)
	libraryCmd.AddCommand(libraryLsCmd, libraryNewCmd, libraryImportCmd, libraryDupCmd, libraryRmCmd)
}
