package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/aretw0/delta/internal/cli"
	"github.com/aretw0/delta/internal/compiler"
	"github.com/aretw0/delta/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit a stored algorithm by editor line index",
	Long: `Applies one editor operation to an owned algorithm and prints the resulting
lines. Indexes are those printed by 'delta lines'.`,
}

var editInsertCmd = &cobra.Command{
	Use:   "insert <id> <index> <program>",
	Short: "Insert an action before a line",
	Long:  `Inserts the first action of a program snippet, e.g. 'print "x"' or 'while "i < 3" {' + newline + '}'.`,
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, index, err := idAndIndex(args)
		if err != nil {
			return err
		}
		root, err := compiler.Compile(args[2])
		if err != nil {
			return err
		}
		if len(root.Actions) == 0 {
			return errors.New("program has no action")
		}
		return withEngine(cmd, id, func(s *cli.Stack) error {
			_, err := s.Engine.Insert(cmd.Context(), id, root.Actions[0], index)
			return err
		})
	},
}

var editDeleteCmd = &cobra.Command{
	Use:   "delete <id> <index>",
	Short: "Delete the action on a line",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, index, err := idAndIndex(args)
		if err != nil {
			return err
		}
		return withEngine(cmd, id, func(s *cli.Stack) error {
			_, err := s.Engine.DeleteLine(cmd.Context(), id, index)
			return err
		})
	},
}

var editMoveCmd = &cobra.Command{
	Use:   "move <id> <from> <to>",
	Short: "Move the action on a line before another line",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, from, err := idAndIndex(args)
		if err != nil {
			return err
		}
		to, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid index %q", args[2])
		}
		return withEngine(cmd, id, func(s *cli.Stack) error {
			_, _, err := s.Engine.Move(cmd.Context(), id, from, to)
			return err
		})
	},
}

var editUpdateCmd = &cobra.Command{
	Use:   "update <id> <index> <value>...",
	Short: "Replace the values of a line",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, index, err := idAndIndex(args)
		if err != nil {
			return err
		}
		return withEngine(cmd, id, func(s *cli.Stack) error {
			alg, err := s.Engine.Load(cmd.Context(), id)
			if err != nil {
				return err
			}
			lines := alg.EditorLines()
			if index < 0 || index >= len(lines) {
				return fmt.Errorf("index %d out of range", index)
			}
			line := lines[index]
			line.Values = args[2:]
			return s.Engine.Update(cmd.Context(), id, line, index)
		})
	},
}

var editSettingsCmd = &cobra.Command{
	Use:   "settings <id> <index> <value>",
	Short: "Change the name (0) or icon (1)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, index, err := idAndIndex(args)
		if err != nil {
			return err
		}
		return withEngine(cmd, id, func(s *cli.Stack) error {
			return s.Engine.UpdateSettings(cmd.Context(), id, index, args[2:])
		})
	},
}

func idAndIndex(args []string) (int64, int, error) {
	id, err := parseID(args[0])
	if err != nil {
		return 0, 0, err
	}
	index, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid index %q", args[1])
	}
	return id, index, nil
}

// withEngine runs fn and prints the algorithm's lines afterwards.
func withEngine(cmd *cobra.Command, id int64, fn func(s *cli.Stack) error) error {
	s, err := openStack()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := fn(s); err != nil {
		return err
	}
	alg, err := s.Engine.Load(cmd.Context(), id)
	if err != nil {
		return err
	}
	tui.WriteLines(cmd.OutOrStdout(), alg)
	return nil
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.AddCommand(editInsertCmd, editDeleteCmd, editMoveCmd, editUpdateCmd, editSettingsCmd)
}
