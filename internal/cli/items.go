package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faizmokh/tudu/internal/todo"
	"github.com/faizmokh/tudu/internal/version"
)

func newListCommand(rt *runtime) *cobra.Command {
	var (
		jsonFlag   bool
		statusFlag string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Print the items of the list.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter *todo.Status
			if statusFlag != "" {
				status, err := todo.ParseStatus(statusFlag)
				if err != nil {
					return err
				}
				filter = &status
			}

			list, _, err := loadList(rt)
			if err != nil {
				return err
			}

			if jsonFlag {
				return printJSON(cmd, list, filter)
			}
			printList(cmd, list, filter, rt.cfg.RelativeTime)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Print items as JSON")
	cmd.Flags().StringVar(&statusFlag, "status", "", "Only show items with this status (todo|doing|done)")

	return cmd
}

func newAddCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <text ...>",
		Short: "Append a todo item.",
		Long:  "add appends a new item in the todo state. Text longer than the storage limit is cut short.",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := joinText(args)
			if err != nil {
				return err
			}

			list, path, err := loadList(rt)
			if err != nil {
				return err
			}

			item := todo.NewItem(text)
			if err := list.Add(item); err != nil {
				return err
			}
			if err := saveList(rt, list, path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %d. %s\n", list.Len(), formatItem(item, rt.cfg.RelativeTime))
			return nil
		},
	}

	return cmd
}

func newDeleteCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <index>",
		Aliases: []string{"rm"},
		Short:   "Remove an item by index.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, path, err := loadList(rt)
			if err != nil {
				return err
			}

			index, err := parseIndex(args[0], list)
			if err != nil {
				return err
			}
			item, err := list.Item(index)
			if err != nil {
				return err
			}
			if err := list.Delete(index); err != nil {
				return err
			}
			if err := saveList(rt, list, path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted item %d: %s\n", index+1, formatItem(item, rt.cfg.RelativeTime))
			return nil
		},
	}

	return cmd
}

func newAdvanceCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "advance <index>",
		Short: "Move an item to its next status (todo, doing, done, todo).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, path, err := loadList(rt)
			if err != nil {
				return err
			}

			index, err := parseIndex(args[0], list)
			if err != nil {
				return err
			}
			if _, err := list.AdvanceStatus(index); err != nil {
				return err
			}
			if err := saveList(rt, list, path); err != nil {
				return err
			}

			item, _ := list.Item(index)
			fmt.Fprintf(cmd.OutOrStdout(), "Advanced item %d: %s\n", index+1, formatItem(item, rt.cfg.RelativeTime))
			return nil
		},
	}

	return cmd
}

func newEditCommand(rt *runtime) *cobra.Command {
	var statusFlag string

	cmd := &cobra.Command{
		Use:   "edit <index> [text ...]",
		Short: "Replace the text or status of an item by index.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			textArgs := args[1:]
			if len(textArgs) == 0 && statusFlag == "" {
				return fmt.Errorf("nothing to change: pass new text or --status")
			}

			var want *todo.Status
			if statusFlag != "" {
				status, err := todo.ParseStatus(statusFlag)
				if err != nil {
					return err
				}
				want = &status
			}

			list, path, err := loadList(rt)
			if err != nil {
				return err
			}

			index, err := parseIndex(args[0], list)
			if err != nil {
				return err
			}

			if len(textArgs) > 0 {
				text, err := joinText(textArgs)
				if err != nil {
					return err
				}
				if err := list.SetContents(index, text); err != nil {
					return err
				}
			}

			if want != nil {
				if err := advanceTo(list, index, *want); err != nil {
					return err
				}
			}

			if err := saveList(rt, list, path); err != nil {
				return err
			}

			item, _ := list.Item(index)
			fmt.Fprintf(cmd.OutOrStdout(), "Updated item %d: %s\n", index+1, formatItem(item, rt.cfg.RelativeTime))
			return nil
		},
	}

	cmd.Flags().StringVar(&statusFlag, "status", "", "Set status (todo|doing|done)")

	return cmd
}

// advanceTo cycles the item forward until it reaches want.
func advanceTo(list *todo.List, index int, want todo.Status) error {
	item, err := list.Item(index)
	if err != nil {
		return err
	}
	for status := item.Status; status != want; {
		status, err = list.AdvanceStatus(index)
		if err != nil {
			return err
		}
	}
	return nil
}

func newSwapCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap <index> <index>",
		Short: "Exchange the positions of two items.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, path, err := loadList(rt)
			if err != nil {
				return err
			}

			i, err := parseIndex(args[0], list)
			if err != nil {
				return err
			}
			j, err := parseIndex(args[1], list)
			if err != nil {
				return err
			}
			if err := list.Swap(i, j); err != nil {
				return err
			}
			if err := saveList(rt, list, path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Swapped items %d and %d\n", i+1, j+1)
			return nil
		},
	}

	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tudu %s\n", version.Info())
		},
	}
}
