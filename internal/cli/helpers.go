package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/faizmokh/tudu/internal/todo"
)

// loadList reads the active list file. The file is created empty on first use.
func loadList(rt *runtime) (*todo.List, string, error) {
	path, err := rt.listPath()
	if err != nil {
		return nil, "", err
	}
	list := todo.NewList()
	if err := todo.Load(list, path); err != nil {
		return nil, "", err
	}
	rt.logger.Debug("list loaded", "path", path, "items", list.Len())
	return list, path, nil
}

func saveList(rt *runtime, list *todo.List, path string) error {
	if err := todo.Save(list, path); err != nil {
		return err
	}
	rt.logger.Debug("list saved", "path", path, "items", list.Len())
	return nil
}

// parseIndex turns a 1-based command-line index into a 0-based list index.
func parseIndex(value string, list *todo.List) (int, error) {
	index, err := strconv.Atoi(value)
	if err != nil || index <= 0 {
		return 0, fmt.Errorf("index must be a positive integer")
	}
	if index > list.Len() {
		return 0, fmt.Errorf("index %d out of range (list has %d item%s)", index, list.Len(), plural(list.Len()))
	}
	return index - 1, nil
}

func joinText(args []string) (string, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return "", fmt.Errorf("text is required")
	}
	return text, nil
}

func formatItem(item todo.Item, relative bool) string {
	builder := strings.Builder{}
	builder.Grow(24 + len(item.Contents))

	builder.WriteString("[")
	builder.WriteString(item.Status.String())
	builder.WriteString("] ")
	builder.WriteString(item.Contents)
	builder.WriteString(" (")
	builder.WriteString(formatAge(item.CreatedAt, relative))
	builder.WriteString(")")

	return builder.String()
}

func formatAge(created time.Time, relative bool) string {
	if relative {
		return humanize.Time(created)
	}
	return created.Format("2006-01-02 15:04")
}

func printList(cmd *cobra.Command, list *todo.List, filter *todo.Status, relative bool) {
	out := cmd.OutOrStdout()
	printed := 0
	for i, item := range list.Items() {
		if filter != nil && item.Status != *filter {
			continue
		}
		fmt.Fprintf(out, "%d. %s\n", i+1, formatItem(item, relative))
		printed++
	}
	if printed == 0 {
		fmt.Fprintln(out, "No items")
	}
}

type jsonItem struct {
	Index     int       `json:"index"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	Contents  string    `json:"contents"`
}

func printJSON(cmd *cobra.Command, list *todo.List, filter *todo.Status) error {
	items := make([]jsonItem, 0, list.Len())
	for i, item := range list.Items() {
		if filter != nil && item.Status != *filter {
			continue
		}
		items = append(items, jsonItem{
			Index:     i + 1,
			Status:    item.Status.String(),
			CreatedAt: item.CreatedAt.UTC(),
			Contents:  item.Contents,
		})
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

func plural(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
