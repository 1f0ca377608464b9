package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sadopc/lowkey/internal/store"
)

// UnknownList is written for tasks whose list no longer exists.
const UnknownList = "Unknown"

var csvHeader = []string{"ID", "List", "Title", "Description", "Completed", "Priority", "Due Date", "Due Time"}

func ToCSV(tasks []store.Task, lists []store.List, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()
	return WriteCSV(f, tasks, lists)
}

func WriteCSV(out io.Writer, tasks []store.Task, lists []store.List) error {
	w := csv.NewWriter(out)

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	names := listNames(lists)
	for _, t := range tasks {
		row := []string{
			strconv.FormatInt(t.ID, 10),
			listName(names, t.ListID),
			t.Title,
			t.Description,
			strconv.FormatBool(t.Completed),
			string(t.Priority),
			t.DueDate,
			t.DueTime,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func listNames(lists []store.List) map[string]string {
	m := make(map[string]string, len(lists))
	for _, l := range lists {
		m[l.ID] = l.Name
	}
	return m
}

func listName(names map[string]string, id string) string {
	if n, ok := names[id]; ok {
		return n
	}
	return UnknownList
}
