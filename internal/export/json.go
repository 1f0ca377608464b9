package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sadopc/lowkey/internal/store"
)

type jsonExport struct {
	ExportedAt string     `json:"exported_at"`
	Count      int        `json:"count"`
	Lists      []jsonList `json:"lists"`
	Tasks      []jsonTask `json:"tasks"`
}

type jsonList struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type jsonTask struct {
	ID          int64  `json:"id"`
	List        string `json:"list"`
	ListID      string `json:"list_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date,omitempty"`
	DueTime     string `json:"due_time,omitempty"`
}

func ToJSON(tasks []store.Task, lists []store.List, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	defer f.Close()
	return WriteJSON(f, tasks, lists, time.Now())
}

func WriteJSON(w io.Writer, tasks []store.Task, lists []store.List, now time.Time) error {
	export := jsonExport{
		ExportedAt: now.UTC().Format(time.RFC3339),
		Count:      len(tasks),
	}

	for _, l := range lists {
		export.Lists = append(export.Lists, jsonList{ID: l.ID, Name: l.Name, Color: l.Color})
	}

	names := listNames(lists)
	for _, t := range tasks {
		export.Tasks = append(export.Tasks, jsonTask{
			ID:          t.ID,
			List:        listName(names, t.ListID),
			ListID:      t.ListID,
			Title:       t.Title,
			Description: t.Description,
			Completed:   t.Completed,
			Priority:    string(t.Priority),
			DueDate:     t.DueDate,
			DueTime:     t.DueTime,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	data = append(data, '\n')

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}
