package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/nhle/todo-manager/internal/model"
)

// Output formats accepted by --output.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

// shortIDLen is how many id characters the table shows.
const shortIDLen = 8

// taskRow is the scripted form of a task.
type taskRow struct {
	ID          string     `json:"id" yaml:"id"`
	Text        string     `json:"text" yaml:"text"`
	Priority    string     `json:"priority" yaml:"priority"`
	Completed   bool       `json:"completed" yaml:"completed"`
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}

func toRow(t model.Task) taskRow {
	r := taskRow{
		ID:        t.ID,
		Text:      t.Text,
		Priority:  string(t.Priority),
		Completed: t.Completed,
		CreatedAt: t.Created().UTC(),
	}
	if t.CompletedAt != nil {
		at := t.CompletedTime().UTC()
		r.CompletedAt = &at
	}
	return r
}

func validateOutput(format string) error {
	switch format {
	case outputTable, outputJSON, outputYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
}

// writeStructured encodes v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return validateOutput(format)
}

// writeTasks prints tasks in the requested format.
func writeTasks(w io.Writer, format string, tasks []model.Task, now time.Time) error {
	if format != outputTable {
		rows := make([]taskRow, len(tasks))
		for i, t := range tasks {
			rows[i] = toRow(t)
		}
		return writeStructured(w, format, rows)
	}

	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "No tasks.")
		return err
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "", "PRIORITY", "TASK", "CREATED")
	for _, t := range tasks {
		check := "[ ]"
		if t.Completed {
			check = "[x]"
		}
		tbl.Row(shortID(t.ID), check, string(t.Priority), t.Text, humanize.RelTime(t.Created(), now, "ago", "from now"))
	}
	_, err := fmt.Fprintln(w, tbl.Render())
	return err
}

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}
