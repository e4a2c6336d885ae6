package contextstore

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vibecodehq/vibe/pkg/models"
)

// historyCap bounds how much task history the store keeps.
const historyCap = 50

// RecordTask appends a completed task to the project history. The ID is
// generated when empty. History is pruned to the most recent entries.
func (s *Store) RecordTask(task models.CompletedTask) error {
	if task.ID == "" {
		task.ID = uuid.NewString()[:8]
	}
	if task.CompletedAt.IsZero() {
		task.CompletedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.conn.Exec(`
		INSERT INTO completed_tasks (id, kind, description, handler, success, elapsed_ms, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, task.ID, string(task.Kind), task.Description, string(task.Handler),
		boolToInt(task.Success), task.Elapsed.Milliseconds(), formatTime(task.CompletedAt))
	if err != nil {
		return fmt.Errorf("record task: %w", err)
	}

	_, err = s.conn.Exec(`
		DELETE FROM completed_tasks WHERE id NOT IN (
			SELECT id FROM completed_tasks ORDER BY completed_at DESC, id LIMIT ?
		)
	`, historyCap)
	if err != nil {
		return fmt.Errorf("prune task history: %w", err)
	}
	return nil
}

// RecordWorkflow appends a workflow run to the project history.
func (s *Store) RecordWorkflow(name string, success bool, elapsed time.Duration) error {
	return s.RecordTask(models.CompletedTask{
		Kind:        models.TaskKindWorkflow,
		Description: name,
		Success:     success,
		Elapsed:     elapsed,
	})
}

// RecentTasks returns up to limit most-recent completed tasks, newest
// first. The limit is capped at the history cap.
func (s *Store) RecentTasks(limit int) ([]models.CompletedTask, error) {
	if limit <= 0 || limit > historyCap {
		limit = historyCap
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.conn.Query(`
		SELECT id, kind, description, handler, success, elapsed_ms, completed_at
		FROM completed_tasks ORDER BY completed_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.CompletedTask
	for rows.Next() {
		var (
			t         models.CompletedTask
			kind      string
			handler   string
			success   int
			elapsedMS int64
			at        string
		)
		if err := rows.Scan(&t.ID, &kind, &t.Description, &handler, &success, &elapsedMS, &at); err != nil {
			return nil, err
		}
		t.Kind = models.TaskKind(kind)
		t.Handler = models.Handler(handler)
		t.Success = success != 0
		t.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		if t.CompletedAt, err = parseTime(at); err != nil {
			return nil, fmt.Errorf("parse completed_at: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// ContextForAgent renders the project memory as a context block agents
// can consume ahead of a task.
func (s *Store) ContextForAgent() (string, error) {
	stack, err := s.TechStack()
	if err != nil {
		return "", err
	}
	techStack := strings.Join(stack, ", ")
	if techStack == "" {
		techStack = "Not defined"
	}

	conventions, err := s.Prefixed("conventions.")
	if err != nil {
		return "", err
	}

	recent, err := s.RecentTasks(3)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Project Context\n\n")
	fmt.Fprintf(&b, "## Overview\n")
	fmt.Fprintf(&b, "- Project: %s\n", s.project)
	fmt.Fprintf(&b, "- Tech Stack: %s\n", techStack)

	if len(conventions) > 0 {
		fmt.Fprintf(&b, "\n## Conventions\n")
		keys := make([]string, 0, len(conventions))
		for k := range conventions {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "- %s: %s\n", k, conventions[k])
		}
	}

	if len(recent) > 0 {
		fmt.Fprintf(&b, "\n## Recent Tasks\n")
		for _, t := range recent {
			status := "ok"
			if !t.Success {
				status = "failed"
			}
			fmt.Fprintf(&b, "- [%s] %s (%s)\n", status, t.Description, t.Kind)
		}
	}

	return b.String(), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
