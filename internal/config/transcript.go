package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Transcript is the metadata header of a persisted run transcript.
type Transcript struct {
	RunID      string
	Objective  string
	StartedAt  string
	EndedAt    string
	Status     string
	Iterations int
}

// WriteTranscript writes a run transcript to disk with a YAML header followed
// by the scrollback content. Returns the written metadata including the
// generated run ID.
func WriteTranscript(objective, status string, iterations int, startedAt time.Time, scrollback []string) (*Transcript, error) {
	if err := EnsureGlobalLogsDir(); err != nil {
		return nil, fmt.Errorf("failed to ensure logs dir: %w", err)
	}

	logsDir, err := GlobalLogsDir()
	if err != nil {
		return nil, err
	}

	endedAt := time.Now().UTC()
	runID := "run-" + startedAt.UTC().Format("2006-01-02T15-04-05")

	// Header values are single-line; objectives come from CLI args but may
	// still carry embedded newlines.
	objective = strings.ReplaceAll(objective, "\n", " ")

	entry := &Transcript{
		RunID:      runID,
		Objective:  objective,
		StartedAt:  startedAt.UTC().Format(time.RFC3339),
		EndedAt:    endedAt.Format(time.RFC3339),
		Status:     status,
		Iterations: iterations,
	}

	filePath := filepath.Join(logsDir, runID+".log")
	f, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create transcript file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "run_id: %s\n", runID)
	fmt.Fprintf(w, "objective: %s\n", objective)
	fmt.Fprintf(w, "started_at: %s\n", entry.StartedAt)
	fmt.Fprintf(w, "ended_at: %s\n", entry.EndedAt)
	fmt.Fprintf(w, "status: %s\n", status)
	fmt.Fprintf(w, "iterations: %d\n", iterations)
	fmt.Fprintln(w, "---")

	for _, line := range scrollback {
		fmt.Fprintln(w, line)
	}

	return entry, w.Flush()
}

// ListTranscripts reads all transcript files and returns their metadata
// (newest first).
func ListTranscripts() ([]*Transcript, error) {
	logsDir, err := GlobalLogsDir()
	if err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(logsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var transcripts []*Transcript
	for _, e := range dirEntries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".log") {
			continue
		}

		entry, err := parseTranscriptHeader(filepath.Join(logsDir, e.Name()))
		if err != nil {
			continue
		}
		transcripts = append(transcripts, entry)
	}

	sort.Slice(transcripts, func(i, j int) bool {
		return transcripts[i].StartedAt > transcripts[j].StartedAt
	})

	return transcripts, nil
}

// ReadTranscript reads a specific transcript and returns metadata + content.
func ReadTranscript(runID string) (*Transcript, string, error) {
	logsDir, err := GlobalLogsDir()
	if err != nil {
		return nil, "", err
	}

	filePath := filepath.Join(logsDir, runID+".log")
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, "", fmt.Errorf("transcript not found: %w", err)
	}

	entry, body := parseTranscriptContent(string(data))
	if entry == nil {
		return nil, "", fmt.Errorf("invalid transcript format")
	}

	return entry, body, nil
}

func parseTranscriptHeader(path string) (*Transcript, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	entry := &Transcript{}
	inHeader := false

	for scanner.Scan() {
		line := scanner.Text()
		if line == "---" {
			if !inHeader {
				inHeader = true
				continue
			}
			break
		}
		if inHeader {
			parseTranscriptHeaderLine(entry, line)
		}
	}

	if entry.RunID == "" {
		entry.RunID = strings.TrimSuffix(filepath.Base(path), ".log")
	}

	return entry, nil
}

func parseTranscriptContent(content string) (*Transcript, string) {
	lines := strings.Split(content, "\n")
	entry := &Transcript{}
	headerEnd := -1
	inHeader := false

	for i, line := range lines {
		if line == "---" {
			if !inHeader {
				inHeader = true
				continue
			}
			headerEnd = i
			break
		}
		if inHeader {
			parseTranscriptHeaderLine(entry, line)
		}
	}

	if headerEnd < 0 {
		return nil, ""
	}

	body := strings.Join(lines[headerEnd+1:], "\n")
	return entry, body
}

func parseTranscriptHeaderLine(entry *Transcript, line string) {
	parts := strings.SplitN(line, ": ", 2)
	if len(parts) != 2 {
		return
	}
	key := strings.TrimSpace(parts[0])
	val := strings.TrimSpace(parts[1])

	switch key {
	case "run_id":
		entry.RunID = val
	case "objective":
		entry.Objective = val
	case "started_at":
		entry.StartedAt = val
	case "ended_at":
		entry.EndedAt = val
	case "status":
		entry.Status = val
	case "iterations":
		fmt.Sscanf(val, "%d", &entry.Iterations)
	}
}
