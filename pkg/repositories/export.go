package repositories

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/mwhitt/runsync/pkg/repositories/models"
)

// ExportEvents writes all events (optionally filtered by run ID) as
// zstd-compressed JSON lines.
func ExportEvents(ctx context.Context, repo Repository, runID string, w io.Writer) error {
	events, err := repo.ListEvents(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to list events: %v", err)
	}

	compWriter, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %v", err)
	}
	// The encoder owns goroutines; make sure error returns release
	// them. The explicit Close below still reports the flush error.
	defer compWriter.Close()

	for _, event := range events {
		b, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to marshal event: %v", err)
		}
		if _, err := compWriter.Write(append(b, '\n')); err != nil {
			return fmt.Errorf("failed to compress event: %v", err)
		}
	}

	if err := compWriter.Close(); err != nil {
		return fmt.Errorf("failed to close zstd writer: %v", err)
	}

	return nil
}

// ImportEvents reads zstd-compressed JSON lines written by ExportEvents
// and appends them to the repository.
func ImportEvents(ctx context.Context, repo Repository, r io.Reader) (int, error) {
	compReader, err := zstd.NewReader(r)
	if err != nil {
		return 0, fmt.Errorf("failed to create zstd reader: %v", err)
	}
	defer compReader.Close()

	count := 0
	scanner := bufio.NewScanner(compReader)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		event := &models.Event{}
		if err := json.Unmarshal(line, event); err != nil {
			return count, fmt.Errorf("failed to unmarshal event: %v", err)
		}

		if err := repo.SaveEvent(ctx, event); err != nil {
			return count, fmt.Errorf("failed to save event: %v", err)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("failed to read export: %v", err)
	}

	return count, nil
}
