package repository

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimelineSummaryMaxLen is the canonical maximum character length for
// timeline entry summaries. Callers should use TruncateSummary when
// populating CreateTimelineEntryParams.Summary.
const TimelineSummaryMaxLen = 400

// TruncateSummary trims text to maxLen, appending "..." on overflow.
// Returns nil for blank input.
func TruncateSummary(text string, maxLen int) *string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if len(trimmed) > maxLen {
		trimmed = trimmed[:maxLen] + "..."
	}
	return &trimmed
}

type TimelineEntry struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	ActorType string
	ActorName string
	EventType string
	Title     string
	Summary   *string
	Metadata  map[string]any
	CreatedAt time.Time
}

type CreateTimelineEntryParams struct {
	LeadID    uuid.UUID
	ActorType string
	ActorName string
	EventType string
	Title     string
	Summary   *string
	Metadata  map[string]any
}

func (r *Repository) CreateTimelineEntry(ctx context.Context, params CreateTimelineEntryParams) (TimelineEntry, error) {
	metadataJSON, err := json.Marshal(params.Metadata)
	if err != nil {
		return TimelineEntry{}, err
	}

	var entry TimelineEntry
	// metadata is excluded from RETURNING: we already hold params.Metadata
	// as a Go value, so re-scanning the stored JSONB would only add a
	// redundant round trip.
	err = r.pool.QueryRow(ctx, `
		INSERT INTO lead_timeline (lead_id, actor_type, actor_name, event_type, title, summary, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, lead_id, actor_type, actor_name, event_type, title, summary, created_at
	`, params.LeadID, params.ActorType, params.ActorName, params.EventType,
		params.Title, params.Summary, metadataJSON,
	).Scan(
		&entry.ID, &entry.LeadID, &entry.ActorType, &entry.ActorName,
		&entry.EventType, &entry.Title, &entry.Summary, &entry.CreatedAt,
	)
	if err != nil {
		return TimelineEntry{}, err
	}

	entry.Metadata = params.Metadata
	return entry, nil
}

// ListTimeline returns all timeline entries for a lead, newest first.
func (r *Repository) ListTimeline(ctx context.Context, leadID uuid.UUID) ([]TimelineEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, actor_type, actor_name, event_type, title, summary, metadata, created_at
		FROM lead_timeline
		WHERE lead_id = $1
		ORDER BY created_at DESC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]TimelineEntry, 0)
	for rows.Next() {
		var entry TimelineEntry
		var rawMetadata []byte
		if err := rows.Scan(
			&entry.ID, &entry.LeadID, &entry.ActorType, &entry.ActorName,
			&entry.EventType, &entry.Title, &entry.Summary, &rawMetadata, &entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(rawMetadata) > 0 {
			_ = json.Unmarshal(rawMetadata, &entry.Metadata)
		}
		entries = append(entries, entry)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return entries, nil
}
