package ledger

import (
	"context"
	"fmt"
	"time"

	"slidecast/internal/course"
)

// ArtifactKind names a per-slide output.
type ArtifactKind string

const (
	KindComposition ArtifactKind = "composition"
	KindNarration   ArtifactKind = "narration"
)

// ArtifactStatus is the latest outcome for an artifact.
type ArtifactStatus string

const (
	ArtifactReady   ArtifactStatus = "ready"
	ArtifactFailed  ArtifactStatus = "failed"
	ArtifactSkipped ArtifactStatus = "skipped"
)

// Artifact is the latest recorded outcome for one slide output.
type Artifact struct {
	Slide     course.SlideID
	Kind      ArtifactKind
	Path      string
	Status    ArtifactStatus
	Duration  float64
	Detail    string
	RunID     string
	UpdatedAt time.Time
}

// RecordArtifact upserts the outcome for (slide, kind).
func (l *Ledger) RecordArtifact(ctx context.Context, a Artifact) error {
	_, err := l.exec(ctx,
		`INSERT INTO artifacts (module_id, slide_id, kind, path, status, duration_seconds, detail, run_id, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(module_id, slide_id, kind) DO UPDATE SET
		   path = excluded.path,
		   status = excluded.status,
		   duration_seconds = excluded.duration_seconds,
		   detail = excluded.detail,
		   run_id = excluded.run_id,
		   updated_at = excluded.updated_at`,
		a.Slide.Module, a.Slide.Slide, a.Kind, a.Path, a.Status, a.Duration, a.Detail, a.RunID, l.timestamp(),
	)
	if err != nil {
		return fmt.Errorf("record %s artifact for %s: %w", a.Kind, a.Slide, err)
	}
	return nil
}

// Artifacts returns every recorded artifact ordered by slide, then kind.
func (l *Ledger) Artifacts(ctx context.Context) ([]Artifact, error) {
	rows, err := l.db.QueryContext(ensureContext(ctx),
		`SELECT module_id, slide_id, kind, path, status, duration_seconds, detail, run_id, updated_at
		 FROM artifacts ORDER BY module_id, slide_id, kind`)
	if err != nil {
		return nil, fmt.Errorf("query artifacts: %w", err)
	}
	defer rows.Close()

	var out []Artifact
	for rows.Next() {
		var (
			a       Artifact
			updated string
		)
		if err := rows.Scan(&a.Slide.Module, &a.Slide.Slide, &a.Kind, &a.Path, &a.Status, &a.Duration,
			&a.Detail, &a.RunID, &updated); err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		a.UpdatedAt = parseTime(updated)
		out = append(out, a)
	}
	return out, rows.Err()
}
