package editor

import (
	"context"
	"database/sql"
	"time"

	"github.com/ikari-pl/littera/internal/dataaccess"
	"github.com/ikari-pl/littera/internal/types"
)

// Transactor is the one capability Save needs from the Storage Layer: run
// fn inside a single transaction. internal/storage/ppg.Store.WithTx
// satisfies this directly; tests can supply a fake.
type Transactor interface {
	WithTx(ctx context.Context, fn func(*sql.Tx) error) error
}

// Save serializes every dirty container to canonical source_text and
// applies the create/update/delete sets in one transaction (spec.md §4.5:
// "the entire save is one transaction"). On success the session's saved
// snapshot becomes the current Document and the dirty flag clears; on
// failure the Document is unchanged, the dirty flag remains set, and the
// error is returned verbatim (no partial application is visible either
// way, since the transaction rolls back as a whole).
func (s *Session) Save(ctx context.Context, tx Transactor) error {
	diff := s.Diff()
	if len(diff.Create) == 0 && len(diff.Update) == 0 && len(diff.Delete) == 0 {
		return nil
	}

	now := time.Now().UTC()
	batch := dataaccess.BatchUpdate{Delete: diff.Delete}

	orderOf := make(map[string]int, len(s.current.Containers))
	for i, c := range s.current.Containers {
		orderOf[c.BlockID] = i
	}

	for _, c := range diff.Create {
		batch.Create = append(batch.Create, &types.Block{
			ID:         c.BlockID,
			SectionID:  s.SectionID,
			CreatedAt:  now,
			Kind:       c.Kind,
			Language:   c.Language,
			OrderIndex: orderOf[c.BlockID],
			SourceText: Serialize(c.Kind, c.Content),
		})
	}
	for _, c := range diff.Update {
		createdAt := now
		if orig, ok := s.origin[c.BlockID]; ok {
			createdAt = orig.CreatedAt
		}
		batch.Update = append(batch.Update, &types.Block{
			ID:         c.BlockID,
			SectionID:  s.SectionID,
			CreatedAt:  createdAt,
			Kind:       c.Kind,
			Language:   c.Language,
			OrderIndex: orderOf[c.BlockID],
			SourceText: Serialize(c.Kind, c.Content),
		})
	}

	if err := tx.WithTx(ctx, func(sqlTx *sql.Tx) error {
		return dataaccess.ApplyBlockBatch(ctx, sqlTx, batch)
	}); err != nil {
		return err
	}

	s.markSaved()
	return nil
}
