// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

package worldfile

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"
)

// DB is the write surface the seeder needs. Both *pgxpool.Pool and pgxmock
// pools satisfy it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Seeder writes a parsed world document into the database.
type Seeder struct {
	db DB
}

// NewSeeder creates a Seeder over the given database handle.
func NewSeeder(db DB) *Seeder {
	return &Seeder{db: db}
}

// Seed inserts the document's content. Inserts use ON CONFLICT DO NOTHING
// keyed on primary IDs, so re-seeding an already loaded world is a no-op.
// Returns the number of rows actually inserted.
//
// Callers wanting all-or-nothing behavior should pass a transaction-bound
// handle.
func (s *Seeder) Seed(ctx context.Context, doc *Document) (int64, error) {
	var inserted int64

	exec := func(op, sql string, args ...any) error {
		tag, err := s.db.Exec(ctx, sql, args...)
		if err != nil {
			return oops.Code("SEED_FAILED").With("operation", op).Wrap(err)
		}
		inserted += tag.RowsAffected()
		return nil
	}

	for _, r := range doc.Rooms {
		if err := exec("insert room", `
			INSERT INTO rooms (id, name, description)
			VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING
		`, r.ID, r.Name, r.Description); err != nil {
			return inserted, err
		}
	}
	for _, it := range doc.Items {
		if err := exec("insert item", `
			INSERT INTO items (id, name, description)
			VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING
		`, it.ID, it.Name, it.Description); err != nil {
			return inserted, err
		}
	}
	for _, f := range doc.Flags {
		if err := exec("insert flag", `
			INSERT INTO story_flags (id, name)
			VALUES ($1, $2) ON CONFLICT (id) DO NOTHING
		`, f.ID, f.Name); err != nil {
			return inserted, err
		}
	}
	for _, l := range doc.Links {
		if err := exec("insert link", `
			INSERT INTO location_links (id, to_room_id, travel_text)
			VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING
		`, l.ID, l.ToRoom, l.TravelText); err != nil {
			return inserted, err
		}
	}

	for _, r := range doc.Rooms {
		for pos, o := range r.Objects {
			if err := exec("insert object", `
				INSERT INTO objects (id, room_id, name, description, position)
				VALUES ($1, $2, $3, $4, $5) ON CONFLICT (id) DO NOTHING
			`, o.ID, r.ID, o.Name, o.Description, pos); err != nil {
				return inserted, err
			}
			for spos, syn := range o.Synonyms {
				if err := exec("insert synonym", `
					INSERT INTO object_synonyms (object_id, synonym, position)
					VALUES ($1, $2, $3) ON CONFLICT (object_id, synonym) DO NOTHING
				`, o.ID, syn, spos); err != nil {
					return inserted, err
				}
			}
			for _, in := range o.Interactions {
				if err := exec("insert interaction", `
					INSERT INTO interactions (
						object_id, verb, link_id, grants_item_id, triggers_flag_id,
						required_item_id, required_flag_id,
						result_text, item_usage_text, already_done_text, unmet_text
					) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
					ON CONFLICT (object_id, verb) DO NOTHING
				`, o.ID, in.Verb,
					nullable(in.Link), nullable(in.GrantsItem), nullable(in.TriggersFlag),
					nullable(in.RequiredItem), nullable(in.RequiredFlag),
					nullable(in.ResultText), nullable(in.ItemUsageText),
					nullable(in.AlreadyDoneText), nullable(in.UnmetText),
				); err != nil {
					return inserted, err
				}
			}
		}
	}

	return inserted, nil
}

// nullable maps an omitted YAML field to SQL NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
