package schema

import (
	"encoding/json"
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// KVEntry is a single persisted key holding an arbitrary JSON document.
// All application state — saved sessions, starred sets, aggregates,
// histories, reports — lives in this one table under a stable key schema.
type KVEntry struct {
	ent.Schema
}

func (KVEntry) Fields() []ent.Field {
	return []ent.Field{
		field.String("key").
			NotEmpty().
			Unique().
			Immutable().
			Comment("Stable storage key, e.g. quizStats_<folder>"),
		field.JSON("value", json.RawMessage(nil)).
			Comment("JSON payload stored under the key"),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now).
			Comment("Last write time"),
	}
}

func (KVEntry) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("key").Unique(),
	}
}
