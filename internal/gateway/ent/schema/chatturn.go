package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ChatTurn holds the schema definition for one turn of a refinement
// conversation.
type ChatTurn struct {
	ent.Schema
}

func (ChatTurn) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty(),
		field.Int("ordinal").
			NonNegative(),
		field.Enum("author").
			Values("user", "assistant"),
		field.Text("text"),
		field.Time("created_at").
			Default(time.Now),
	}
}

func (ChatTurn) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("generation", Generation.Type).
			Ref("turns").
			Unique(),
	}
}

func (ChatTurn) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id", "ordinal").Unique(),
	}
}
