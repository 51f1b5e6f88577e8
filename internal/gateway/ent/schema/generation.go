package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Generation holds the schema definition for one persisted generation result.
type Generation struct {
	ent.Schema
}

func (Generation) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Unique(),
		field.String("mode").
			NotEmpty(),
		field.String("framework").
			NotEmpty(),
		field.String("language").
			Default("javascript"),
		field.String("model").
			NotEmpty(),
		field.String("shape").
			NotEmpty(),
		field.Text("document").
			Optional(),
		field.JSON("suggestions", []string{}).
			Optional(),
		field.Time("created_at").
			Default(time.Now),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

func (Generation) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("files", GeneratedFile.Type),
		edge.To("turns", ChatTurn.Type),
	}
}

func (Generation) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id").Unique(),
	}
}
