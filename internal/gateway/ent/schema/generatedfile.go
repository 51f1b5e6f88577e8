package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// GeneratedFile holds the schema definition for one file of a multi-file
// generation result.
type GeneratedFile struct {
	ent.Schema
}

func (GeneratedFile) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty(),
		field.String("path").
			NotEmpty(),
		field.Text("content").
			Optional(),
	}
}

func (GeneratedFile) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("generation", Generation.Type).
			Ref("files").
			Unique(),
	}
}

func (GeneratedFile) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id", "path").Unique(),
	}
}
