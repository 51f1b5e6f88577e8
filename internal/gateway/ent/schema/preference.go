package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// Preference holds the schema definition for per-user workspace settings.
type Preference struct {
	ent.Schema
}

func (Preference) Fields() []ent.Field {
	return []ent.Field{
		field.String("user_id").
			NotEmpty().
			Unique(),
		field.String("figma_token").
			Optional().
			Sensitive(),
		field.String("viewport").
			Default("desktop"),
		field.String("framework").
			Optional(),
		field.String("model").
			Optional(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}
