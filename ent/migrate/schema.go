// Code generated by ent, DO NOT EDIT.

package migrate

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// KvEntriesColumns holds the columns for the "kv_entries" table.
	KvEntriesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "key", Type: field.TypeString, Unique: true},
		{Name: "value", Type: field.TypeJSON},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// KvEntriesTable holds the schema information for the "kv_entries" table.
	KvEntriesTable = &schema.Table{
		Name:       "kv_entries",
		Columns:    KvEntriesColumns,
		PrimaryKey: []*schema.Column{KvEntriesColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "kventry_key",
				Unique:  true,
				Columns: []*schema.Column{KvEntriesColumns[1]},
			},
		},
	}
	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		KvEntriesTable,
	}
)

func init() {
}
