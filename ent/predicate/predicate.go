// Code generated by ent, DO NOT EDIT.

package predicate

import (
	"entgo.io/ent/dialect/sql"
)

// KVEntry is the predicate function for kventry builders.
type KVEntry func(*sql.Selector)
