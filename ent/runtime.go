// Code generated by ent, DO NOT EDIT.

package ent

import (
	"quizcraft/ent/kventry"
	"quizcraft/ent/schema"
	"time"
)

// The init function reads all schema descriptors with runtime code
// (default values, validators, hooks and policies) and stitches it
// to their package variables.
func init() {
	kventryFields := schema.KVEntry{}.Fields()
	_ = kventryFields
	// kventryDescKey is the schema descriptor for key field.
	kventryDescKey := kventryFields[0].Descriptor()
	// kventry.KeyValidator is a validator for the "key" field. It is called by the builders before save.
	kventry.KeyValidator = kventryDescKey.Validators[0].(func(string) error)
	// kventryDescUpdatedAt is the schema descriptor for updated_at field.
	kventryDescUpdatedAt := kventryFields[2].Descriptor()
	// kventry.DefaultUpdatedAt holds the default value on creation for the updated_at field.
	kventry.DefaultUpdatedAt = kventryDescUpdatedAt.Default.(func() time.Time)
	// kventry.UpdateDefaultUpdatedAt holds the default value on update for the updated_at field.
	kventry.UpdateDefaultUpdatedAt = kventryDescUpdatedAt.UpdateDefault.(func() time.Time)
}
