// Package model defines the field and output-slot descriptors consumed by
// renderers and by the prediction client. Builders reside in internal/model
// but return the types defined here.
//
// A FormModel is immutable once built: its slot sequence is the arity every
// prediction response is reshaped to, and its field order is the order
// payload entries are emitted in.
package model
