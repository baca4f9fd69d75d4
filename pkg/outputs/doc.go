// Package outputs turns a raw prediction result into the fixed, positional
// list of artifacts a form renders.
//
// The pipeline runs in five steps:
//
//	Parse       raw JSON -> Node tree (order preserving, depth limited)
//	Flatten     Node -> []Leaf (objects wrap list values once, arrays splice)
//	Decode      []Leaf -> []Artifact (pure, data URIs become bytes/images)
//	Reconcile   pad with hidden markers or keep the first N
//	Materialize write audio/video artifacts to storage as a scoped Batch
//
// Only Materialize touches storage; its Batch must be closed by the caller.
package outputs
