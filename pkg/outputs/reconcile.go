package outputs

// Reconcile returns exactly n artifacts: missing trailing slots are padded
// with Hidden markers and surplus artifacts beyond the first n are dropped.
func Reconcile(artifacts []Artifact, n int) []Artifact {
	if n < 0 {
		n = 0
	}
	out := make([]Artifact, n)
	copied := copy(out, artifacts)
	for i := copied; i < n; i++ {
		out[i] = Hidden()
	}
	return out
}
