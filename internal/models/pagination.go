package models

// ListOptions is offset/limit pagination plus sort direction on the
// listing's natural timestamp.
type ListOptions struct {
	Skip      int64
	Limit     int64
	Ascending bool
}
