package domain

// LookupKey identifies the reconciliation target of an imported word.
type LookupKey struct {
	Word     string
	Type     SynonymType
	Language string
	Match    MatchMode
}

// SynonymFilter selects records for export.
type SynonymFilter struct {
	Language   string
	Type       *SynonymType // nil means all types
	ActiveOnly bool
	Limit      int // 0 means no limit
}
