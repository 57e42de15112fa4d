package domain

// SynonymType distinguishes true synonyms from spelling-error mappings.
type SynonymType string

const (
	SynonymTypeSynonym       SynonymType = "synonym"
	SynonymTypeSpellingError SynonymType = "spelling_error"
)

func (t SynonymType) String() string { return string(t) }

func (t SynonymType) IsValid() bool {
	switch t {
	case SynonymTypeSynonym, SynonymTypeSpellingError:
		return true
	}
	return false
}

// UpdatePolicy controls what happens to an existing record on re-import.
type UpdatePolicy string

const (
	// UpdatePolicyMerge unions stored and imported synonyms.
	UpdatePolicyMerge UpdatePolicy = "merge"
	// UpdatePolicyOverwrite replaces stored synonyms with the imported set.
	UpdatePolicyOverwrite UpdatePolicy = "overwrite"
)

func (p UpdatePolicy) String() string { return string(p) }

func (p UpdatePolicy) IsValid() bool {
	switch p {
	case UpdatePolicyMerge, UpdatePolicyOverwrite:
		return true
	}
	return false
}

// MatchMode selects how a record lookup compares words.
type MatchMode string

const (
	MatchExact MatchMode = "exact"
	// MatchContains is a substring match kept for parity with legacy stores.
	//
	// Deprecated: it can silently merge unrelated words. Use MatchExact.
	MatchContains MatchMode = "contains"
)

func (m MatchMode) String() string { return string(m) }

func (m MatchMode) IsValid() bool {
	switch m {
	case MatchExact, MatchContains:
		return true
	}
	return false
}
