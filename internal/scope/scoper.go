package scope

// Scoper bundles a classifier and a filter builder behind one dependency for
// HTTP handlers. List endpoints call Classify, Authorize, and Filter in that
// order on every request.
type Scoper struct {
	classifier *Classifier
	builder    *Builder
}

// NewScoper builds a scoper from reference sets and the home-state allow-list.
func NewScoper(ref ReferenceSets, homeStates []string) *Scoper {
	return &Scoper{
		classifier: NewClassifier(ref),
		builder:    NewBuilder(homeStates),
	}
}

// Classify partitions the roles into category match sets.
func (s *Scoper) Classify(roles []string) Bundle {
	return s.classifier.Classify(roles)
}

// Filter builds the storage filter for an authorized request.
func (s *Scoper) Filter(b Bundle, homeState, targetUserID, requesterID string) Filter {
	return s.builder.Build(b, homeState, targetUserID, requesterID)
}
