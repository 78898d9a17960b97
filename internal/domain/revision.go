package domain

// Revision identifies one installed snapshot of the lead collection.
// Seq grows with every applied change. Epoch is fixed for the lifetime of a
// store instance and differs between instances, so a revision taken before a
// restart never equals one taken after it.
type Revision struct {
	Epoch string
	Seq   uint64
}
