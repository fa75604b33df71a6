package plain

// Sample looks like a processor but nothing here imports the contract.
type Sample struct{}

// Declare mimics the contract method.
func (Sample) Declare(path string) []string { return []string{path} }
