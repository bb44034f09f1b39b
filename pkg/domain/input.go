package domain

// Input is a variable an algorithm expects before it runs, with the expression
// used when the caller does not provide one.
type Input struct {
	Name    string `json:"name" yaml:"name"`
	Default string `json:"default" yaml:"default"`
}
