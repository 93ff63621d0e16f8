package domain

// Confidence grades a file-to-product match
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"   // content hash equality
	ConfidenceMedium Confidence = "medium" // liver name found in the file name
)
