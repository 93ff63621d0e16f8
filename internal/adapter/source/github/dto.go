package github

// ContentResponse is the subset of the contents API response we read
type ContentResponse struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	SHA      string `json:"sha"`
	Size     int    `json:"size"`
	Encoding string `json:"encoding"` // "base64", or "none" for files over 1 MB
	Content  string `json:"content"`
}

// RepositoryResponse is the subset of the repository API response used to
// verify access
type RepositoryResponse struct {
	FullName      string `json:"full_name"`
	Private       bool   `json:"private"`
	DefaultBranch string `json:"default_branch"`
}

// errorResponse is the body GitHub sends with 4xx statuses
type errorResponse struct {
	Message string `json:"message"`
}
