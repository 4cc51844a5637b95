package models

// SecretError reports why one secret of a multi-secret operation failed.
type SecretError struct {
	Secret  string `json:"secretName"`
	Message string `json:"errorMessage"`
}

// SecretVariables lists the variable names stored in one secret.
type SecretVariables struct {
	Secret    string   `json:"secretName"`
	Variables []string `json:"variables"`
}
