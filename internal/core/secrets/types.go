// Package secrets provides the secret backend type constants.
package secrets

// Type represents the type of secret backend.
type Type string

const (
	// TypeKubernetes stores variables in labelled Kubernetes Secrets.
	TypeKubernetes Type = "kubernetes"
	// TypeMemory keeps variables in process memory (for development).
	TypeMemory Type = "memory"
)

// ManagedLabelValue is the label value marking secrets owned by this service.
const ManagedLabelValue = "secured"
