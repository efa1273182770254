package config

// PolicySource defines where the masking policy is loaded from
type PolicySource string

const (
	// PolicySourceFile uses respmask.yaml only
	PolicySourceFile PolicySource = "file"
	// PolicySourceDatabase overlays properties stored in PostgreSQL on top of respmask.yaml
	PolicySourceDatabase PolicySource = "database"
)

// IsValid checks if the policy source is valid
func (s PolicySource) IsValid() bool {
	switch s {
	case PolicySourceFile, PolicySourceDatabase:
		return true
	default:
		return false
	}
}
