package environment

import "strings"

// Environment represents the deployment environment of the service.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Parse normalizes common spellings ("prod", "stage", "dev") into an
// Environment. Unknown or empty values map to Development.
func Parse(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "production", "prod":
		return Production
	case "staging", "stage":
		return Staging
	default:
		return Development
	}
}

// IsProduction reports whether s names the production environment.
func IsProduction(s string) bool {
	return Parse(s) == Production
}

// IsDeployed reports whether e is a shared environment (staging or
// production) rather than a developer machine.
func (e Environment) IsDeployed() bool {
	return e == Staging || e == Production
}
