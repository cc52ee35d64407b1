package services

// StaticAuthorizer grants the administrator role to a fixed set of
// principals, typically loaded from configuration at startup.
type StaticAuthorizer struct {
	admins map[string]bool
}

// NewStaticAuthorizer creates an authorizer for the given admin principals
func NewStaticAuthorizer(admins []string) *StaticAuthorizer {
	set := make(map[string]bool, len(admins))
	for _, principal := range admins {
		set[principal] = true
	}
	return &StaticAuthorizer{admins: set}
}

func (a *StaticAuthorizer) IsAdministrator(principal string) bool {
	return a.admins[principal]
}
