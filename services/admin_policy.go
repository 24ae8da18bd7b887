package services

import (
	"strings"

	"github.com/anjiri1684/driving_tutor/models"
)

// AdminPolicy grants admin rights to the admin role and to a configured set
// of account emails.
type AdminPolicy struct {
	emails map[string]struct{}
}

func NewAdminPolicy(emails []string) AdminPolicy {
	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			set[e] = struct{}{}
		}
	}
	return AdminPolicy{emails: set}
}

func (p AdminPolicy) IsAdmin(actor Principal) bool {
	if actor.Role == models.RoleAdmin {
		return true
	}
	return p.Lists(actor.Email)
}

// Lists reports whether email is on the allow-list. Listed addresses are
// reserved: they cannot be claimed through self-registration.
func (p AdminPolicy) Lists(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	_, ok := p.emails[email]
	return ok
}
