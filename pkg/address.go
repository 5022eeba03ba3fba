package pkg

import (
	"fmt"
	"strings"
	"unicode"
)

const maxPrincipalLength = 128

// ValidatePrincipal checks that s can be used as a user or holder identity.
// The slash is reserved as the separator of user stake keys.
func ValidatePrincipal(s string) error {
	if s == "" {
		return fmt.Errorf("principal must not be empty")
	}
	if len(s) > maxPrincipalLength {
		return fmt.Errorf("principal is longer than %d bytes", maxPrincipalLength)
	}
	if strings.Contains(s, "/") {
		return fmt.Errorf("principal must not contain '/'")
	}
	for _, r := range s {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return fmt.Errorf("principal contains invalid character %q", r)
		}
	}
	return nil
}
