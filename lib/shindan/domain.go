package shindan

import (
	"fmt"
	"strings"
)

// Domain selects the regional ShindanMaker deployment a client talks to.
type Domain string

const (
	DomainJP Domain = "jp"
	DomainEN Domain = "en"
	DomainCN Domain = "cn"
	DomainKR Domain = "kr"
	DomainTH Domain = "th"
)

// Domains lists every known deployment tag.
var Domains = []Domain{DomainJP, DomainEN, DomainCN, DomainKR, DomainTH}

// ParseDomain resolves a region tag case-insensitively.
func ParseDomain(s string) (Domain, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jp":
		return DomainJP, nil
	case "en":
		return DomainEN, nil
	case "cn":
		return DomainCN, nil
	case "kr":
		return DomainKR, nil
	case "th":
		return DomainTH, nil
	}
	return "", fmt.Errorf("unknown shindanmaker domain: %q", s)
}

func (d Domain) String() string {
	return string(d)
}

// BaseURL returns the deployment root with a trailing slash. The japanese
// deployment lives on the apex domain, the rest are subdomains.
func (d Domain) BaseURL() string {
	if d == DomainJP {
		return "https://shindanmaker.com/"
	}
	return fmt.Sprintf("https://%s.shindanmaker.com/", string(d))
}
