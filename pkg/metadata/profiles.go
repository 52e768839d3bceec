package metadata

import (
	_ "embed"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed profiles.yaml
var profilesYAML []byte

// Profile is one national DCAT-AP application profile: the portals it
// governs, the extra mandatory fields it layers on the DCAT-AP core,
// and its extras-key aliases for logical fields.
type Profile struct {
	Name      string              `yaml:"name"`
	Portals   []string            `yaml:"portals"`
	Mandatory []string            `yaml:"mandatory"`
	Aliases   map[string][]string `yaml:"aliases"`

	// DistributionLicense is "mandatory" when the profile requires a
	// license on every distribution, not just the dataset.
	DistributionLicense string `yaml:"distribution_license"`
}

// MandatesDistributionLicense reports whether a missing per-resource
// license is a major defect under this profile.
func (p *Profile) MandatesDistributionLicense() bool {
	return p != nil && p.DistributionLicense == "mandatory"
}

type profileRegistry struct {
	Baseline string    `yaml:"baseline"`
	Profiles []Profile `yaml:"profiles"`
}

var loadRegistry = sync.OnceValues(func() (*profileRegistry, error) {
	var reg profileRegistry
	if err := yaml.Unmarshal(profilesYAML, &reg); err != nil {
		return nil, fmt.Errorf("invalid profile registry: %w", err)
	}
	return &reg, nil
})

func registry() *profileRegistry {
	reg, err := loadRegistry()
	if err != nil {
		// the registry is embedded; a parse failure is a build defect
		panic(err)
	}
	return reg
}

// Baseline returns the fallback profile name.
func Baseline() string {
	return registry().Baseline
}

// ProfileByName looks up a profile, or nil for the baseline.
func ProfileByName(name string) *Profile {
	reg := registry()
	for i := range reg.Profiles {
		if reg.Profiles[i].Name == name {
			return &reg.Profiles[i]
		}
	}
	return nil
}

// ResolverState tracks profile detection progress.
type ResolverState int

const (
	StateUnresolved ResolverState = iota
	StateDetecting
	StateResolved
)

// itIdentifierRe matches the agency-prefixed identifiers Italian
// catalogs assign (e.g. "r_toscan:abc123").
var itIdentifierRe = regexp.MustCompile(`^[a-z]_[a-z0-9]+:`)

// ProfileResolver picks the applicable profile for a package. Detection
// runs the signals in order of reliability: portal hostname, then
// identifier shape, then profile-specific fields, then the baseline.
type ProfileResolver struct {
	state   ResolverState
	profile *Profile
	name    string
}

// NewProfileResolver returns an unresolved resolver.
func NewProfileResolver() *ProfileResolver {
	return &ProfileResolver{state: StateUnresolved}
}

// State returns the resolver state.
func (r *ProfileResolver) State() ResolverState { return r.state }

// Profile returns the resolved profile, nil for the baseline.
func (r *ProfileResolver) Profile() *Profile { return r.profile }

// Name returns the resolved profile name.
func (r *ProfileResolver) Name() string { return r.name }

// Resolve determines the profile once; later calls return the cached
// answer.
func (r *ProfileResolver) Resolve(pkg *Package, portalURL string) string {
	if r.state == StateResolved {
		return r.name
	}
	r.state = StateDetecting

	if p := profileForPortal(portalURL); p != nil {
		return r.resolved(p)
	}
	if pkg != nil {
		if itIdentifierRe.MatchString(strings.ToLower(pkg.Field("identifier", nil))) {
			return r.resolved(ProfileByName("DCAT-AP_IT"))
		}
		if pkg.Field("holder_name", nil) != "" {
			return r.resolved(ProfileByName("DCAT-AP_IT"))
		}
	}
	r.state = StateResolved
	r.name = Baseline()
	return r.name
}

func (r *ProfileResolver) resolved(p *Profile) string {
	r.state = StateResolved
	r.profile = p
	if p != nil {
		r.name = p.Name
	} else {
		r.name = Baseline()
	}
	return r.name
}

func profileForPortal(portalURL string) *Profile {
	host := hostOf(portalURL)
	if host == "" {
		return nil
	}
	reg := registry()
	for i := range reg.Profiles {
		for _, portal := range reg.Profiles[i].Portals {
			if host == portal || strings.HasSuffix(host, "."+portal) {
				return &reg.Profiles[i]
			}
		}
	}
	return nil
}

func hostOf(raw string) string {
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
