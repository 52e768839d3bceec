// Package metadata validates CKAN/DCAT-AP dataset metadata: mandatory
// fields per national profile, per-resource distribution checks,
// resource accessibility and metadata/file consistency.
package metadata

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Package is a CKAN package_show result. Only the fields the checks
// consume are mapped; portals attach many more.
type Package struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Title            string     `json:"title"`
	Notes            string     `json:"notes"`
	LicenseID        string     `json:"license_id"`
	LicenseTitle     string     `json:"license_title"`
	MetadataCreated  string     `json:"metadata_created"`
	MetadataModified string     `json:"metadata_modified"`
	Frequency        string     `json:"frequency"`
	Identifier       string     `json:"identifier"`
	HolderName       string     `json:"holder_name"`
	Organization     *Org       `json:"organization"`
	Tags             []Tag      `json:"tags"`
	Extras           []Extra    `json:"extras"`
	Resources        []Resource `json:"resources"`
}

// Org is the publishing organization.
type Org struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// Tag is a dataset keyword.
type Tag struct {
	Name string `json:"name"`
}

// Extra is a free-form key/value pair. Values are usually strings but
// some portals nest JSON.
type Extra struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Resource is one distribution of the dataset.
type Resource struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Format       string `json:"format"`
	Mimetype     string `json:"mimetype"`
	URL          string `json:"url"`
	LicenseID    string `json:"license_id"`
	License      string `json:"license"`
	Encoding     string `json:"encoding"`
	LastModified string `json:"last_modified"`
	Size         any    `json:"size"`
}

// SizeBytes normalizes the size field, which portals publish as a
// number, a numeric string or null.
func (r *Resource) SizeBytes() int64 {
	switch v := r.Size.(type) {
	case float64:
		return int64(v)
	case string:
		var n int64
		if _, err := fmt.Sscanf(strings.TrimSpace(v), "%d", &n); err == nil {
			return n
		}
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
	}
	return 0
}

// Label names the resource for findings.
func (r *Resource) Label() string {
	if r.Name != "" {
		return r.Name
	}
	if r.ID != "" {
		return r.ID
	}
	return r.URL
}

// Extra returns the first non-empty extras value among the keys.
func (p *Package) Extra(keys ...string) string {
	for _, key := range keys {
		for _, e := range p.Extras {
			if e.Key != key {
				continue
			}
			if s := stringifyExtra(e.Value); s != "" {
				return s
			}
		}
	}
	return ""
}

func stringifyExtra(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", val), "0"), ".")
	case bool:
		return fmt.Sprintf("%t", val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// Field resolves a logical metadata field: a top-level value first,
// then the extras key of the same name, then any profile aliases
// (data.gov.uk publishes issued/modified as dcat_issued/dcat_modified).
func (p *Package) Field(name string, profile *Profile) string {
	switch name {
	case "title":
		return strings.TrimSpace(p.Title)
	case "description":
		return strings.TrimSpace(p.Notes)
	case "frequency":
		if p.Frequency != "" {
			return p.Frequency
		}
	case "identifier":
		if p.Identifier != "" {
			return p.Identifier
		}
	case "holder_name":
		if p.HolderName != "" {
			return p.HolderName
		}
	case "issued":
		if v := p.Extra(aliasKeys(name, profile)...); v != "" {
			return v
		}
		return strings.TrimSpace(p.MetadataCreated)
	case "modified":
		if v := p.Extra(aliasKeys(name, profile)...); v != "" {
			return v
		}
		return strings.TrimSpace(p.MetadataModified)
	}
	return p.Extra(aliasKeys(name, profile)...)
}

func aliasKeys(name string, profile *Profile) []string {
	keys := []string{name}
	if profile != nil {
		keys = append(keys, profile.Aliases[name]...)
	}
	return keys
}
