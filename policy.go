package docvec

import (
	"bytes"
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// DefaultPolicyFeedURL is the public endpoint of the policy templates feed.
const DefaultPolicyFeedURL = "https://chromeenterprise.google/static/json/policy_templates_en-US.json"

// PolicyFeed retrieves the structured policy templates document.
type PolicyFeed interface {
	// FetchTemplates downloads and decodes the feed. A document without
	// policy definitions is rejected with EINVALID.
	FetchTemplates(ctx context.Context) (*PolicyTemplates, error)
}

// PolicyTemplates is the top-level shape of the policy feed.
type PolicyTemplates struct {
	PolicyDefinitions []PolicyDefinition `json:"policy_definitions"`
	AtomicGroups      []PolicyGroup      `json:"policy_atomic_group_definitions,omitempty"`
}

// Validate returns an error if the feed is missing its definitions list.
func (t *PolicyTemplates) Validate() error {
	if t == nil || t.PolicyDefinitions == nil {
		return Errorf(EINVALID, "policy feed: missing policy_definitions")
	}
	return nil
}

// PolicyDefinition is a single policy record from the feed.
type PolicyDefinition struct {
	ID           PolicyID        `json:"id,omitempty"`
	Name         string          `json:"name"`
	Caption      string          `json:"caption,omitempty"`
	Deprecated   bool            `json:"deprecated,omitempty"`
	Desc         string          `json:"desc,omitempty"`
	Type         string          `json:"type,omitempty"`
	DeviceOnly   bool            `json:"device_only,omitempty"`
	Features     PolicyFeatures  `json:"features"`
	SupportedOn  []string        `json:"supported_on,omitempty"`
	Items        []PolicyItem    `json:"items,omitempty"`
	Schema       json.RawMessage `json:"schema,omitempty"`
	ExampleValue json.RawMessage `json:"example_value,omitempty"`
	Note         string          `json:"note,omitempty"`
	Tags         []string        `json:"tags,omitempty"`
}

// PolicyFeatures is the feature-flag bag of a policy. Absent flags decode
// as false.
type PolicyFeatures struct {
	DynamicRefresh   bool `json:"dynamic_refresh,omitempty"`
	PerProfile       bool `json:"per_profile,omitempty"`
	CanBeRecommended bool `json:"can_be_recommended,omitempty"`
	CanBeMandatory   bool `json:"can_be_mandatory,omitempty"`
	CloudOnly        bool `json:"cloud_only,omitempty"`
	UserOnly         bool `json:"user_only,omitempty"`
}

// PolicyItem is one allowed value of an enum policy.
type PolicyItem struct {
	Value   json.RawMessage `json:"value,omitempty"`
	Name    string          `json:"name,omitempty"`
	Caption string          `json:"caption,omitempty"`
}

// PolicyGroup is an atomic group of policies that must be applied together.
type PolicyGroup struct {
	Name     string   `json:"name,omitempty"`
	Caption  string   `json:"caption,omitempty"`
	Policies []string `json:"policies,omitempty"`
}

// Label returns the group's caption, falling back to its name.
func (g PolicyGroup) Label() string {
	if g.Caption != "" {
		return g.Caption
	}
	return g.Name
}

// PolicyID is a policy identifier. The feed encodes it as a number, older
// snapshots as a string.
type PolicyID string

// UnmarshalJSON accepts a JSON string, number or null.
func (id *PolicyID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = PolicyID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return Errorf(EINVALID, "policy id: %s", data)
	}
	*id = PolicyID(n.String())
	return nil
}

// Value returns the ID as an int when it is numeric, otherwise as a string.
func (id PolicyID) Value() any {
	if n, err := strconv.Atoi(string(id)); err == nil {
		return n
	}
	return string(id)
}

// SupportedOn is the parsed form of a policy's supported_on list.
type SupportedOn struct {
	// Platforms in first-seen order, without wildcard suffixes.
	Platforms []string

	// MinVersion is the smallest version across all entries. Zero means no
	// entry carried a parseable version.
	MinVersion int

	// Versions holds one "platform vN+" requirement per parsed entry.
	Versions []string
}

var leadingInt = regexp.MustCompile(`(\d+)`)

// ParseSupportedOn parses "platform:version-constraint" entries such as
// "chrome_os:29-", "chrome.*:87-" or "chrome.win:8-". Entries with
// unparseable versions still contribute their platform.
func ParseSupportedOn(entries []string) SupportedOn {
	var out SupportedOn
	seen := make(map[string]struct{})
	for _, entry := range entries {
		platform, version, hasVersion := strings.Cut(entry, ":")
		platform = strings.TrimSuffix(strings.TrimSpace(platform), ".*")
		platform = strings.TrimPrefix(platform, "chrome.")
		if platform == "" {
			continue
		}
		if _, ok := seen[platform]; !ok {
			seen[platform] = struct{}{}
			out.Platforms = append(out.Platforms, platform)
		}
		if !hasVersion {
			continue
		}
		m := leadingInt.FindString(version)
		if m == "" {
			continue
		}
		v, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		if out.MinVersion == 0 || v < out.MinVersion {
			out.MinVersion = v
		}
		out.Versions = append(out.Versions, strings.Replace(platform, "_", " ", 1)+" v"+strconv.Itoa(v)+"+")
	}
	return out
}

// PolicyMetadata is the structured metadata of a policy reference document.
type PolicyMetadata struct {
	PolicyID           PolicyID
	PolicyName         string
	PolicyType         string
	Deprecated         bool
	DeviceOnly         bool
	SupportedPlatforms []string
	MinVersion         int
	Tags               []string
	DynamicRefresh     bool
	PerProfile         bool
	CanBeRecommended   bool
	CanBeMandatory     bool
	CloudOnly          bool
	UserOnly           bool
	HasExample         bool
	PolicyGroups       []string
}

// Fields flattens the metadata into store fields. Every boolean flag is
// always present.
func (m PolicyMetadata) Fields() map[string]any {
	platforms := m.SupportedPlatforms
	if platforms == nil {
		platforms = []string{}
	}
	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}
	platformsText := "Not specified"
	if len(platforms) > 0 {
		platformsText = strings.Join(platforms, ", ")
	}

	fields := map[string]any{
		"policyName":             m.PolicyName,
		"deprecated":             m.Deprecated,
		"deviceOnly":             m.DeviceOnly,
		"supportedPlatforms":     platforms,
		"supportedPlatformsText": platformsText,
		"tags":                   tags,
		"dynamicRefresh":         m.DynamicRefresh,
		"perProfile":             m.PerProfile,
		"canBeRecommended":       m.CanBeRecommended,
		"canBeMandatory":         m.CanBeMandatory,
		"cloudOnly":              m.CloudOnly,
		"userOnly":               m.UserOnly,
		"hasExample":             m.HasExample,
	}
	if m.PolicyID != "" {
		fields["policyId"] = m.PolicyID.Value()
	}
	if m.PolicyType != "" {
		fields["policyType"] = m.PolicyType
	}
	if m.MinVersion > 0 {
		fields["minVersion"] = m.MinVersion
	}
	if len(m.PolicyGroups) > 0 {
		fields["policyGroups"] = m.PolicyGroups
	}
	return fields
}
