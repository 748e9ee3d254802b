package docvec

import (
	"sort"
)

// maxDescriptionKeywords caps how many description keywords become tags.
const maxDescriptionKeywords = 10

// PolicyURL returns the public reference link for a policy.
func PolicyURL(name string) string {
	return "https://chromeenterprise.google/policies/#" + name
}

// PolicyDocumentID returns the stable document ID for a policy.
func PolicyDocumentID(p *PolicyDefinition) string {
	if p.ID != "" {
		return "chrome-policy-" + string(p.ID)
	}
	return "chrome-policy-" + p.Name
}

// NewPolicyMetadata derives the structured metadata of a policy.
func NewPolicyMetadata(p *PolicyDefinition, keywords KeywordExtractor) PolicyMetadata {
	supported := ParseSupportedOn(p.SupportedOn)

	tags := append([]string(nil), p.Tags...)
	if p.Caption != "" {
		tags = append(tags, keywords.Extract(p.Caption)...)
	}
	if p.Desc != "" {
		desc := keywords.Extract(p.Desc)
		if len(desc) > maxDescriptionKeywords {
			desc = desc[:maxDescriptionKeywords]
		}
		tags = append(tags, desc...)
	}

	return PolicyMetadata{
		PolicyID:           p.ID,
		PolicyName:         p.Name,
		PolicyType:         p.Type,
		Deprecated:         p.Deprecated,
		DeviceOnly:         p.DeviceOnly,
		SupportedPlatforms: supported.Platforms,
		MinVersion:         supported.MinVersion,
		Tags:               dedupe(tags),
		DynamicRefresh:     p.Features.DynamicRefresh,
		PerProfile:         p.Features.PerProfile,
		CanBeRecommended:   p.Features.CanBeRecommended,
		CanBeMandatory:     p.Features.CanBeMandatory,
		CloudOnly:          p.Features.CloudOnly,
		UserOnly:           p.Features.UserOnly,
		HasExample:         hasJSON(p.ExampleValue),
	}
}

// PolicySkip records a policy definition left out of a run.
type PolicySkip struct {
	Name   string
	ID     string
	Reason string
}

// PolicyDocuments converts the policy feed into documents. Definitions
// without a name, and any later definition repeating a policy name or
// document ID, are left out and returned as skips. Only a feed that fails
// validation is an error.
func PolicyDocuments(t *PolicyTemplates, keywords KeywordExtractor) ([]*Document, []PolicySkip, error) {
	if err := t.Validate(); err != nil {
		return nil, nil, err
	}

	groups := make(map[string][]string)
	for _, g := range t.AtomicGroups {
		label := g.Label()
		if label == "" {
			continue
		}
		for _, name := range g.Policies {
			groups[name] = append(groups[name], label)
		}
	}

	names := make(map[string]struct{})
	ids := make(map[string]struct{})
	var (
		docs  []*Document
		skips []PolicySkip
	)
	for i := range t.PolicyDefinitions {
		p := &t.PolicyDefinitions[i]
		if p.Name == "" {
			skips = append(skips, PolicySkip{ID: string(p.ID), Reason: "missing policy name"})
			continue
		}
		if _, ok := names[p.Name]; ok {
			skips = append(skips, PolicySkip{Name: p.Name, ID: string(p.ID), Reason: "duplicate policy name"})
			continue
		}
		id := PolicyDocumentID(p)
		if _, ok := ids[id]; ok {
			skips = append(skips, PolicySkip{Name: p.Name, ID: string(p.ID), Reason: "duplicate document ID " + id})
			continue
		}
		names[p.Name] = struct{}{}
		ids[id] = struct{}{}

		meta := NewPolicyMetadata(p, keywords)
		meta.PolicyGroups = groups[p.Name]

		title := p.Caption
		if title == "" {
			title = p.Name
		}

		docs = append(docs, &Document{
			ID:       id,
			Kind:     KindPolicy,
			URL:      PolicyURL(p.Name),
			Title:    title,
			Content:  AppendPolicyGroups(RenderPolicyMarkdown(p), meta.PolicyGroups),
			Metadata: meta.Fields(),
		})
	}
	return docs, skips, nil
}

// PolicyStats summarizes a set of policy documents.
type PolicyStats struct {
	Total       int      `json:"total_policies"`
	Deprecated  int      `json:"deprecated_policies"`
	DeviceOnly  int      `json:"device_only_policies"`
	PerProfile  int      `json:"per_profile_policies"`
	Platforms   []string `json:"platforms"`
	PolicyTypes []string `json:"policy_types"`
}

// SummarizePolicies counts policy documents by their metadata flags.
func SummarizePolicies(docs []*Document) PolicyStats {
	var stats PolicyStats
	platforms := make(map[string]struct{})
	types := make(map[string]struct{})
	for _, d := range docs {
		if d.Kind != KindPolicy {
			continue
		}
		stats.Total++
		if b, _ := d.Metadata["deprecated"].(bool); b {
			stats.Deprecated++
		}
		if b, _ := d.Metadata["deviceOnly"].(bool); b {
			stats.DeviceOnly++
		}
		if b, _ := d.Metadata["perProfile"].(bool); b {
			stats.PerProfile++
		}
		if ps, ok := d.Metadata["supportedPlatforms"].([]string); ok {
			for _, p := range ps {
				platforms[p] = struct{}{}
			}
		}
		if t, ok := d.Metadata["policyType"].(string); ok {
			types[t] = struct{}{}
		}
	}
	stats.Platforms = sortedKeys(platforms)
	stats.PolicyTypes = sortedKeys(types)
	return stats
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
