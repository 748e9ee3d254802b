package docvec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

var policyTypeNames = map[string]string{
	"main":        "Boolean",
	"string":      "String",
	"int":         "Integer",
	"int-enum":    "Integer Enum",
	"string-enum": "String Enum",
	"list":        "List",
	"dict":        "Dictionary",
	"external":    "External Data Reference",
}

var platformNames = map[string]string{
	"chrome_os":       "ChromeOS",
	"chrome":          "Chrome",
	"android":         "Android",
	"ios":             "iOS",
	"mac":             "macOS",
	"win":             "Windows",
	"linux":           "Linux",
	"webview_android": "Android WebView",
	"fuchsia":         "Fuchsia",
}

// RenderPolicyMarkdown renders a policy definition as a markdown document.
// Sections appear in a fixed order and only when their source field is
// present: identity, deprecation warning, description, details, allowed
// values, schema, example value, note and tags.
func RenderPolicyMarkdown(p *PolicyDefinition) string {
	lines := []string{"# Policy: " + p.Name}
	if p.Caption != "" {
		lines = append(lines, "\n**"+p.Caption+"**")
	}

	if p.Deprecated {
		lines = append(lines, "\n⚠️ **DEPRECATED POLICY**: This policy may no longer be supported or has been replaced. Please check official documentation for alternatives.\n")
	}

	if desc := cleanDescription(p.Desc); desc != "" {
		lines = append(lines, "\n## Description\n", desc)
	}

	if details := policyDetails(p); len(details) > 0 {
		lines = append(lines, "\n## Details\n")
		lines = append(lines, details...)
	}

	if len(p.Items) > 0 {
		lines = append(lines, "\n## Allowed Values\n")
		for _, item := range p.Items {
			value := "`Not Set`"
			if v := compactJSON(item.Value); v != "" && v != "null" {
				value = "`" + v + "`"
			}
			name := ""
			if item.Name != "" {
				name = " (" + item.Name + ")"
			}
			caption := item.Caption
			if caption == "" {
				caption = "No description"
			}
			lines = append(lines, fmt.Sprintf("* %s%s: %s", value, name, caption))
		}
	}

	if hasJSON(p.Schema) && (p.Type == "dict" || p.Type == "list") {
		lines = append(lines, "\n## Schema\n")
		lines = append(lines, schemaLines(p.Schema)...)
	}

	if hasJSON(p.ExampleValue) {
		lines = append(lines, "\n## Example Value\n", "```json\n"+exampleString(p.ExampleValue)+"\n```")
	}

	if p.Note != "" {
		lines = append(lines, "\n## Note\n", p.Note)
	}

	if len(p.Tags) > 0 {
		tags := make([]string, len(p.Tags))
		for i, t := range p.Tags {
			tags[i] = "`" + t + "`"
		}
		lines = append(lines, "\n## Tags\n", strings.Join(tags, ", "))
	}

	return strings.Join(lines, "\n")
}

// AppendPolicyGroups adds the policy groups section to rendered markdown.
func AppendPolicyGroups(markdown string, groups []string) string {
	if len(groups) == 0 {
		return markdown
	}
	return markdown + "\n\n## Policy Groups\n\nThis policy is part of: " + strings.Join(groups, ", ")
}

func cleanDescription(desc string) string {
	var kept []string
	for _, line := range strings.Split(strings.TrimSpace(desc), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n\n")
}

func policyDetails(p *PolicyDefinition) []string {
	var details []string
	if p.Type != "" {
		name, ok := policyTypeNames[p.Type]
		if !ok {
			name = p.Type
		}
		details = append(details, "* **Policy Type**: "+name)
	}
	if p.DeviceOnly {
		details = append(details, "* **Device Only**: Yes (applies to entire device, not per-user)")
	}
	f := p.Features
	if f.DynamicRefresh {
		details = append(details, "* **Dynamic Refresh**: Yes (changes apply without restart)")
	}
	if f.PerProfile {
		details = append(details, "* **Per Profile**: Yes (can be set differently for each user profile)")
	}
	if f.CanBeRecommended {
		details = append(details, "* **Can Be Recommended**: Yes (can be set as a recommendation rather than mandatory)")
	}
	if f.CanBeMandatory {
		details = append(details, "* **Can Be Mandatory**: Yes (can be enforced as mandatory)")
	}
	if f.CloudOnly {
		details = append(details, "* **Cloud Only**: Yes (can only be set from the cloud console)")
	}
	if f.UserOnly {
		details = append(details, "* **User Only**: Yes (applies to users, not devices)")
	}
	if len(p.SupportedOn) > 0 {
		supported := ParseSupportedOn(p.SupportedOn)
		names := make([]string, len(supported.Platforms))
		for i, platform := range supported.Platforms {
			if name, ok := platformNames[platform]; ok {
				names[i] = name
			} else {
				names[i] = platform
			}
		}
		details = append(details, "* **Supported On**: "+strings.Join(names, ", "))
		if len(supported.Versions) > 0 {
			details = append(details, "* **Version Requirements**: "+strings.Join(supported.Versions, ", "))
		}
	}
	return details
}

func schemaLines(raw json.RawMessage) []string {
	var schema struct {
		Properties json.RawMessage `json:"properties"`
		Required   []string        `json:"required"`
	}
	if err := json.Unmarshal(raw, &schema); err == nil && len(schema.Properties) > 0 && schema.Properties[0] == '{' {
		keys, props, err := orderedObject(schema.Properties)
		if err == nil {
			required := make(map[string]struct{}, len(schema.Required))
			for _, r := range schema.Required {
				required[r] = struct{}{}
			}
			lines := []string{"Properties:"}
			for _, key := range keys {
				var prop struct {
					Type        string `json:"type"`
					Description string `json:"description"`
				}
				_ = json.Unmarshal(props[key], &prop)
				typ := prop.Type
				if typ == "" {
					typ = "unknown"
				}
				suffix := ""
				if _, ok := required[key]; ok {
					suffix = " (required)"
				}
				lines = append(lines, fmt.Sprintf("* `%s`: %s%s", key, typ, suffix))
				if prop.Description != "" {
					lines = append(lines, "  - "+prop.Description)
				}
			}
			return lines
		}
	}
	return []string{"```json\n" + indentJSON(raw) + "\n```"}
}

// orderedObject decodes a JSON object keeping the source key order.
func orderedObject(raw json.RawMessage) ([]string, map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	var keys []string
	values := make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected token %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, nil, err
		}
		if _, dup := values[key]; !dup {
			keys = append(keys, key)
		}
		values[key] = value
	}
	return keys, values, nil
}

func exampleString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return indentJSON(raw)
}

func hasJSON(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	return len(v) > 0 && !bytes.Equal(v, []byte("null"))
}

func compactJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func indentJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(raw), "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
