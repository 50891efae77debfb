package siteconfig

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// CertificateSetting is the `certificate` field: a boolean (generate or not)
// or the ARN of an existing ACM certificate.
type CertificateSetting struct {
	Generate bool
	ARN      string
}

func (c *CertificateSetting) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("siteconfig: line %d: certificate must be true, false or a certificate ARN", node.Line)
	}

	switch node.ShortTag() {
	case "!!null":
		*c = CertificateSetting{}
		return nil
	case "!!bool":
		var generate bool
		if err := node.Decode(&generate); err != nil {
			return fmt.Errorf("siteconfig: line %d: %w", node.Line, err)
		}
		*c = CertificateSetting{Generate: generate}
		return nil
	}

	arn := strings.TrimSpace(node.Value)
	if arn == "" {
		*c = CertificateSetting{}
		return nil
	}
	if !strings.HasPrefix(arn, "arn:") {
		return fmt.Errorf("siteconfig: line %d: certificate %q is not an ARN", node.Line, arn)
	}
	*c = CertificateSetting{ARN: arn}
	return nil
}

func (c CertificateSetting) MarshalYAML() (any, error) {
	if c.ARN != "" {
		return c.ARN, nil
	}
	return c.Generate, nil
}

// BuildSpecSetting is the `buildSpec` field: a filename inside the source
// tree, or an inline build spec mapping.
type BuildSpecSetting struct {
	File     string
	Document map[string]any
}

func (b *BuildSpecSetting) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*b = BuildSpecSetting{File: strings.TrimSpace(node.Value)}
		return nil
	case yaml.MappingNode:
		document := map[string]any{}
		if err := node.Decode(&document); err != nil {
			return fmt.Errorf("siteconfig: line %d: %w", node.Line, err)
		}
		*b = BuildSpecSetting{Document: document}
		return nil
	default:
		return fmt.Errorf("siteconfig: line %d: buildSpec must be a filename or a mapping", node.Line)
	}
}

func (b BuildSpecSetting) MarshalYAML() (any, error) {
	if b.Document != nil {
		return b.Document, nil
	}
	return b.File, nil
}

// IsZero lets omitempty drop an unset build spec.
func (b BuildSpecSetting) IsZero() bool {
	return b.File == "" && b.Document == nil
}
