package config

// YAMLIndex mirrors index.yaml at the workspace root.
type YAMLIndex struct {
	BaseURL       string            `yaml:"base-url"`
	Repos         []string          `yaml:"repos"`
	HavocMappings map[string]string `yaml:"havoc-mappings"`
}

// YAMLIconIndex mirrors icons/index.yaml.
type YAMLIconIndex map[string]string
