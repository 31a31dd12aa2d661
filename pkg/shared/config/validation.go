package config

import (
	"fmt"
	"net/url"
)

// ValidateConfig checks if the global configurations have valid values.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML global config: configuration object is nil")
	}
	if err := validateServicesConfig(&cfg.Services); err != nil {
		return fmt.Errorf("YAML global config: services directive is invalid: %w", err)
	}
	if err := validateWorkflowConfig(&cfg.Workflow); err != nil {
		return fmt.Errorf("YAML global config: workflow directive is invalid: %w", err)
	}
	return nil
}

func validateServicesConfig(services *Services) error {
	if services == nil {
		return fmt.Errorf("services configuration is nil")
	}
	for name, svc := range map[string]Service{
		"scan": services.Scan,
		"rag":  services.Rag,
		"fix":  services.Fix,
	} {
		if svc.BaseURL == "" {
			return fmt.Errorf("%s service base_url is empty", name)
		}
		u, err := url.Parse(svc.BaseURL)
		if err != nil {
			return fmt.Errorf("%s service base_url is not a valid URL: %w", name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("%s service base_url must use http or https, got %q", name, u.Scheme)
		}
	}
	return nil
}

func validateWorkflowConfig(workflow *Workflow) error {
	if workflow == nil {
		return fmt.Errorf("workflow configuration is nil")
	}
	if workflow.ParallelTimeout <= 0 {
		return fmt.Errorf("parallel_timeout must be positive")
	}
	if workflow.QueryLimit <= 0 {
		return fmt.Errorf("query_limit must be positive")
	}
	return nil
}
