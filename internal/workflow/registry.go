package workflow

import "sort"

// Processing modes of the fix stage.
const (
	ModeLocal = "local"
	ModeAPI   = "api"
)

// ScannerSpec describes one supported scanner identifier.
type ScannerSpec struct {
	Name        string
	Description string
}

// FixerSpec describes one supported fixer identifier and the prompt template
// the fix service should apply for it.
type FixerSpec struct {
	Name         string
	TemplateType string
}

// The registries are closed sets resolved at startup; an unknown identifier
// is a configuration error, never a dynamic lookup.
var scannerRegistry = map[string]ScannerSpec{
	"bearer":    {Name: "bearer", Description: "Bearer security-focused static analysis"},
	"sonarqube": {Name: "sonarqube", Description: "SonarQube code quality and security"},
	"semgrep":   {Name: "semgrep", Description: "Semgrep pattern-based static analysis"},
}

var fixerRegistry = map[string]FixerSpec{
	"llm":      {Name: "llm", TemplateType: "security_fix"},
	"template": {Name: "template", TemplateType: "template_fix"},
}

// LookupScanner resolves a scanner identifier.
func LookupScanner(id string) (ScannerSpec, bool) {
	spec, ok := scannerRegistry[id]
	return spec, ok
}

// LookupFixer resolves a fixer identifier.
func LookupFixer(id string) (FixerSpec, bool) {
	spec, ok := fixerRegistry[id]
	return spec, ok
}

// KnownScanners lists the supported scanner identifiers, sorted.
func KnownScanners() []string {
	names := make([]string, 0, len(scannerRegistry))
	for name := range scannerRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// KnownFixers lists the supported fixer identifiers, sorted.
func KnownFixers() []string {
	names := make([]string, 0, len(fixerRegistry))
	for name := range fixerRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidMode reports whether mode is a supported processing mode.
func ValidMode(mode string) bool {
	return mode == ModeLocal || mode == ModeAPI
}
