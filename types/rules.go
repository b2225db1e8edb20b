package types

import (
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"vnexus.com/mtl/logger"
)

// CausalKeywordRule is one row of the ordered causal inference table. The
// first rule whose keyword matches wins.
type CausalKeywordRule struct {
	Keywords   []string     `yaml:"keywords" json:"keywords"`
	Kind       RelationKind `yaml:"relation" json:"relation"`
	Confidence float64      `yaml:"confidence" json:"confidence"`
}

type ProgressionTemplate struct {
	Stages  []ProgressionStage `yaml:"stages" json:"stages"`
	Typical string             `yaml:"typical" json:"typical"`
}

// RuleSet carries every lookup table the analyzers consult. It is built once
// and treated as immutable afterwards, so analyses with different rule sets
// can run concurrently.
type RuleSet struct {
	SeverityPrefixes      map[string]Severity            `yaml:"severity_prefixes" json:"severity_prefixes"`
	CategoryPrefixes      map[string]string              `yaml:"category_prefixes" json:"category_prefixes"`
	DiseaseNames          map[string]string              `yaml:"disease_names" json:"disease_names"`
	ProgressionTemplates  map[string]ProgressionTemplate `yaml:"progression_templates" json:"progression_templates"`
	CausalRules           []CausalKeywordRule            `yaml:"causal_rules" json:"causal_rules"`
	ExclusionKeywords     []string                       `yaml:"exclusion_keywords" json:"exclusion_keywords"`
	WaitingPeriodKeywords []string                       `yaml:"waiting_period_keywords" json:"waiting_period_keywords"`
	InstitutionSuffixes   []string                       `yaml:"institution_suffixes" json:"institution_suffixes"`
	ProcedureKeywords     []string                       `yaml:"procedure_keywords" json:"procedure_keywords"`
	MedicationKeywords    []string                       `yaml:"medication_keywords" json:"medication_keywords"`
	PersonTitles          []string                       `yaml:"person_titles" json:"person_titles"`
	InsuranceKeywords     []string                       `yaml:"insurance_keywords" json:"insurance_keywords"`
	EmergencyKeywords     []string                       `yaml:"emergency_keywords" json:"emergency_keywords"`
	LifestyleKeywords     []string                       `yaml:"lifestyle_keywords" json:"lifestyle_keywords"`
	HereditaryKeywords    []string                       `yaml:"hereditary_keywords" json:"hereditary_keywords"`

	PreExistingWindowDays int `yaml:"pre_existing_window_days" json:"pre_existing_window_days"`
	ClaimWindowDays       int `yaml:"claim_window_days" json:"claim_window_days"`
	RecentWindowDays      int `yaml:"recent_window_days" json:"recent_window_days"`
	CausalProximityDays   int `yaml:"causal_proximity_days" json:"causal_proximity_days"`
}

// LookupSeverity resolves a diagnosis code to a severity tier by longest
// prefix match. Unlisted codes are minor.
func (rules *RuleSet) LookupSeverity(code string) Severity {
	code = strings.ToUpper(strings.TrimSpace(code))
	for l := 3; l >= 1; l-- {
		if len(code) < l {
			continue
		}
		if severity, ok := rules.SeverityPrefixes[code[:l]]; ok {
			return severity
		}
	}
	return SeverityMinor
}

func (rules *RuleSet) LookupCategory(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	for l := 3; l >= 1; l-- {
		if len(code) < l {
			continue
		}
		if category, ok := rules.CategoryPrefixes[code[:l]]; ok {
			return category
		}
	}
	return "unclassified"
}

func (rules *RuleSet) LookupDiseaseName(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if name, ok := rules.DiseaseNames[code]; ok {
		return name
	}
	return code
}

// NewDiagnosis builds a DiagnosisInfo with severity and category resolved
// from the prefix tables. Severity is never set any other way.
func (rules *RuleSet) NewDiagnosis(code string) DiagnosisInfo {
	return DiagnosisInfo{
		Code:     strings.ToUpper(strings.TrimSpace(code)),
		Name:     rules.LookupDiseaseName(code),
		Category: rules.LookupCategory(code),
		Severity: rules.LookupSeverity(code),
	}
}

// LoadRuleSet reads every .yaml file in dirPath as a partial overlay on top
// of the default rule set. Missing dir or empty dir yields the defaults.
func LoadRuleSet(dirPath string) (*RuleSet, error) {
	mtlLogger := logger.NewLogger("LoadRuleSet")
	rules := DefaultRuleSet()

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		if os.IsNotExist(err) {
			mtlLogger.Info().Str("dir", dirPath).Msg("No rules directory, using built-in rule set")
			return rules, nil
		}
		return nil, err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		filePath := path.Join(dirPath, entry.Name())
		buf, err := os.ReadFile(filePath)
		if err != nil {
			mtlLogger.Err(err).Str("file", filePath).Msg("Failed to read rules file")
			return nil, err
		}
		var overlay RuleSet
		if err := yaml.Unmarshal(buf, &overlay); err != nil {
			mtlLogger.Err(err).Str("file", filePath).Msg("Failed to parse rules file")
			return nil, err
		}
		rules.merge(&overlay)
		mtlLogger.Info().Str("file", filePath).Msg("Applied rules overlay")
	}
	return rules, nil
}

func (rules *RuleSet) merge(overlay *RuleSet) {
	for prefix, severity := range overlay.SeverityPrefixes {
		rules.SeverityPrefixes[prefix] = severity
	}
	for prefix, category := range overlay.CategoryPrefixes {
		rules.CategoryPrefixes[prefix] = category
	}
	for code, name := range overlay.DiseaseNames {
		rules.DiseaseNames[code] = name
	}
	for prefix, template := range overlay.ProgressionTemplates {
		rules.ProgressionTemplates[prefix] = template
	}
	if len(overlay.CausalRules) > 0 {
		rules.CausalRules = overlay.CausalRules
	}
	mergeList := func(dst *[]string, src []string) {
		if len(src) > 0 {
			*dst = src
		}
	}
	mergeList(&rules.ExclusionKeywords, overlay.ExclusionKeywords)
	mergeList(&rules.WaitingPeriodKeywords, overlay.WaitingPeriodKeywords)
	mergeList(&rules.InstitutionSuffixes, overlay.InstitutionSuffixes)
	mergeList(&rules.ProcedureKeywords, overlay.ProcedureKeywords)
	mergeList(&rules.MedicationKeywords, overlay.MedicationKeywords)
	mergeList(&rules.PersonTitles, overlay.PersonTitles)
	mergeList(&rules.InsuranceKeywords, overlay.InsuranceKeywords)
	mergeList(&rules.EmergencyKeywords, overlay.EmergencyKeywords)
	mergeList(&rules.LifestyleKeywords, overlay.LifestyleKeywords)
	mergeList(&rules.HereditaryKeywords, overlay.HereditaryKeywords)
	if overlay.PreExistingWindowDays > 0 {
		rules.PreExistingWindowDays = overlay.PreExistingWindowDays
	}
	if overlay.ClaimWindowDays > 0 {
		rules.ClaimWindowDays = overlay.ClaimWindowDays
	}
	if overlay.RecentWindowDays > 0 {
		rules.RecentWindowDays = overlay.RecentWindowDays
	}
	if overlay.CausalProximityDays > 0 {
		rules.CausalProximityDays = overlay.CausalProximityDays
	}
}
