package types

// DefaultRuleSet is the compiled-in rule set matching the KCD code families
// and the bilingual (Korean/English) keyword tables the recognizer and
// analyzers were tuned on.
func DefaultRuleSet() *RuleSet {
	return &RuleSet{
		SeverityPrefixes: map[string]Severity{
			// Malignant neoplasms
			"C": SeverityCritical,
			// Ischaemic heart disease, cerebrovascular disease
			"I2": SeverityCritical,
			"I6": SeverityCritical,
			// Renal failure
			"N18": SeverityCritical,
			// Circulatory, endocrine, chronic respiratory, hepatic
			"I":   SeverityMajor,
			"E1":  SeverityMajor,
			"J4":  SeverityMajor,
			"K7":  SeverityMajor,
			"D0":  SeverityMajor,
			"F2":  SeverityMajor,
		},
		CategoryPrefixes: map[string]string{
			"A": "infectious",
			"B": "infectious",
			"C": "neoplasm",
			"D": "neoplasm",
			"E": "endocrine",
			"F": "mental",
			"G": "nervous",
			"H": "sensory",
			"I": "circulatory",
			"J": "respiratory",
			"K": "digestive",
			"L": "skin",
			"M": "musculoskeletal",
			"N": "genitourinary",
			"S": "injury",
			"T": "injury",
			"Z": "factors",
		},
		DiseaseNames: map[string]string{
			"C16": "Malignant neoplasm of stomach",
			"C18": "Malignant neoplasm of colon",
			"C34": "Malignant neoplasm of bronchus and lung",
			"C50": "Malignant neoplasm of breast",
			"C78": "Secondary malignant neoplasm of respiratory and digestive organs",
			"E11": "Type 2 diabetes mellitus",
			"I10": "Essential hypertension",
			"I21": "Acute myocardial infarction",
			"I25": "Chronic ischaemic heart disease",
			"I63": "Cerebral infarction",
			"J45": "Asthma",
			"K70": "Alcoholic liver disease",
			"N18": "Chronic kidney disease",
		},
		ProgressionTemplates: map[string]ProgressionTemplate{
			"C78": {
				Stages:  []ProgressionStage{StageInitial, StageProgression, StageTreatment, StageComplication},
				Typical: "metastatic spread with treatment and complication phases",
			},
			"C16": {
				Stages:  []ProgressionStage{StageInitial, StageTreatment, StageRecovery},
				Typical: "diagnosis, resection and recovery",
			},
			"C34": {
				Stages:  []ProgressionStage{StageInitial, StageProgression, StageTreatment},
				Typical: "diagnosis, progression and systemic treatment",
			},
			"I21": {
				Stages:  []ProgressionStage{StageInitial, StageTreatment, StageRecovery, StageComplication},
				Typical: "acute onset, intervention, rehabilitation",
			},
			"I63": {
				Stages:  []ProgressionStage{StageInitial, StageTreatment, StageRecovery},
				Typical: "acute infarction, acute care, rehabilitation",
			},
			"E11": {
				Stages:  []ProgressionStage{StageInitial, StageProgression, StageComplication},
				Typical: "chronic course with late complications",
			},
			"N18": {
				Stages:  []ProgressionStage{StageInitial, StageProgression, StageTreatment},
				Typical: "declining renal function toward dialysis",
			},
		},
		CausalRules: []CausalKeywordRule{
			{
				Keywords:   []string{"complication", "complicated", "adverse", "side effect", "합병증", "부작용", "악화"},
				Kind:       RelationComplicates,
				Confidence: 0.8,
			},
			{
				Keywords:   []string{"caused", "due to", "resulting", "because of", "trigger", "원인", "로 인한", "유발"},
				Kind:       RelationCauses,
				Confidence: 0.7,
			},
			{
				Keywords:   []string{"following", "after", "subsequent", "post-", "이후", "후에", "추적"},
				Kind:       RelationFollows,
				Confidence: 0.6,
			},
			{
				Keywords:   []string{"related", "associated", "linked", "관련", "연관", "동반"},
				Kind:       RelationRelatedTo,
				Confidence: 0.5,
			},
		},
		ExclusionKeywords: []string{
			"pre-existing", "congenital", "chronic", "self-inflicted", "intoxication",
			"기왕증", "선천성", "만성", "자해", "음주",
		},
		WaitingPeriodKeywords: []string{
			"cancer", "tumor", "neoplasm", "psychiatric", "depression", "hernia", "hemorrhoid", "cataract",
			"암", "종양", "정신과", "우울증", "탈장", "치질", "백내장",
		},
		InstitutionSuffixes: []string{
			"병원", "의원", "한의원", "치과", "클리닉", "보건소", "요양원", "요양병원", "의료원",
			"Hospital", "Clinic", "Medical Center", "Health Center",
		},
		ProcedureKeywords: []string{
			"수술", "절제술", "시술", "검사", "내시경", "조직검사", "촬영", "투석",
			"surgery", "resection", "biopsy", "endoscopy", "scan", "mri", "ct", "x-ray", "dialysis",
		},
		MedicationKeywords: []string{
			"정", "캡슐", "시럽", "주사", "처방", "복용",
			"tablet", "capsule", "injection", "prescribed", "mg",
		},
		PersonTitles: []string{
			"의사", "교수", "원장", "간호사",
			"Dr.", "Prof.", "M.D.",
		},
		InsuranceKeywords: []string{
			"보험", "청구", "보험금", "특약", "수익자",
			"insurance", "claim", "policy", "beneficiary",
		},
		EmergencyKeywords: []string{
			"응급", "수술", "입원", "중환자",
			"emergency", "er ", "surgery", "admission", "hospitalization", "icu",
		},
		LifestyleKeywords: []string{
			"흡연", "음주", "알코올", "약물남용",
			"smoking", "smoker", "alcohol", "drinking", "substance abuse",
		},
		HereditaryKeywords: []string{
			"가족력", "유전", "선천성",
			"family history", "genetic", "hereditary", "congenital",
		},
		PreExistingWindowDays: 90,
		ClaimWindowDays:       90,
		RecentWindowDays:      30,
		CausalProximityDays:   7,
	}
}
