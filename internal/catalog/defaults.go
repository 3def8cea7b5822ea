package catalog

import "github.com/spigell/hr-signals/internal/domain"

func defaults() *Catalog {
	return &Catalog{
		traits: []Trait{
			{Name: domain.TraitStress, Indicators: []string{"overwhelmed", "burned out", "exhausted", "pressure", "anxious"}},
			{Name: domain.TraitSatisfaction, Indicators: []string{"happy", "satisfied", "fulfilled", "appreciated", "valued"}},
			{Name: domain.TraitMotivation, Indicators: []string{"motivated", "excited", "passionate", "driven", "inspired"}},
			{Name: domain.TraitEngagement, Indicators: []string{"engaged", "involved", "committed", "dedicated", "enthusiastic"}},
			{Name: domain.TraitGrowth, Indicators: []string{"learning", "developing", "growing", "advancing", "improving"}},
		},
		strategies: map[string][]string{
			CategoryHighStress: {
				"Implement mindfulness and stress management workshops",
				"Provide flexible work arrangements and mental health support",
				"Reduce workload temporarily and reassign non-critical tasks",
			},
			CategoryLowSatisfaction: {
				"Conduct one-on-one career development discussions",
				"Provide recognition and appreciation programs",
				"Offer new challenging projects aligned with interests",
			},
			CategoryPoorEngagement: {
				"Enhance team collaboration and communication initiatives",
				"Provide skill development and training opportunities",
				"Implement mentoring and coaching programs",
			},
		},
		fallbackStrategies: []string{
			"Provide personalized coaching sessions focused on individual development goals",
			"Implement flexible work arrangements tailored to personal preferences",
			"Create specialized project assignments aligned with career interests",
		},
		skills: []string{
			"Python", "JavaScript", "React", "Node.js", "Java", "C++", "SQL", "MongoDB",
			"AWS", "Docker", "Kubernetes", "Git", "Machine Learning", "Data Science",
			"TensorFlow", "PyTorch", "Pandas", "NumPy", "Django", "Flask", "Vue.js",
			"Angular", "TypeScript", "HTML", "CSS", "DevOps", "CI/CD", "Jenkins",
			"Terraform", "Ansible", "Linux", "Cybersecurity", "Blockchain", "AI/ML",
		},
		achievementVerbs: []string{
			"led", "managed", "developed", "implemented", "designed", "created",
			"improved", "optimized", "reduced", "increased", "launched", "delivered",
		},
		skillDemand: map[string]float64{
			"Python":           0.9,
			"JavaScript":       0.8,
			"React":            0.85,
			"AWS":              0.88,
			"Machine Learning": 0.92,
			"Docker":           0.75,
			"Kubernetes":       0.82,
		},
		defaultDemand: defaultUnknownSkillValue,
		salaryBands: []SalaryBand{
			{Level: "Junior", MinYears: 0, Min: 65000, Max: 85000},
			{Level: "Mid-Level", MinYears: 2, Min: 85000, Max: 120000},
			{Level: "Senior", MinYears: 5, Min: 120000, Max: 160000},
			{Level: "Lead", MinYears: 8, Min: 160000, Max: 200000},
		},
		highDemandDepartments: map[string]struct{}{
			"Engineering":  {},
			"Data Science": {},
		},
		unitCost: defaultUnitCost,
	}
}
