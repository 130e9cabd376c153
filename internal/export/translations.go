package export

// Section and label translations for generated documents.
var translations = map[string]map[string]string{
	"en": {
		"businessProgram":  "Security Protection Program",
		"preparedFor":      "Prepared for",
		"generatedOn":      "Generated on",
		"executiveSummary": "Executive Summary",
		"profile":          "Your Business Profile",
		"businessType":     "Business Type",
		"mainChallenge":    "Main Challenge",
		"techLevel":        "Tech Experience",
		"monthlyBudget":    "Monthly Budget",
		"teamSize":         "Team Size",
		"keyFindings":      "Key Findings",
		"recommendations":  "Recommended Protections",
		"priority":         "Priority",
		"keyBenefits":      "Why This Solution",
		"setupTime":        "Setup Time",
		"complexity":       "Complexity",
		"pricing":          "Pricing",
		"website":          "Learn More",
		"roadmap":          "Implementation Roadmap",
		"duration":         "Duration",
		"nextSteps":        "Next Steps",
		"actionPlan":       "90-Day Action Plan",
	},
	"he": {
		"businessProgram":  "תוכנית הגנה עסקית",
		"preparedFor":      "הוכן עבור",
		"generatedOn":      "נוצר ב",
		"executiveSummary": "סיכום מנהלים",
		"profile":          "פרופיל העסק שלך",
		"businessType":     "סוג עסק",
		"mainChallenge":    "אתגר מרכזי",
		"techLevel":        "ניסיון טכנולוגי",
		"monthlyBudget":    "תקציב חודשי",
		"teamSize":         "גודל צוות",
		"keyFindings":      "ממצאים מרכזיים",
		"recommendations":  "הגנות מומלצות",
		"priority":         "עדיפות",
		"keyBenefits":      "יתרונות מרכזיים",
		"setupTime":        "זמן הטמעה",
		"complexity":       "מורכבות",
		"pricing":          "תמחור",
		"website":          "אתר אינטרנט",
		"roadmap":          "מפת דרכים ליישום",
		"duration":         "משך",
		"nextSteps":        "צעדים הבאים",
		"actionPlan":       "תוכנית פעולה ל-90 יום",
	},
	"ru": {
		"businessProgram":  "Программа защиты бизнеса",
		"preparedFor":      "Подготовлено для",
		"generatedOn":      "Создано",
		"executiveSummary": "Резюме для руководителей",
		"profile":          "Профиль вашего бизнеса",
		"businessType":     "Тип бизнеса",
		"mainChallenge":    "Главная проблема",
		"techLevel":        "Технологический опыт",
		"monthlyBudget":    "Месячный бюджет",
		"teamSize":         "Размер команды",
		"keyFindings":      "Ключевые выводы",
		"recommendations":  "Рекомендуемая защита",
		"priority":         "Приоритет",
		"keyBenefits":      "Ключевые преимущества",
		"setupTime":        "Время настройки",
		"complexity":       "Сложность",
		"pricing":          "Цены",
		"website":          "Веб-сайт",
		"roadmap":          "Дорожная карта внедрения",
		"duration":         "Длительность",
		"nextSteps":        "Следующие шаги",
		"actionPlan":       "План действий на 90 дней",
	},
}

// T returns the translation for key in the given language, falling back to
// English and finally to the key itself.
func T(language, key string) string {
	if table, ok := translations[language]; ok {
		if value, ok := table[key]; ok {
			return value
		}
	}
	if value, ok := translations["en"][key]; ok {
		return value
	}
	return key
}
