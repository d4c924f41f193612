package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Policy is the externally supplied decision surface of the verification
// pipeline: every threshold and lexicon the validators consult. It is passed
// explicitly into the orchestrator and validators; nothing reads it from
// ambient state.
type Policy struct {
	MinDescriptionLength int `yaml:"min_description_length"`
	MaxDescriptionLength int `yaml:"max_description_length"`

	// CoherenceThreshold is the token-Jaccard floor below which the
	// service/profile overlap produces an advisory warning.
	CoherenceThreshold float64 `yaml:"coherence_threshold"`

	// NameMatchThreshold is the similarity floor for the OCR-extracted name
	// against the registered full name.
	NameMatchThreshold float64 `yaml:"name_match_threshold"`

	FacialMatchThreshold float64 `yaml:"facial_match_threshold"`

	MaxVerificationAttempts int      `yaml:"max_verification_attempts"`
	ReverificationCooldown  Duration `yaml:"reverification_cooldown"`

	ImageQuality ImageQualityPolicy `yaml:"image_quality"`

	// ModerationThresholds maps a moderation category (nudity, violence,
	// drugs, ...) to the score above which the image is rejected.
	ModerationThresholds map[string]float64 `yaml:"moderation_thresholds"`

	// CriticalModerationCategories escalate a moderation breach to a
	// critical security alert instead of a warning-level one.
	CriticalModerationCategories []string `yaml:"critical_moderation_categories"`

	// CategoryKeywords maps a marketplace category to the keywords that mark
	// a description as belonging to it. A category with no entry matches
	// automatically (permissive default, preserved from the original system).
	CategoryKeywords map[string][]string `yaml:"category_keywords"`

	// ProhibitedContent maps an illegal-content category to its keyword list.
	ProhibitedContent map[string][]string `yaml:"prohibited_content"`

	// Professionalism vocabularies. Personal-trait phrases flag a
	// description as non-professional; any of the remaining lists marks it
	// professional.
	ServiceVerbs         []string `yaml:"service_verbs"`
	ServiceNouns         []string `yaml:"service_nouns"`
	ClientBenefitTerms   []string `yaml:"client_benefit_terms"`
	SecondPersonCues     []string `yaml:"second_person_cues"`
	PersonalTraitPhrases []string `yaml:"personal_trait_phrases"`

	// Stopwords removed before token-Jaccard comparison.
	Stopwords []string `yaml:"stopwords"`
}

// ImageQualityPolicy bounds the per-image quality checks in the Documents
// phase.
type ImageQualityPolicy struct {
	MinWidth       int     `yaml:"min_width"`
	MinHeight      int     `yaml:"min_height"`
	SharpnessFloor float64 `yaml:"sharpness_floor"`
	BrightnessMin  float64 `yaml:"brightness_min"`
	BrightnessMax  float64 `yaml:"brightness_max"`
}

// Duration wraps time.Duration so policy files can say "24h" or "90m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// DefaultPolicy returns the compiled-in policy. The lexicons are Spanish
// first (the marketplace operates in Ecuador) with English equivalents where
// providers mix languages.
func DefaultPolicy() Policy {
	return Policy{
		MinDescriptionLength:    50,
		MaxDescriptionLength:    1000,
		CoherenceThreshold:      0.15,
		NameMatchThreshold:      0.8,
		FacialMatchThreshold:    0.8,
		MaxVerificationAttempts: 5,
		ReverificationCooldown:  Duration(1 * time.Hour),
		ImageQuality: ImageQualityPolicy{
			MinWidth:       640,
			MinHeight:      480,
			SharpnessFloor: 100,
			BrightnessMin:  50,
			BrightnessMax:  200,
		},
		ModerationThresholds: map[string]float64{
			"nudity":       0.6,
			"violence":     0.6,
			"drugs":        0.6,
			"gore":         0.6,
			"hate_symbols": 0.5,
		},
		CriticalModerationCategories: []string{"nudity", "drugs", "hate_symbols"},
		CategoryKeywords: map[string][]string{
			"Belleza":      {"maquillaje", "peinado", "manicure", "pedicure", "cabello", "corte", "belleza", "estética", "uñas"},
			"Limpieza":     {"limpieza", "desinfección", "aseo", "hogar", "oficina", "profunda", "lavado"},
			"Tecnología":   {"computadora", "laptop", "reparación", "software", "redes", "instalación", "soporte", "técnico"},
			"Plomería":     {"plomería", "tubería", "fuga", "grifería", "sanitario", "instalación"},
			"Electricidad": {"eléctrica", "eléctrico", "instalación", "cableado", "iluminación", "breaker"},
			"Educación":    {"clases", "tutoría", "curso", "enseñanza", "aprendizaje", "idiomas", "matemáticas"},
		},
		ProhibitedContent: map[string][]string{
			"armas":          {"venta de armas", "armas de fuego", "municiones", "pistola", "revólver"},
			"drogas":         {"venta de drogas", "estupefacientes", "cocaína", "marihuana", "sustancias ilegales"},
			"pornografia":    {"servicios sexuales", "contenido para adultos", "pornografía", "escort"},
			"lavado_activos": {"lavado de dinero", "dinero rápido y seguro", "blanqueo de capitales"},
		},
		ServiceVerbs: []string{
			"ofrezco", "realizo", "brindo", "proporciono", "ejecuto", "presto",
			"proveo", "especializo", "especializada", "especializado", "dedico",
			"atiendo", "ayudo", "offer", "provide", "perform", "specialize", "attend",
		},
		ServiceNouns: []string{
			"servicio", "servicios", "trabajo", "experiencia", "profesional",
			"calidad", "atención", "cliente", "resultado", "instalación",
			"instalaciones", "reparación", "reparaciones", "limpieza",
			"service", "experience", "quality", "installation", "cleaning",
		},
		ClientBenefitTerms: []string{
			"aprende", "aprender", "curso", "cursos", "capacitación", "mejora",
			"mejorar", "learn", "course", "training", "improve",
		},
		SecondPersonCues: []string{
			"necesitas", "quieres", "buscas", "you need", "you want",
		},
		PersonalTraitPhrases: []string{
			"soy alto", "soy bajo", "soy moreno", "soy blanco", "tengo ojos",
			"mi color favorito", "me gusta", "i am tall", "i like dancing",
		},
		Stopwords: []string{
			"el", "la", "los", "las", "de", "del", "que", "y", "a", "en", "un",
			"una", "ser", "se", "no", "haber", "por", "con", "su", "para",
			"como", "estar", "tener", "le", "lo", "todo", "pero", "más",
			"hacer", "o", "poder", "decir", "este", "ir", "otro", "ese", "si",
			"me", "ya", "ver", "porque", "dar", "cuando", "él", "muy", "sin",
		},
	}
}

// LoadPolicy reads a YAML policy file over the compiled-in defaults. Fields
// absent from the file keep their default values; lists and maps present in
// the file replace the default ones wholesale.
func LoadPolicy(path string) (Policy, error) {
	policy := DefaultPolicy()
	if path == "" {
		return policy, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &policy); err != nil {
		return Policy{}, fmt.Errorf("parse policy file: %w", err)
	}
	return policy, nil
}
