// Package triage implements the Sehha+ symptom classification engine: an
// ordered keyword rule matcher that routes free-text symptom descriptions
// to a specialist referral with an urgency level, and a narrative
// synthesizer that renders the pre-diagnosis, recommendations and
// anxiety-adapted support message shown to the patient.
//
// Both components are pure functions over immutable configuration; they
// are safe for concurrent use without locking.
package triage

import (
	"github.com/sehha-plus/triage-server/internal/domain"
)

// Priority ranks for the specialist rules. Evaluation order is the
// disambiguation mechanism: overlapping terms such as "douleur" must hit
// the cardiac rule before the neurological or rheumatological ones.
const (
	priorityCardiac = iota + 1
	priorityNeurological
	priorityRespiratory
	priorityDigestive
	priorityPsychiatric
	priorityRheumatological
	priorityDermatological
	priorityEndocrine
	priorityGynecological
	priorityUrological
	priorityOphthalmological
	priorityENT
)

// FallbackSpecialist is the referral used when no rule matches.
const FallbackSpecialist = "Médecin généraliste"

// defaultRules returns the specialist routing table. Keywords are stored
// in canonical form (lowercase, accents stripped); the matcher folds the
// report text the same way, so accent and case variants of each keyword
// match without keeping parallel spellings.
func defaultRules() []domain.ClassificationRule {
	return []domain.ClassificationRule{
		{
			Priority: priorityCardiac,
			Keywords: []string{
				"douleur thoracique", "mal poitrine", "douleur poitrine",
				"oppression thoracique", "palpitations", "arythmie",
				"tachycardie", "bradycardie", "dyspnee", "essoufflement",
				"difficulte respirer", "difficulte a respirer",
				"gene respiratoire", "souffle court", "syncope",
				"malaise cardiaque", "oedemes", "fatigue cardiaque",
			},
			Specialist: "Cardiologue",
			Urgency:    domain.UrgencyHigh,
			Investigations: []string{
				"ECG (électrocardiogramme)", "échocardiographie", "troponines",
				"BNP/NT-proBNP", "radiographie thoracique", "test d'effort si stable",
			},
			DomainLabel: "cardiovasculaires",
		},
		{
			Priority: priorityNeurological,
			Keywords: []string{
				"fourmillements", "engourdissements", "paresthesies",
				"picotements", "dysesthesies", "faiblesse musculaire",
				"paralysie", "deficit moteur", "troubles marche", "cephalees",
				"maux de tete", "vertiges", "etourdissements",
				"troubles cognitifs", "tremblements", "convulsions",
				"epilepsie", "troubles memoire", "troubles vision", "diplopie",
			},
			Specialist: "Neurologue",
			Urgency:    domain.UrgencyMedium,
			Investigations: []string{
				"IRM cérébrale", "scanner cérébral", "électromyographie (EMG)",
				"électroencéphalogramme (EEG)", "ponction lombaire si nécessaire",
				"doppler des vaisseaux du cou",
			},
			DomainLabel: "neurologiques",
		},
		{
			Priority: priorityRespiratory,
			Keywords: []string{
				"toux chronique", "toux persistante", "expectorations",
				"hemoptysie", "sifflements", "wheezing", "asthme", "bronchite",
				"pneumonie", "pleuresie", "douleur pleurale",
			},
			Specialist: "Pneumologue",
			Urgency:    domain.UrgencyMedium,
			Investigations: []string{
				"radiographie thoracique", "scanner thoracique", "spirométrie",
				"EFR (épreuves fonctionnelles respiratoires)",
				"gazométrie artérielle", "test tuberculinique",
			},
			DomainLabel: "respiratoires",
		},
		{
			Priority: priorityDigestive,
			Keywords: []string{
				"douleur abdominale", "mal ventre", "nausees", "vomissements",
				"diarrhee", "constipation", "ballonnements", "reflux gastrique",
				"brulures estomac", "dysphagie", "trouble transit",
				"sang dans selles", "melena", "jaunisse", "ictere",
			},
			Specialist: "Gastro-entérologue",
			Urgency:    domain.UrgencyMedium,
			Investigations: []string{
				"échographie abdominale", "scanner abdominal",
				"endoscopie digestive", "coloscopie", "bilan hépatique complet",
				"recherche H. pylori",
			},
			DomainLabel: "digestifs",
		},
		{
			Priority: priorityPsychiatric,
			Keywords: []string{
				"depression", "anxiete", "anxieux", "angoisse", "stress",
				"troubles humeur", "tristesse", "idees noires",
				"troubles sommeil", "insomnie", "cauchemars",
				"troubles comportement", "panique", "phobies",
				"troubles alimentaires", "burnout",
			},
			Specialist: "Psychiatre ou Psychologue",
			Urgency:    domain.UrgencyMedium,
			Investigations: []string{
				"bilan psychologique", "échelles d'évaluation dépression/anxiété",
				"bilan thyroïdien", "dosage vitamine B12",
				"bilan nutritionnel si troubles alimentaires",
			},
			DomainLabel: "psychiatriques",
		},
		{
			Priority: priorityRheumatological,
			Keywords: []string{
				"douleurs articulaires", "arthralgie", "arthrite",
				"raideur matinale", "gonflements", "douleur dos", "lombalgie",
				"sciatique", "rhumatismes", "fibromyalgie",
			},
			Specialist: "Rhumatologue",
			Urgency:    domain.UrgencyLow,
			Investigations: []string{
				"radiographies articulaires", "échographie articulaire",
				"IRM rachis/articulations", "bilan inflammatoire (VS, CRP)",
				"facteur rhumatoïde", "anti-CCP",
			},
			DomainLabel: "rhumatologiques",
		},
		{
			Priority: priorityDermatological,
			Keywords: []string{
				"eruption cutanee", "boutons", "demangeaisons", "prurit",
				"eczema", "psoriasis", "urticaire", "allergie cutanee",
				"grain beaute", "grain de beaute", "lesion cutanee",
				"change couleur", "change de couleur", "change taille",
				"change de taille", "bordures irregulieres", "saignement",
				"melanome", "tache brune", "tache noire", "naevus", "asymetrie",
				"croissance rapide", "texture changee", "relief modifie",
			},
			Specialist: "Dermatologue",
			Urgency:    domain.UrgencyMedium,
			// Suspicious mole changes upgrade the referral to high urgency.
			// The base keyword gate applies first: an escalation keyword
			// alone never matches the rule.
			EscalationKeywords: []string{
				"change couleur", "change de couleur", "change taille",
				"change de taille", "bordures irregulieres", "saignement grain",
				"croissance rapide", "asymetrie",
			},
			EscalatedUrgency: domain.UrgencyHigh,
			Investigations: []string{
				"dermatoscopie numérique", "biopsie cutanée si suspicion",
				"cartographie des grains de beauté",
				"test allergologique si eczéma/urticaire",
				"cultures bactériennes/mycologiques si infection",
			},
			DomainLabel: "dermatologiques",
		},
		{
			Priority: priorityEndocrine,
			Keywords: []string{
				"fatigue extreme", "prise poids inexpliquee", "perte poids",
				"soif excessive", "polyurie", "troubles thyroide", "diabete",
				"hypoglycemie", "bouffees chaleur",
			},
			Specialist: "Endocrinologue",
			Urgency:    domain.UrgencyMedium,
			Investigations: []string{
				"bilan thyroïdien complet (TSH, T3, T4)", "glycémie à jeun",
				"HbA1c", "bilan lipidique", "cortisol", "bilan hormonal complet",
			},
			DomainLabel: "endocriniens",
		},
		{
			Priority: priorityGynecological,
			Keywords: []string{
				"troubles menstruels", "regles douloureuses", "dysmenorrhee",
				"amenorrhee", "metrorragies", "pertes vaginales",
				"douleurs pelviennes", "kyste ovarien", "endometriose",
				"menopause", "contraception",
			},
			Specialist: "Gynécologue",
			Urgency:    domain.UrgencyMedium,
			Investigations: []string{
				"échographie pelvienne", "frottis cervical", "bilan hormonal",
				"dosage HCG si retard règles",
				"hystérosalpingographie si nécessaire",
			},
			DomainLabel: "gynécologiques",
		},
		{
			Priority: priorityUrological,
			Keywords: []string{
				"troubles mictionnels", "dysurie", "pollakiurie", "hematurie",
				"incontinence", "infection urinaire", "cystite",
				"pyelonephrite", "calculs renaux", "prostate",
			},
			Specialist: "Urologue",
			Urgency:    domain.UrgencyMedium,
			Investigations: []string{
				"ECBU (examen cytobactériologique urinaire)",
				"échographie rénale et vésicale", "créatininémie",
				"PSA si homme >50 ans", "UIV si calculs suspectés",
			},
			DomainLabel: "urologiques",
		},
		{
			Priority: priorityOphthalmological,
			Keywords: []string{
				"troubles vision", "vision floue", "diplopie", "photophobie",
				"douleur oculaire", "yeux rouges", "larmoiement",
				"secheresse oculaire", "mouches volantes", "cataracte",
			},
			Specialist: "Ophtalmologue",
			Urgency:    domain.UrgencyMedium,
			Investigations: []string{
				"fond d'œil", "tonométrie", "réfraction",
				"angiographie rétinienne si nécessaire",
				"OCT (tomographie par cohérence optique)",
			},
			DomainLabel: "ophtalmologiques",
		},
		{
			Priority: priorityENT,
			Keywords: []string{
				"mal gorge", "angine", "otite", "sinusite", "rhinite",
				"acouphenes", "surdite", "vertiges oreille", "anosmie",
				"dysphagie", "enrouement",
			},
			Specialist: "ORL (Oto-Rhino-Laryngologue)",
			Urgency:    domain.UrgencyMedium,
			Investigations: []string{
				"otoscopie", "rhinoscopie", "audiométrie", "scanner des sinus",
				"fibroscopie nasale", "tympanométrie",
			},
			DomainLabel: "ORL",
		},
	}
}

// Urgency-only scan used on the fallback path when no specialist rule
// fires. Kept independent from the rule table above; the partial keyword
// overlap with the anxiety scans is intentional and preserved as written.
var (
	urgentScanKeywords = []string{
		"douleur thoracique", "difficulte respirer", "perte conscience",
		"saignement important", "convulsion",
	}
	highScanKeywords = []string{
		"fievre elevee", "douleur intense", "vomissement persistant",
		"vertiges severes",
	}
)

// Keyword sets for the anxiety tier derivation. This is a second,
// independent scan layered on top of specialist routing; the tier never
// feeds back into specialist selection.
var (
	highAnxietyKeywords = []string{
		"angoisse", "panique", "terrifiant", "tres inquiet", "tres anxieux",
		"insupportable", "horrible",
	}
	mentalDistressKeywords = []string{
		"depression", "stress intense", "burnout", "pensees noires",
		"insomnie severe",
	}
	severeSymptomKeywords = []string{
		"douleur intense", "tres douloureux", "atroce", "insupportable",
		"paralysant",
	}
	moderateAnxietyKeywords = []string{
		"inquiet", "anxieux", "stresse",
	}
)

// Keyword sets selecting the support-message family.
var (
	mentalHealthSupportKeywords = []string{
		"anxiete", "anxieux", "stress", "depression", "tristesse", "angoisse",
		"panique", "insomnie", "fatigue mentale",
	}
	physicalPainSupportKeywords = []string{
		"douleur", "mal", "souffrance", "gene", "inconfort",
	}
)
