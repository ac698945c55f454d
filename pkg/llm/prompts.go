package llm

import (
	"fmt"
	"strings"

	"github.com/sehha-plus/triage-server/internal/domain"
)

// analysisSystemPrompt pins the model to the strict specialist routing
// rules. The wording matters: earlier model versions routed chest pain
// to neurology when the overlap rules were phrased more loosely.
const analysisSystemPrompt = `Tu es un médecin expert spécialisé en médecine interne et diagnostic différentiel avec expertise particulière en neurologie. Tu DOIS respecter strictement les règles d'orientation spécialisée. RÈGLE ABSOLUE: Fourmillements, engourdissements, paresthésies = NEUROLOGUE obligatoirement. Réponds UNIQUEMENT en français médical professionnel avec orientations précises.`

// mentalHealthSystemPrompt drives the anonymous support chat. The model
// must stay in the listening role and never produce medical advice.
const mentalHealthSystemPrompt = `Tu es un psychologue bienveillant et empathique qui mène une conversation de soutien en français. Tu dois:
- Avoir une conversation naturelle et chaleureuse
- Écouter activement et valider les émotions
- Poser des questions ouvertes pour encourager l'expression
- Utiliser des techniques de thérapie conversationnelle
- Offrir de la compréhension et de l'empathie
- Aider la personne à explorer ses sentiments
- Éviter de donner des diagnostics ou recommandations médicales
- Garder un ton conversationnel et humain
- Répondre comme si tu étais en séance avec un patient

IMPORTANT: Ne donne jamais de recommandations médicales, d'examens ou de traitements. Reste dans le rôle d'un psychologue qui écoute et soutient émotionnellement.

Humeur actuelle du patient: %s`

// followUpSystemPrompt drives the guided consultation chat.
const followUpSystemPrompt = `Vous êtes un assistant médical IA bienveillant qui mène des consultations structurées pour aider les patients.`

// BuildAnalysisMessages builds the chat messages for a symptom analysis.
func BuildAnalysisMessages(report *domain.SymptomReport) []ChatMessage {
	profile := report.Profile
	if profile == nil {
		profile = &domain.PatientProfile{}
	}

	age := "Non spécifié"
	if profile.Age > 0 {
		age = fmt.Sprintf("%d", profile.Age)
	}

	userProfile := fmt.Sprintf(`Age: %s
Genre: %s
Médicaments actuels: %s
Allergies: %s
Historique médical: %s`,
		age,
		orDefault(profile.Gender, "Non spécifié"),
		orDefault(profile.Medications, "Aucun"),
		orDefault(profile.Allergies, "Aucune"),
		orDefault(report.MedicalHistory, "Aucun"),
	)

	prompt := fmt.Sprintf(`ANALYSE MÉDICALE IMMÉDIATE - SYMPTÔMES ACTUELS UNIQUEMENT

PATIENT:
%s

SYMPTÔMES À ANALYSER MAINTENANT:
"%s"

ANALYSE REQUISE:
1. Analyser UNIQUEMENT les symptômes actuels
2. Identifier le système organique principal concerné
3. Déterminer l'urgence selon la gravité
4. Recommander le spécialiste approprié

ORIENTATION SPÉCIALISÉE EXPERTE - RÈGLES STRICTES:
- Symptômes cardiovasculaires PRIORITAIRES (douleur thoracique, mal poitrine, oppression thoracique, tachycardie, palpitations, arythmie, dyspnée avec douleur thoracique, œdèmes, syncope) → "Cardiologue" (URGENT)
- Symptômes neurologiques (fourmillements, engourdissements, paresthésies, céphalées, vertiges, déficits moteurs, troubles cognitifs, faiblesse musculaire, tremblements) → "Neurologue"
- Symptômes respiratoires ISOLÉS (toux chronique, dyspnée SANS douleur thoracique, douleur thoracique pleurale, hémoptysie) → "Pneumologue"
- Symptômes digestifs (douleurs abdominales, troubles transit, nausées persistantes, vomissements, dysphagie) → "Gastro-entérologue"
- Symptômes endocriniens (fatigue chronique avec troubles métaboliques, troubles poids, soif excessive, polyurie) → "Endocrinologue"
- Symptômes psychiatriques (troubles humeur, anxiété, dépression, troubles sommeil, troubles comportementaux) → "Psychiatre ou Psychologue"
- Symptômes rhumatologiques (douleurs articulaires, raideurs matinales, gonflements articulaires) → "Rhumatologue"
- Symptômes dermatologiques (lésions cutanées, éruptions, prurit généralisé) → "Dermatologue"
- Symptômes gynécologiques (troubles menstruels, douleurs pelviennes) → "Gynécologue"
- Symptômes urologiques (troubles mictionnels, douleurs lombaires) → "Urologue"
- Pathologie générale sans orientation spécifique → "Médecin généraliste"

PRIORITÉ ABSOLUE:
- Tout symptôme de douleur thoracique, tachycardie, palpitations, dyspnée doit OBLIGATOIREMENT orienter vers "Cardiologue"
- Tout symptôme de fourmillements, engourdissements, paresthésies, faiblesse musculaire doit OBLIGATOIREMENT orienter vers "Neurologue"

INTERDICTION ABSOLUE: Ne JAMAIS recommander "Neurologue" pour des symptômes cardiaques (douleur thoracique, tachycardie, dyspnée)

FORMAT RÉPONSE:
- Spécialiste recommandé: [selon symptômes actuels]
- Urgence: [low/medium/high/urgent]
- Hypothèses diagnostiques avec justification clinique

IMPORTANT: Analyse préliminaire d'aide à la consultation - diagnostic médical requis.`,
		userProfile, report.Text)

	return []ChatMessage{
		{Role: "system", Content: analysisSystemPrompt},
		{Role: "user", Content: prompt},
	}
}

// BuildMentalHealthMessages builds the chat messages for one turn of the
// anonymous support conversation. Only the last four turns of history
// are forwarded.
func BuildMentalHealthMessages(message string, history []domain.ChatMessage, mood string) []ChatMessage {
	messages := []ChatMessage{
		{Role: "system", Content: fmt.Sprintf(mentalHealthSystemPrompt, orDefault(mood, "non spécifiée"))},
	}

	start := 0
	if len(history) > 4 {
		start = len(history) - 4
	}
	for _, msg := range history[start:] {
		messages = append(messages, ChatMessage{Role: msg.Role, Content: msg.Content})
	}

	return append(messages, ChatMessage{Role: "user", Content: message})
}

// BuildFollowUpMessages builds the chat messages for a guided follow-up
// exchange during a consultation.
func BuildFollowUpMessages(question, patientResponse, symptoms string, history []domain.ChatMessage) []ChatMessage {
	var conversation strings.Builder
	for _, msg := range history {
		conversation.WriteString(msg.Role)
		conversation.WriteString(": ")
		conversation.WriteString(msg.Content)
		conversation.WriteByte('\n')
	}

	prompt := fmt.Sprintf(`Vous continuez une consultation médicale IA. Voici le contexte:

SYMPTÔMES INITIAUX:
%s

HISTORIQUE DE LA CONVERSATION:
%s
DERNIÈRE QUESTION POSÉE:
%s

RÉPONSE DU PATIENT:
%s

Fournissez une réponse JSON avec:
- response: Votre réponse empathique et professionnelle à la réponse du patient, TOUJOURS terminer par une question de suivi pertinente
- nextQuestions: Array de 2-3 questions de suivi spécifiques au contexte médical
- readyForDiagnosis: boolean indiquant si vous avez assez d'informations pour un pré-diagnostic

IMPORTANT: Vous devez TOUJOURS poser des questions de suivi pour approfondir les symptômes, leur évolution, les facteurs déclenchants, l'historique médical. Soyez comme un médecin qui interroge son patient de manière méthodique.`,
		symptoms, conversation.String(), question, patientResponse)

	return []ChatMessage{
		{Role: "system", Content: followUpSystemPrompt},
		{Role: "user", Content: prompt},
	}
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
