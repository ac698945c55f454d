package triage

import (
	"github.com/sehha-plus/triage-server/internal/domain"
)

// Support messages are localized string resources keyed by
// (support category × anxiety tier). The texts carry their presentation
// markers (emoji headers, markdown bold) verbatim; the engine treats them
// as opaque.
var supportMessages = map[domain.SupportCategory]map[domain.AnxietyTier]string{
	domain.SupportMentalHealth: {
		domain.AnxietyHigh: `💙 **Un pas courageux vers le mieux-être**

Je tiens à vous féliciter pour avoir pris le temps de parler de ce que vous ressentez. Exprimer ses difficultés émotionnelles demande du courage, et vous l'avez fait.

**Ce que vous vivez est réel et important.** Beaucoup de personnes traversent des moments similaires, et il existe des solutions et des accompagnements adaptés à votre situation.

**Vous méritez d'aller mieux.** Prendre soin de sa santé mentale est un acte de bienveillance envers soi-même. Les professionnels de la santé mentale sont formés pour vous écouter sans jugement et vous proposer des stratégies personnalisées.

*Rappel important : En cas de pensées suicidaires, contactez immédiatement SOS Amitié Maroc au 141 ou rendez-vous aux urgences psychiatriques.*`,

		domain.AnxietyModerate: `🌱 **Prendre soin de soi, c'est important**

Vous avez fait un excellent choix en prenant le temps d'analyser ce que vous ressentez. Reconnaître ses difficultés est déjà un grand pas vers l'amélioration.

**Vos sentiments sont légitimes.** Il est normal de traverser des périodes plus difficiles, et chercher de l'aide montre votre force, pas votre faiblesse.

**Des solutions existent.** Qu'il s'agisse de techniques de gestion du stress, d'un accompagnement psychologique ou simplement d'une oreille attentive, vous pouvez retrouver un équilibre.

Prenez le temps qu'il vous faut, et n'hésitez pas à vous entourer de personnes bienveillantes.`,

		domain.AnxietyMild: `☀️ **Félicitations pour cette démarche de bien-être**

Prendre un moment pour faire le point sur son état émotionnel est une excellente habitude. Cela montre que vous vous écoutez et que vous prenez soin de vous.

**Vous êtes sur la bonne voie.** Même les petites gênes méritent attention, et il est sage de ne pas les ignorer.

**Continuez à vous écouter** et n'hésitez pas à chercher du soutien si vous en ressentez le besoin. Prendre soin de sa santé mentale, c'est prendre soin de sa santé globale.`,
	},

	domain.SupportPhysicalPain: {
		domain.AnxietyHigh: `🤗 **Vous n'êtes pas seul(e) face à la douleur**

Je comprends que vivre avec des douleurs puisse être épuisant et anxiogène. Votre démarche pour comprendre vos symptômes montre votre détermination à aller mieux.

**Votre douleur est réelle et mérite attention.** Il est normal de se sentir inquiet(e) quand notre corps nous envoie des signaux, et vous avez raison de les prendre au sérieux.

**Des solutions existent pour vous soulager.** Les professionnels de santé disposent de nombreux outils pour diagnostiquer et traiter efficacement la plupart des conditions douloureuses.

**Gardez espoir** - beaucoup de personnes dans votre situation ont trouvé des solutions adaptées et retrouvé leur qualité de vie.`,

		domain.AnxietyModerate: `💚 **Prendre soin de son corps, c'est essentiel**

Vous faites preuve de sagesse en écoutant votre corps et en cherchant à comprendre vos symptômes. Cette attention que vous vous portez est précieuse.

**Vos symptômes méritent d'être pris au sérieux.** Il est important de ne pas minimiser ce que vous ressentez, même si cela peut paraître bénin.

**Vous êtes entre de bonnes mains.** Les professionnels de santé sont là pour vous accompagner et trouver les meilleures solutions pour votre situation.

Continuez à prendre soin de vous avec cette même attention bienveillante.`,

		domain.AnxietyMild: `🌟 **Excellente initiative de prévention**

Félicitations pour votre approche proactive de votre santé ! Prendre le temps d'analyser ses symptômes et chercher des conseils adaptés est une démarche très responsable.

**Vous prenez les bonnes décisions.** Même pour des symptômes qui semblent mineurs, il est intelligent de s'informer et de consulter si nécessaire.

**Votre bien-être compte.** Continuer à être à l'écoute de votre corps vous aidera à maintenir une bonne santé sur le long terme.

Vous êtes sur la bonne voie pour prendre soin de vous de manière optimale.`,
	},

	domain.SupportGeneral: {
		domain.AnxietyHigh: `🌈 **Vous avez fait le bon choix en cherchant des réponses**

Je comprends que l'incertitude face à des symptômes puisse générer beaucoup d'anxiété. Votre démarche pour obtenir des informations fiables est très sage.

**Vos préoccupations sont légitimes.** Il est tout à fait normal de vouloir comprendre ce qui se passe dans son corps et de chercher des réponses professionnelles.

**Vous n'êtes pas seul(e) dans cette démarche.** De nombreuses personnes vivent des situations similaires, et les professionnels de santé sont formés pour vous accompagner avec bienveillance.

**Gardez confiance** - la plupart des conditions médicales ont des solutions, et vous prenez déjà les bonnes mesures pour aller mieux.`,

		domain.AnxietyModerate: `✨ **Bravo pour cette démarche de santé responsable**

Vous montrez une excellente conscience de votre bien-être en prenant le temps d'analyser vos symptômes et de chercher des conseils appropriés.

**Votre approche est exemplaire.** Être attentif(ve) à son corps et ne pas ignorer les signaux qu'il nous envoie est une forme de respect envers soi-même.

**Vous êtes sur la bonne voie.** Les professionnels de santé apprécient toujours les patients qui arrivent préparés et informés.

Continuez à prendre soin de vous avec cette même attention bienveillante.`,

		domain.AnxietyMild: `🌺 **Félicitations pour votre approche préventive**

Votre démarche de prendre soin de votre santé de manière proactive est admirable. Cela montre votre maturité et votre responsabilité envers votre bien-être.

**Vous faites les bons choix.** Même pour des symptômes qui semblent bénins, il est intelligent de s'informer et de rester vigilant(e).

**Votre santé vous remercie.** Cette attention que vous portez à votre corps vous aidera à maintenir une excellente qualité de vie.

Continuez sur cette voie positive de prévention et de bienveillance envers vous-même.`,
	},
}

// urgentSupportMessage overrides the category×tier table whenever the
// analysis is urgent, regardless of keyword content.
const urgentSupportMessage = `Votre santé est notre priorité. Je comprends que vos symptômes puissent être inquiétants en ce moment. Il est tout à fait normal de ressentir de l'anxiété face à une situation médicale urgente. Vous faites le bon choix en cherchant une aide médicale rapidement. Votre démarche proactive montre que vous prenez soin de votre santé. Les professionnels de santé sont là pour vous accompagner et vous aider à aller mieux. En cas d'urgence immédiate, n'hésitez pas à contacter le 141 ou à vous rendre aux urgences.`

// followUpQuestions accompanies every matched analysis. The list is a
// static constant, not derived from content.
var followUpQuestions = []string{
	"Depuis quand ressentez-vous ces symptômes exactement ?",
	"Avez-vous remarqué des facteurs qui aggravent ou améliorent vos symptômes ?",
	"Avez-vous des antécédents familiaux de conditions similaires ?",
}

// fallbackFollowUpQuestions accompanies the generic analysis produced
// when no rule matches.
var fallbackFollowUpQuestions = []string{
	"Depuis quand ressentez-vous ces symptômes exactement ?",
	"Avez-vous remarqué des facteurs qui aggravent ou améliorent vos symptômes ?",
	"Avez-vous déjà eu des symptômes similaires par le passé ?",
	"Prenez-vous actuellement des médicaments qui pourraient être liés ?",
	"Y a-t-il des antécédents familiaux de conditions similaires ?",
}
