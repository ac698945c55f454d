package report

import (
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sehha-plus/triage-server/internal/domain"
)

func fontAvailable() bool {
	for _, path := range defaultFontPaths {
		if _, err := os.Stat(path); err == nil {
			return true
		}
	}
	return false
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestGenerate(t *testing.T) {
	if !fontAvailable() {
		t.Skip("DejaVuSans not installed")
	}

	gen := NewGenerator(domain.ReportConfig{}, testLogger())

	c := &domain.Consultation{
		ID:              "c-1",
		UserID:          "user-1",
		Symptoms:        "Douleur thoracique et palpitations depuis 2 jours",
		Duration:        "2 jours",
		PreDiagnosis:    "Analyse médicale des symptômes cardiovasculaires",
		Urgency:         domain.UrgencyHigh,
		Recommendations: "Consultation spécialisée recommandée\n\nSpécialiste à consulter: Cardiologue",
		AnxietyTier:     domain.AnxietyModerate,
		SupportMessage:  "Vos symptômes méritent une attention médicale.",
		CreatedAt:       time.Now(),
	}

	data, err := gen.Generate(c)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	// PDF magic bytes.
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestGenerate_MissingFont(t *testing.T) {
	gen := &Generator{
		fontPaths: []string{"/nonexistent/font.ttf"},
		logger:    testLogger(),
	}

	_, err := gen.Generate(&domain.Consultation{Symptoms: "toux"})
	assert.Error(t, err)
}

func TestUrgencyHeadline(t *testing.T) {
	assert.Contains(t, urgencyHeadline(domain.UrgencyUrgent), "URGENT")
	assert.Contains(t, urgencyHeadline(domain.UrgencyHigh), "PRIORITAIRE")
	assert.Contains(t, urgencyHeadline(domain.UrgencyMedium), "À PRÉVOIR")
	assert.Contains(t, urgencyHeadline(domain.UrgencyLow), "RECOMMANDÉ")
}
