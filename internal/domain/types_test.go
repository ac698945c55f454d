package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUrgency_IsValid(t *testing.T) {
	tests := []struct {
		name    string
		urgency Urgency
		want    bool
	}{
		{"low", UrgencyLow, true},
		{"medium", UrgencyMedium, true},
		{"high", UrgencyHigh, true},
		{"urgent", UrgencyUrgent, true},
		{"empty", Urgency(""), false},
		{"unknown", Urgency("critical"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.urgency.IsValid())
		})
	}
}

func TestUrgency_Label(t *testing.T) {
	assert.Equal(t, "URGENT", UrgencyUrgent.Label())
	assert.Equal(t, "PRIORITAIRE", UrgencyHigh.Label())
	assert.Equal(t, "À PRÉVOIR", UrgencyMedium.Label())
	assert.Equal(t, "RECOMMANDÉ", UrgencyLow.Label())
}

func TestUrgency_Rank(t *testing.T) {
	assert.True(t, UrgencyLow.Rank() < UrgencyMedium.Rank())
	assert.True(t, UrgencyMedium.Rank() < UrgencyHigh.Rank())
	assert.True(t, UrgencyHigh.Rank() < UrgencyUrgent.Rank())
}

func TestAnxietyTier_IsValid(t *testing.T) {
	assert.True(t, AnxietyMild.IsValid())
	assert.True(t, AnxietyModerate.IsValid())
	assert.True(t, AnxietyHigh.IsValid())
	assert.False(t, AnxietyTier("panique").IsValid())
}

func TestSymptomReport_Validate(t *testing.T) {
	tests := []struct {
		name    string
		report  SymptomReport
		wantErr bool
	}{
		{"valid", SymptomReport{Text: "douleur thoracique depuis hier"}, false},
		{"empty", SymptomReport{Text: ""}, true},
		{"whitespace only", SymptomReport{Text: "   \t"}, true},
		{"with profile", SymptomReport{Text: "fatigue", Profile: &PatientProfile{Age: 42}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.report.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
