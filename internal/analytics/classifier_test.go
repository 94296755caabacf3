package analytics

import (
	"testing"

	"github.com/andresuchdata/hypnoscale/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestClassifyStockLevel(t *testing.T) {
	assert.Equal(t, domain.StockLow, ClassifyStockLevel(0))
	assert.Equal(t, domain.StockLow, ClassifyStockLevel(99))
	assert.Equal(t, domain.StockHealthy, ClassifyStockLevel(100))
	assert.Equal(t, domain.StockHealthy, ClassifyStockLevel(110))
}

func TestClassifyReorder(t *testing.T) {
	tests := []struct {
		days int
		want domain.StatusLevel
	}{
		{-17, domain.StatusCritical},
		{0, domain.StatusCritical},
		{7, domain.StatusCritical},
		{8, domain.StatusWarning},
		{14, domain.StatusWarning},
		{15, domain.StatusHealthy},
		{90, domain.StatusHealthy},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyReorder(tt.days), "days=%d", tt.days)
	}
}

func TestClassifyMargin(t *testing.T) {
	assert.Equal(t, domain.MarginHealthy, ClassifyMargin(32.4))
	assert.Equal(t, domain.MarginModerate, ClassifyMargin(25))
	assert.Equal(t, domain.MarginModerate, ClassifyMargin(10))
	assert.Equal(t, domain.MarginAtRisk, ClassifyMargin(9.99))
	assert.Equal(t, domain.MarginAtRisk, ClassifyMargin(-4))
}

func TestClassifyChurn(t *testing.T) {
	assert.Equal(t, domain.StatusHealthy, ClassifyChurn(10))
	assert.Equal(t, domain.StatusWarning, ClassifyChurn(10.1))
	assert.Equal(t, domain.StatusWarning, ClassifyChurn(15))
	assert.Equal(t, domain.StatusCritical, ClassifyChurn(15.1))
}

func TestClassifyCohortChurnAndRetention(t *testing.T) {
	assert.Equal(t, domain.ChurnLow, ClassifyCohortChurn(8))
	assert.Equal(t, domain.ChurnMedium, ClassifyCohortChurn(8.5))
	assert.Equal(t, domain.ChurnMedium, ClassifyCohortChurn(15))
	assert.Equal(t, domain.ChurnHigh, ClassifyCohortChurn(15.5))

	assert.Equal(t, domain.RetentionStrong, ClassifyRetention(50))
	assert.Equal(t, domain.RetentionFair, ClassifyRetention(35))
	assert.Equal(t, domain.RetentionWeak, ClassifyRetention(34.9))
}

func TestHealthFlags(t *testing.T) {
	assert.False(t, ROASHealthy(1.8))
	assert.True(t, ROASHealthy(1.81))
	assert.True(t, TrueMarginHealthy(40))
	assert.False(t, TrueMarginHealthy(39.9))
	assert.False(t, RunwaySafe(3))
	assert.True(t, RunwaySafe(3.1))
	assert.Equal(t, domain.InsightWarning, InsightStatus(0))
	assert.Equal(t, domain.InsightSuccess, InsightStatus(0.1))
}

func TestClassifyIsPure(t *testing.T) {
	thresholds := Thresholds{Critical: 7, Warning: 14}
	for i := 0; i < 3; i++ {
		assert.Equal(t, domain.StatusCritical, Classify(7, thresholds))
		assert.Equal(t, domain.StatusWarning, Classify(14, thresholds))
		assert.Equal(t, domain.StatusHealthy, Classify(14.5, thresholds))
	}
}
