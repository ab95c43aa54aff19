package mailing

import (
	"Receipt-Radar-Backend/entities"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestProcessedMailBodyEscapesUntrustedValues(t *testing.T) {
	receipt := &entities.Receipt{
		ID:                uuid.New(),
		FileDisplayName:   `<img src=x onerror=alert(1)>.pdf`,
		MerchantName:      "<script>document.location='https://evil.example'</script>",
		TransactionAmount: 7.0,
		Currency:          `USD"><iframe>`,
	}

	body := processedMailBody(receipt)

	assert.NotContains(t, body, "<script>")
	assert.NotContains(t, body, "<img")
	assert.NotContains(t, body, "<iframe>")
	assert.Contains(t, body, "&lt;img src=x onerror=alert(1)&gt;.pdf")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestProcessedMailBodyFallsBackToFileName(t *testing.T) {
	receipt := &entities.Receipt{
		ID:       uuid.New(),
		FileName: "groceries.pdf",
		Currency: "USD",
	}

	body := processedMailBody(receipt)

	assert.Contains(t, body, "<b>groceries.pdf</b>")
}
