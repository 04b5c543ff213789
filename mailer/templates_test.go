package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWelcome(t *testing.T) {
	html, err := renderWelcome("Asha Varma")
	require.NoError(t, err)
	assert.Contains(t, html, "Asha Varma")
	assert.Contains(t, html, "Techno Computers")
}

func TestRenderOrderConfirmation(t *testing.T) {
	html, err := renderOrderConfirmation("Asha Varma", "TCO000042", 260, []OrderLine{
		{Name: "NVMe SSD 1TB", Quantity: 2, Price: 80},
		{Name: "HDMI Cable", Quantity: 1, Price: 100},
	})
	require.NoError(t, err)
	assert.Contains(t, html, "TCO000042")
	assert.Contains(t, html, "NVMe SSD 1TB")
	// line totals are computed per row
	assert.Contains(t, html, "160.00")
	assert.Contains(t, html, "260.00")
}

func TestRenderOrderStatusUpdate(t *testing.T) {
	html, err := renderOrderStatusUpdate("Asha Varma", "TCO000042", "shipped")
	require.NoError(t, err)
	assert.Contains(t, html, "TCO000042")
	assert.Contains(t, html, "has been shipped")

	// unknown statuses fall back to a generic line
	html, err = renderOrderStatusUpdate("Asha Varma", "TCO000042", "confirmed")
	require.NoError(t, err)
	assert.Contains(t, html, "status has been updated")
}

func TestRenderContactTemplates(t *testing.T) {
	msg := ContactMessage{
		Name:    "Priya",
		Email:   "priya@example.com",
		Subject: "Warranty question",
		Message: "Line one\nLine two",
	}

	admin, err := renderContactAdmin(msg)
	require.NoError(t, err)
	assert.Contains(t, admin, "priya@example.com")
	assert.Contains(t, admin, "Warranty question")

	ack, err := renderContactAck(msg)
	require.NoError(t, err)
	assert.Contains(t, ack, "Priya")
	assert.Contains(t, ack, "24-48 hours")
}
