package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var brand = Brand{CompanyName: "Pinit Down", AppName: "pinit-down", SupportURL: "https://example.com/help"}

func TestRenderVerifyEmail(t *testing.T) {
	link := LinkWithToken("http://localhost:5173/verify-email", "abc_123-XY")
	data := NewVerifyEmailData(brand, "Alice", "alice@example.com", link,
		WithExpiresAt(time.Date(2030, 1, 2, 15, 4, 0, 0, time.UTC)))

	subject, text, html, err := Render(VerifyEmail, data)
	require.NoError(t, err)
	assert.Equal(t, "Verify your email for pinit-down", subject)
	assert.Contains(t, text, "Hi Alice,")
	assert.Contains(t, text, "http://localhost:5173/verify-email?token=abc_123-XY")
	assert.Contains(t, text, "02 January 2030, 15:04 UTC")
	assert.Contains(t, html, `href="http://localhost:5173/verify-email?token=abc_123-XY"`)
}

func TestRenderForgotPasswordEscapesHTML(t *testing.T) {
	data := NewForgotPasswordData(brand, "<b>Eve</b>", "eve@example.com", "http://localhost/reset-password?token=t")

	subject, text, html, err := Render(ForgotPassword, data)
	require.NoError(t, err)
	assert.Equal(t, "Reset your pinit-down password", subject)
	assert.Contains(t, text, "eve@example.com")
	assert.NotContains(t, html, "<b>Eve</b>")
	assert.Contains(t, html, "&lt;b&gt;Eve&lt;/b&gt;")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("login_otp", map[string]any{})
	require.Error(t, err)
	assert.False(t, Exists("login_otp"))
	assert.True(t, Exists(VerifyEmail))
	assert.True(t, Exists(ForgotPassword))
}

func TestLinkWithToken(t *testing.T) {
	assert.Equal(t, "https://app.test/reset?token=a%2Bb", LinkWithToken("https://app.test/reset", "a+b"))
	assert.Equal(t, "https://app.test/reset?lang=en&token=x", LinkWithToken("https://app.test/reset?lang=en", "x"))
}

func TestDefaultFn(t *testing.T) {
	assert.Equal(t, "fallback", defaultFn("fallback", ""))
	assert.Equal(t, "fallback", defaultFn("fallback", nil))
	assert.Equal(t, "fallback", defaultFn("fallback", 0))
	assert.Equal(t, "value", defaultFn("fallback", "value"))
}
