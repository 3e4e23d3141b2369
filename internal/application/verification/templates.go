package verification

import (
	"fmt"

	"github.com/Fokku/flightbooker/internal/domain"
)

func subjectLine(purpose domain.VerificationPurpose) string {
	switch purpose {
	case domain.PurposePreRegistration:
		return "Email Verification for Registration"
	case domain.PurposePasswordReset:
		return "Password Reset Verification"
	default:
		return "Verify your email address"
	}
}

func body(purpose domain.VerificationPurpose, code string) string {
	var heading, extra string
	switch purpose {
	case domain.PurposePreRegistration:
		heading = "Complete Your Registration"
		extra = "<p>Please enter this code to complete your registration.</p>"
	case domain.PurposePasswordReset:
		heading = "Password Reset Verification"
		extra = "<p>If you didn't request this password reset, please ignore this email.</p>"
	default:
		heading = "Email Verification"
		extra = "<p>If you didn't request this verification, please ignore this email.</p>"
	}
	return fmt.Sprintf(`<html>
<body>
	<h2>%s</h2>
	<p>Your verification code is: <strong>%s</strong></p>
	<p>This code will expire in 15 minutes.</p>
	%s
</body>
</html>`, heading, code, extra)
}
