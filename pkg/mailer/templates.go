package mailer

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

// Product is the name shown in every email.
const Product = "TMS"

type content struct {
	Product      string
	Name         string
	Intro        string
	Instructions string
	ButtonText   string
	ButtonColor  string
	Link         string
	Outro        string
}

const outro = "Need help, or have questions? Just reply to this email, we'd love to help."

var textTmpl = texttemplate.Must(texttemplate.New("text").Parse(`Hi {{.Name}},

{{.Intro}}

{{.Instructions}}
{{.Link}}

{{.Outro}}

{{.Product}}
`))

var htmlTmpl = htmltemplate.Must(htmltemplate.New("html").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Helvetica, Arial, sans-serif; color: #333;">
  <p>Hi {{.Name}},</p>
  <p>{{.Intro}}</p>
  <p>{{.Instructions}}</p>
  <p><a href="{{.Link}}" style="background: {{.ButtonColor}}; color: #fff; padding: 10px 18px; border-radius: 3px; text-decoration: none;">{{.ButtonText}}</a></p>
  <p style="font-size: 12px;">{{.Link}}</p>
  <p>{{.Outro}}</p>
  <p>{{.Product}}</p>
</body>
</html>
`))

func render(kind Kind, to, subject string, c content) (Message, error) {
	c.Product = Product
	c.Outro = outro

	var text, html bytes.Buffer
	if err := textTmpl.Execute(&text, c); err != nil {
		return Message{}, fmt.Errorf("render text: %w", err)
	}
	if err := htmlTmpl.Execute(&html, c); err != nil {
		return Message{}, fmt.Errorf("render html: %w", err)
	}

	return Message{
		Kind:    kind,
		To:      to,
		Subject: subject,
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}

// VerificationEmail asks a new user to confirm their address.
func VerificationEmail(to, username, verifyURL string) (Message, error) {
	return render(KindVerification, to, "Please verify your email", content{
		Name:         username,
		Intro:        "Welcome! We're excited to have you on board.",
		Instructions: "To verify your email, please click the following button:",
		ButtonText:   "Verify your email",
		ButtonColor:  "#22BC66",
		Link:         verifyURL,
	})
}

// LoginNoticeEmail tells the user a login just happened and offers a
// logout link in case it wasn't them.
func LoginNoticeEmail(to, username, logoutURL string) (Message, error) {
	return render(KindLoginNotice, to, "New login to your account", content{
		Name:         username,
		Intro:        "Welcome back! A login to your account was just made.",
		Instructions: "If you did not log in and want to log out, please click the following button:",
		ButtonText:   "Logout",
		ButtonColor:  "#FF2A04",
		Link:         logoutURL,
	})
}

// PasswordResetEmail carries the password reset link.
func PasswordResetEmail(to, username, resetURL string) (Message, error) {
	return render(KindPasswordReset, to, "Password reset request", content{
		Name:         username,
		Intro:        "We received a request to reset your password.",
		Instructions: "To reset your password, click on the following button:",
		ButtonText:   "Reset Password",
		ButtonColor:  "#DC4D2F",
		Link:         resetURL,
	})
}
