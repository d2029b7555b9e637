package utils

import (
	"fmt"
	"net/smtp"
	"strings"

	"learnhub/config"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := config.AppConfig.SMTPHost
	smtpPort := config.AppConfig.SMTPPort

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: LearnHub <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	return nil
}

// HTML wrapper shared by all triggers
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1B3B5F; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1B3B5F; line-height: 1.6; }
			.content h2 { color: #1B3B5F; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #2E8B57; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #2E8B57; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>LEARNHUB</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 LearnHub. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---
// Every trigger is fire-and-forget: a failed email never fails the request
// that caused it.

// 1. Welcome / Registration
func SendWelcomeEmail(email, name string) {
	subject := "Welcome to LearnHub"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Welcome to <strong>LearnHub</strong>! Your account has been created successfully.</p>
		<p>Browse the catalog and start learning right away.</p>
	`, name)

	go SendEmail([]string{email}, subject, getEmailTemplate("Welcome Onboard!", body))
}

// 2. Teacher registration -> admin approval request
func SendTeacherApprovalRequestEmail(adminEmail, teacherName, teacherEmail, approveLink string) {
	if adminEmail == "" {
		return
	}
	subject := "New Teacher Registration - Approval Required"
	body := fmt.Sprintf(`
		<p>A new teacher has registered:</p>
		<div class="info-box">
			<strong>Name:</strong> %s<br>
			<strong>Email:</strong> %s
		</div>
		<p>Click the button below to approve this teacher. The link expires in one hour.</p>
		<a href="%s" class="btn">Approve Teacher</a>
	`, teacherName, teacherEmail, approveLink)

	go SendEmail([]string{adminEmail}, subject, getEmailTemplate("Teacher Approval Required", body))
}

// 3. Teacher approved
func SendTeacherApprovedEmail(email, name string) {
	subject := "Your teacher account has been approved"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Great news! An administrator has approved your teacher account.</p>
		<p>You can now create and publish courses.</p>
	`, name)

	go SendEmail([]string{email}, subject, getEmailTemplate("Account Approved", body))
}

// 4. Subscribe request -> owner approval request
func SendEnrollmentRequestEmail(ownerEmail, studentName, courseTitle, approveLink string) {
	subject := "Enrollment Request: " + courseTitle
	body := fmt.Sprintf(`
		<p>Student <strong>%s</strong> has requested access to your premium course <strong>%s</strong>.</p>
		<p>Click the button below to approve the enrollment. The link expires in one hour.</p>
		<a href="%s" class="btn">Approve Enrollment</a>
		<p>You can also approve the request from your dashboard at any time.</p>
	`, studentName, courseTitle, approveLink)

	go SendEmail([]string{ownerEmail}, subject, getEmailTemplate("New Enrollment Request", body))
}

// 5. Enrollment approved
func SendEnrollmentApprovedEmail(studentEmail, courseTitle string) {
	subject := "Enrollment Approved: " + courseTitle
	body := fmt.Sprintf(`
		<p>Your enrollment in <strong>%s</strong> has been approved.</p>
		<p>The full course content is now available to you.</p>
	`, courseTitle)

	go SendEmail([]string{studentEmail}, subject, getEmailTemplate("Enrollment Approved", body))
}
